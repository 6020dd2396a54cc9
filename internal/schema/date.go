package schema

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// maxEpochMillis bounds numeric dates to ±100,000,000 days around the epoch.
const maxEpochMillis = 8.64e15

// dateLayouts are tried in order when coercing a string. Layouts without a
// zone are interpreted as UTC so that results do not depend on the host.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	time.RFC1123Z,
	time.RFC1123,
	"January 2, 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
}

// CoerceDate converts v to a UTC time.Time. It accepts time.Time values, date
// strings in the layouts above, and numbers, which are read as milliseconds
// since the Unix epoch. TOML local dates and date-times are read as UTC.
func CoerceDate(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x.UTC(), nil
	case toml.LocalDate:
		return x.AsTime(time.UTC), nil
	case toml.LocalDateTime:
		return x.AsTime(time.UTC), nil
	case toml.LocalTime:
		return time.Time{}, fmt.Errorf("invalid date: time of day %s has no date", x)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, fmt.Errorf("invalid date: empty string")
		}
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("invalid date: %q", x)
	}
	if ms, ok := toNumber(v); ok {
		if math.Abs(ms) > maxEpochMillis {
			return time.Time{}, fmt.Errorf("invalid date: %v is out of range", ms)
		}
		return time.UnixMilli(int64(ms)).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date: expected date, string or number, received %s", describe(v))
}
