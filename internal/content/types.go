// Package content declares the site's content collections and materializes
// validated entries from their loaders.
package content

// Code identifies a specific content rule that was evaluated.
type Code string

const (
	// CNT001 indicates a loader's base directory or file does not exist.
	CNT001 Code = "CNT001"
	// CNT002 indicates a source file or front matter block could not be parsed.
	CNT002 Code = "CNT002"
	// CNT003 indicates a required field is absent or empty.
	CNT003 Code = "CNT003"
	// CNT004 indicates a field value of the wrong kind.
	CNT004 Code = "CNT004"
	// CNT005 indicates an enum value outside the declared set.
	CNT005 Code = "CNT005"
	// CNT006 indicates a date value that could not be parsed.
	CNT006 Code = "CNT006"
	// CNT007 indicates a data-file record with no identifier.
	CNT007 Code = "CNT007"
	// CNT008 indicates a reference to an entry that does not exist (strict references only).
	CNT008 Code = "CNT008"
	// CNT009 indicates a malformed reference value.
	CNT009 Code = "CNT009"
	// CNTW001 is a warning indicating two entries in one collection share an id; the later one wins.
	CNTW001 Code = "CNTW001"
)

// Severity classifies the impact level of a diagnostic.
type Severity string

const (
	// SeverityError indicates an entry or collection was rejected.
	SeverityError Severity = "error"
	// SeverityWarning indicates a condition that should be reviewed.
	SeverityWarning Severity = "warning"
)

// Diagnostic is a single finding produced while loading and validating content.
type Diagnostic struct {
	Severity   Severity `json:"severity"`
	Code       Code     `json:"code"`
	Message    string   `json:"message"`
	Collection string   `json:"collection"`
	ID         string   `json:"id,omitempty"`
	Path       string   `json:"path,omitempty"`
}

// HasErrors reports whether any diagnostic in diags has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func errDiag(code Code, collection, id, path, message string) Diagnostic {
	return Diagnostic{Severity: SeverityError, Code: code, Message: message, Collection: collection, ID: id, Path: path}
}

func warnDiag(code Code, collection, id, path, message string) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Code: code, Message: message, Collection: collection, ID: id, Path: path}
}

// severityRank returns a numeric rank for sorting: errors (0) sort before warnings (1).
func severityRank(s Severity) int {
	if s == SeverityError {
		return 0
	}
	return 1
}
