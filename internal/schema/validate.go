package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Validate checks raw against s and returns the normalized data. Keys not
// declared in s are dropped. Absent optional fields with a default receive the
// default; absent optional fields without one are omitted. When any issue is
// found the returned data is nil and issues lists every failing field in
// declaration order.
func (s Schema) Validate(raw map[string]any) (map[string]any, []Issue) {
	out := make(map[string]any, len(s.Fields))
	var issues []Issue

	for _, f := range s.Fields {
		v, present := raw[f.Name]
		if !present {
			switch {
			case f.Default != nil:
				v = f.Default
			case f.Required:
				issues = append(issues, Issue{Path: f.Name, Code: IssueRequired, Message: "required field is missing"})
				continue
			default:
				continue
			}
		}

		val, fieldIssues := f.coerce(v)
		if len(fieldIssues) > 0 {
			issues = append(issues, fieldIssues...)
			continue
		}
		out[f.Name] = val
	}

	if len(issues) > 0 {
		return nil, issues
	}
	return out, nil
}

// coerce converts v into the canonical Go type for f.Kind.
func (f Field) coerce(v any) (any, []Issue) {
	if v == nil {
		return nil, []Issue{typeIssue(f.Name, expectedName(f.Kind), v)}
	}

	switch f.Kind {
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, []Issue{typeIssue(f.Name, "string", v)}
		}
		if f.Required && s == "" {
			return nil, []Issue{{Path: f.Name, Code: IssueRequired, Message: "required field is empty"}}
		}
		return s, nil

	case KindNumber:
		n, ok := toNumber(v)
		if !ok {
			return nil, []Issue{typeIssue(f.Name, "number", v)}
		}
		return n, nil

	case KindDate:
		t, err := CoerceDate(v)
		if err != nil {
			return nil, []Issue{{Path: f.Name, Code: IssueInvalidDate, Message: err.Error()}}
		}
		return t, nil

	case KindEnum:
		s, ok := v.(string)
		if !ok {
			return nil, []Issue{typeIssue(f.Name, "string", v)}
		}
		for _, allowed := range f.Values {
			if s == allowed {
				return s, nil
			}
		}
		return nil, []Issue{{
			Path:    f.Name,
			Code:    IssueInvalidEnum,
			Message: fmt.Sprintf("%q is not one of %s", s, quoteAll(f.Values)),
		}}

	case KindStringArray:
		elems, ok := toSlice(v)
		if !ok {
			return nil, []Issue{typeIssue(f.Name, "array", v)}
		}
		out := make([]string, 0, len(elems))
		var issues []Issue
		for i, e := range elems {
			s, ok := e.(string)
			if !ok {
				issues = append(issues, typeIssue(fmt.Sprintf("%s[%d]", f.Name, i), "string", e))
				continue
			}
			out = append(out, s)
		}
		if len(issues) > 0 {
			return nil, issues
		}
		return out, nil

	case KindReferenceArray:
		elems, ok := toSlice(v)
		if !ok {
			return nil, []Issue{typeIssue(f.Name, "array", v)}
		}
		out := make([]Reference, 0, len(elems))
		var issues []Issue
		for i, e := range elems {
			ref, issue, ok := f.reference(fmt.Sprintf("%s[%d]", f.Name, i), e)
			if !ok {
				issues = append(issues, issue)
				continue
			}
			out = append(out, ref)
		}
		if len(issues) > 0 {
			return nil, issues
		}
		return out, nil
	}

	return nil, []Issue{{Path: f.Name, Code: IssueInvalidType, Message: fmt.Sprintf("unsupported kind %q", f.Kind)}}
}

// reference accepts a bare id or a {collection, id} object whose collection
// matches the declared target.
func (f Field) reference(path string, v any) (Reference, Issue, bool) {
	switch e := v.(type) {
	case string:
		if e == "" {
			return Reference{}, Issue{Path: path, Code: IssueInvalidReference, Message: "reference id is empty"}, false
		}
		return Reference{Collection: f.Collection, ID: e}, Issue{}, true
	case Reference:
		return f.reference(path, map[string]any{"collection": e.Collection, "id": e.ID})
	case map[string]any:
		id, _ := e["id"].(string)
		coll, _ := e["collection"].(string)
		if coll != f.Collection {
			return Reference{}, Issue{
				Path:    path,
				Code:    IssueInvalidReference,
				Message: fmt.Sprintf("reference targets collection %q, expected %q", coll, f.Collection),
			}, false
		}
		if id == "" {
			return Reference{}, Issue{Path: path, Code: IssueInvalidReference, Message: "reference id is empty"}, false
		}
		return Reference{Collection: coll, ID: id}, Issue{}, true
	}
	return Reference{}, typeIssue(path, "reference id", v), false
}

func toNumber(v any) (float64, bool) {
	var n float64
	switch x := v.(type) {
	case int:
		n = float64(x)
	case int8:
		n = float64(x)
	case int16:
		n = float64(x)
	case int32:
		n = float64(x)
	case int64:
		n = float64(x)
	case uint:
		n = float64(x)
	case uint8:
		n = float64(x)
	case uint16:
		n = float64(x)
	case uint32:
		n = float64(x)
	case uint64:
		n = float64(x)
	case float32:
		n = float64(x)
	case float64:
		n = x
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func toSlice(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, true
	case []Reference:
		out := make([]any, len(x))
		for i, r := range x {
			out[i] = r
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(x))
		for i, m := range x {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

func typeIssue(path, expected string, got any) Issue {
	return Issue{
		Path:    path,
		Code:    IssueInvalidType,
		Message: fmt.Sprintf("expected %s, received %s", expected, describe(got)),
	}
}

func expectedName(k Kind) string {
	switch k {
	case KindStringArray, KindReferenceArray:
		return "array"
	case KindEnum:
		return "string"
	}
	return string(k)
}

// describe names the type of a decoded value the way it appeared in the source.
func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		return "number"
	case time.Time:
		return "date"
	case []any, []string:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}
