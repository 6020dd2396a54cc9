// Package schema defines field-descriptor tables for content collections and
// validates raw entry data against them.
package schema

import "fmt"

// Kind identifies the value shape a field accepts.
type Kind string

const (
	// KindString accepts a string value.
	KindString Kind = "string"
	// KindNumber accepts any numeric value; strings are not coerced.
	KindNumber Kind = "number"
	// KindDate accepts a timestamp, string or Unix-millisecond number and coerces it to time.Time.
	KindDate Kind = "date"
	// KindStringArray accepts an array whose elements are all strings.
	KindStringArray Kind = "stringArray"
	// KindReferenceArray accepts an array of identifiers into another collection.
	KindReferenceArray Kind = "referenceArray"
	// KindEnum accepts a string drawn from a closed set of literals.
	KindEnum Kind = "enum"
)

// Field describes a single named field in a schema.
type Field struct {
	// Name is the key looked up in raw entry data.
	Name string `json:"name"`
	// Kind is the accepted value shape.
	Kind Kind `json:"kind"`
	// Required fields must be present unless a Default is declared.
	Required bool `json:"required"`
	// Default is substituted when the key is absent. nil means no default.
	Default any `json:"default,omitempty"`
	// Values lists the allowed literals for KindEnum fields.
	Values []string `json:"values,omitempty"`
	// Collection names the target collection for KindReferenceArray fields.
	Collection string `json:"collection,omitempty"`
}

// Schema is an ordered table of field descriptors.
type Schema struct {
	Fields []Field `json:"fields"`
}

// Object builds a Schema from fields, panicking on duplicate names or on a
// descriptor that cannot be satisfied. Schemas are declared at configuration
// time, so a malformed table is a programming error.
func Object(fields ...Field) Schema {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if err := f.check(); err != nil {
			panic(err)
		}
		if seen[f.Name] {
			panic(fmt.Sprintf("schema: duplicate field %q", f.Name))
		}
		seen[f.Name] = true
	}
	return Schema{Fields: append([]Field(nil), fields...)}
}

// Field returns the descriptor named name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// References returns the reference fields of s in declaration order.
func (s Schema) References() []Field {
	var refs []Field
	for _, f := range s.Fields {
		if f.Kind == KindReferenceArray {
			refs = append(refs, f)
		}
	}
	return refs
}

func (f Field) check() error {
	if f.Name == "" {
		return fmt.Errorf("schema: field with empty name")
	}
	switch f.Kind {
	case KindString, KindNumber, KindDate, KindStringArray:
	case KindEnum:
		if len(f.Values) == 0 {
			return fmt.Errorf("schema: enum field %q declares no values", f.Name)
		}
	case KindReferenceArray:
		if f.Collection == "" {
			return fmt.Errorf("schema: reference field %q declares no target collection", f.Name)
		}
	default:
		return fmt.Errorf("schema: field %q has unknown kind %q", f.Name, f.Kind)
	}
	return nil
}

// String declares a required string field.
func String(name string) Field { return Field{Name: name, Kind: KindString, Required: true} }

// Number declares a required number field.
func Number(name string) Field { return Field{Name: name, Kind: KindNumber, Required: true} }

// Date declares a required date field.
func Date(name string) Field { return Field{Name: name, Kind: KindDate, Required: true} }

// StringArray declares a required array-of-string field.
func StringArray(name string) Field {
	return Field{Name: name, Kind: KindStringArray, Required: true}
}

// Enum declares a required enumeration field over values.
func Enum(name string, values ...string) Field {
	return Field{Name: name, Kind: KindEnum, Required: true, Values: values}
}

// ReferenceArray declares a required array of references into collection.
func ReferenceArray(name, collection string) Field {
	return Field{Name: name, Kind: KindReferenceArray, Required: true, Collection: collection}
}

// Optional returns a copy of f that may be absent.
func (f Field) Optional() Field {
	f.Required = false
	return f
}

// WithDefault returns a copy of f whose absent value is replaced by v.
func (f Field) WithDefault(v any) Field {
	f.Required = false
	f.Default = v
	return f
}

// Reference is the validated value of a reference element: the target
// collection and the identifier within it. Existence of the target entry is
// not checked here.
type Reference struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
}

// IssueCode classifies why a field failed validation.
type IssueCode string

const (
	// IssueRequired indicates a required field is absent or empty.
	IssueRequired IssueCode = "required"
	// IssueInvalidType indicates a value of the wrong kind.
	IssueInvalidType IssueCode = "invalid_type"
	// IssueInvalidEnum indicates an enum value outside the declared set.
	IssueInvalidEnum IssueCode = "invalid_enum"
	// IssueInvalidDate indicates a value that could not be coerced to a date.
	IssueInvalidDate IssueCode = "invalid_date"
	// IssueInvalidReference indicates a reference element naming another collection or carrying no id.
	IssueInvalidReference IssueCode = "invalid_reference"
)

// Issue is a single validation failure.
type Issue struct {
	// Path is the field name, with an element index for array members (e.g. "tags[2]").
	Path    string    `json:"path"`
	Code    IssueCode `json:"code"`
	Message string    `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}
