// Package loader discovers and reads raw content entries from a site's files.
package loader

import (
	"context"
	"errors"
	"io/fs"
)

var (
	// ErrTargetMissing is returned when a loader's base directory or file does not exist.
	ErrTargetMissing = errors.New("loader target does not exist")
	// ErrUnparseable is returned when a loader's source file cannot be decoded.
	ErrUnparseable = errors.New("loader source is unparseable")
)

// RawEntry is one unvalidated content item produced by a loader.
type RawEntry struct {
	// ID identifies the entry within its collection.
	ID string
	// Data holds the decoded fields (front matter or record object).
	Data map[string]any
	// Body is the markdown body following front matter; empty for file entries.
	Body string
	// FilePath is the slash-separated path of the source file relative to the site root.
	FilePath string
}

// ProblemKind classifies a per-entry loading failure.
type ProblemKind string

const (
	// ProblemParse indicates an entry whose source could not be decoded.
	ProblemParse ProblemKind = "parse"
	// ProblemMissingID indicates a record that carries no usable identifier.
	ProblemMissingID ProblemKind = "missing-id"
)

// Problem describes an entry that a loader had to skip. The remaining entries
// are still returned.
type Problem struct {
	Kind    ProblemKind
	Path    string
	Message string
}

// Loader enumerates raw entries from fsys. A non-nil error means the whole
// target failed; per-entry failures are reported as problems.
type Loader interface {
	Load(ctx context.Context, fsys fs.FS) ([]RawEntry, []Problem, error)
	// Kind names the loader variant ("glob" or "file").
	Kind() string
	// Target describes the source location.
	Target() string
}
