package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/phuslu/log"

	"github.com/eykd/sitecontent/internal/loader"
	"github.com/eykd/sitecontent/internal/logging"
	"github.com/eykd/sitecontent/internal/markdown"
	"github.com/eykd/sitecontent/internal/schema"
)

// Entry is a validated content item.
type Entry struct {
	Collection string             `json:"collection"`
	ID         string             `json:"id"`
	Data       map[string]any     `json:"data"`
	Body       string             `json:"body,omitempty"`
	Rendered   *markdown.Rendered `json:"rendered,omitempty"`
	FilePath   string             `json:"filePath"`
	// Digest fingerprints every stored field except Collection and ID;
	// identical input yields an identical digest.
	Digest string `json:"digest"`
}

// SyncOptions tunes a sync pass.
type SyncOptions struct {
	// Render converts glob entry bodies to HTML.
	Render bool
	// StrictReferences reports references to missing entries as CNT008 errors.
	// When false, references are stored unchecked.
	StrictReferences bool
	// Logger receives progress records. nil discards them.
	Logger *log.Logger
}

// Result holds the validated entries of every collection plus all
// diagnostics raised while producing them.
type Result struct {
	// Entries maps collection name to entries in load order.
	Entries map[string][]Entry
	// Failed holds the collections whose loader could not read its target.
	// Their entry lists are empty because nothing was loaded, not because the
	// source is empty.
	Failed      map[string]bool
	Diagnostics []Diagnostic
}

// Collection returns the entries of the named collection.
func (r *Result) Collection(name string) []Entry {
	return r.Entries[name]
}

// Entry returns the entry id in the named collection.
func (r *Result) Entry(collection, id string) (Entry, bool) {
	for _, e := range r.Entries[collection] {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// HasErrors reports whether the sync produced any error diagnostic.
func (r *Result) HasErrors() bool {
	return HasErrors(r.Diagnostics)
}

// Sync runs every collection in reg against fsys: each loader enumerates raw
// entries and each entry is validated by the collection schema. Entries that
// fail validation are left out of the result and reported as diagnostics; a
// failing collection does not stop the others. The returned error is non-nil
// only when ctx is cancelled.
func Sync(ctx context.Context, fsys fs.FS, reg *Registry, opts SyncOptions) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	var renderer *markdown.Renderer
	if opts.Render {
		renderer = markdown.NewRenderer()
	}

	res := &Result{Entries: make(map[string][]Entry), Failed: make(map[string]bool)}
	for _, name := range reg.Names() {
		c, _ := reg.Get(name)
		entries, diags, failed, err := syncCollection(ctx, fsys, c, renderer)
		if err != nil {
			return nil, err
		}
		if failed {
			res.Failed[name] = true
			logger.Warn().Str("collection", name).Str("target", c.Loader.Target()).Msg("collection could not be loaded")
		}
		res.Entries[name] = entries
		res.Diagnostics = append(res.Diagnostics, diags...)

		logger.Debug().
			Str("collection", name).
			Str("loader", c.Loader.Kind()).
			Str("target", c.Loader.Target()).
			Int("entries", len(entries)).
			Int("diagnostics", len(diags)).
			Msg("collection synced")
	}

	if opts.StrictReferences {
		res.Diagnostics = append(res.Diagnostics, CheckReferences(reg, res)...)
	}

	sortDiagnostics(res.Diagnostics)
	return res, nil
}

// syncCollection loads and validates one collection. failed reports that
// the loader could not read its target at all.
func syncCollection(ctx context.Context, fsys fs.FS, c Collection, renderer *markdown.Renderer) (entries []Entry, diags []Diagnostic, failed bool, err error) {
	raws, problems, err := c.Loader.Load(ctx, fsys)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, false, ctx.Err()
		}
		code := CNT002
		if errors.Is(err, loader.ErrTargetMissing) {
			code = CNT001
		}
		return nil, []Diagnostic{errDiag(code, c.Name, "", c.Loader.Target(), err.Error())}, true, nil
	}

	for _, p := range problems {
		code := CNT002
		if p.Kind == loader.ProblemMissingID {
			code = CNT007
		}
		diags = append(diags, errDiag(code, c.Name, "", p.Path, p.Message))
	}

	index := make(map[string]int)
	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			return nil, nil, false, err
		}

		data, issues := c.Schema.Validate(raw.Data)
		if len(issues) > 0 {
			for _, is := range issues {
				diags = append(diags, errDiag(issueCode(is.Code), c.Name, raw.ID, raw.FilePath, is.String()))
			}
			continue
		}

		e := Entry{Collection: c.Name, ID: raw.ID, Data: data, Body: raw.Body, FilePath: raw.FilePath}
		if renderer != nil && c.Loader.Kind() == "glob" {
			rendered, err := renderer.Render(raw.Body)
			if err != nil {
				diags = append(diags, errDiag(CNT002, c.Name, raw.ID, raw.FilePath, err.Error()))
				continue
			}
			e.Rendered = rendered
		}
		e.Digest, err = digest(e)
		if err != nil {
			return nil, nil, false, fmt.Errorf("digest %s/%s: %w", c.Name, raw.ID, err)
		}

		if i, dup := index[e.ID]; dup {
			diags = append(diags, warnDiag(CNTW001, c.Name, e.ID, raw.FilePath,
				fmt.Sprintf("duplicate id %q: %s replaces %s", e.ID, raw.FilePath, entries[i].FilePath)))
			entries[i] = e
			continue
		}
		index[e.ID] = len(entries)
		entries = append(entries, e)
	}
	return entries, diags, false, nil
}

func issueCode(c schema.IssueCode) Code {
	switch c {
	case schema.IssueRequired:
		return CNT003
	case schema.IssueInvalidEnum:
		return CNT005
	case schema.IssueInvalidDate:
		return CNT006
	case schema.IssueInvalidReference:
		return CNT009
	}
	return CNT004
}

// digest hashes the canonical JSON form of the entry's data, body, source
// path and rendered output.
func digest(e Entry) (string, error) {
	encoded, err := json.Marshal(struct {
		Data     map[string]any     `json:"d"`
		Body     string             `json:"b"`
		FilePath string             `json:"p"`
		Rendered *markdown.Rendered `json:"r"`
	}{e.Data, e.Body, e.FilePath, e.Rendered})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(encoded)), nil
}

// sortDiagnostics orders errors before warnings, then by collection, id,
// path and code.
func sortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if ra, rb := severityRank(a.Severity), severityRank(b.Severity); ra != rb {
			return ra < rb
		}
		if a.Collection != b.Collection {
			return a.Collection < b.Collection
		}
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Code < b.Code
	})
}
