package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Glob discovers markdown entries under Base whose relative path matches
// Pattern. Pattern supports "**" for any number of directories.
type Glob struct {
	Pattern string
	Base    string
}

// NewGlob returns a glob loader over base. base is a slash-separated path
// relative to the site root.
func NewGlob(pattern, base string) *Glob {
	return &Glob{Pattern: pattern, Base: path.Clean(base)}
}

// Kind reports "glob".
func (g *Glob) Kind() string { return "glob" }

// Target describes the base directory and pattern.
func (g *Glob) Target() string { return path.Join(g.Base, g.Pattern) }

// Load reads every matching file in lexical path order. Each file's front
// matter becomes the entry data and the remainder its body. The entry id is
// the front matter "slug" when it is a non-empty string, otherwise the slugged
// path relative to Base.
func (g *Glob) Load(ctx context.Context, fsys fs.FS) ([]RawEntry, []Problem, error) {
	info, err := fs.Stat(fsys, g.Base)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrTargetMissing, g.Base)
		}
		return nil, nil, fmt.Errorf("stat %s: %w", g.Base, err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s is not a directory", ErrTargetMissing, g.Base)
	}

	sub, err := fs.Sub(fsys, g.Base)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", g.Base, err)
	}
	matches, err := doublestar.Glob(sub, g.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", g.Target(), err)
	}
	sort.Strings(matches)

	var entries []RawEntry
	var problems []Problem
	for _, rel := range matches {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		filePath := path.Join(g.Base, rel)

		content, err := fs.ReadFile(sub, rel)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", filePath, err)
		}
		data, body, err := ParseFrontmatter(content)
		if err != nil {
			problems = append(problems, Problem{Kind: ProblemParse, Path: filePath, Message: err.Error()})
			continue
		}

		id := Slug(rel)
		if slug, ok := data["slug"].(string); ok && slug != "" {
			id = slug
		}
		entries = append(entries, RawEntry{ID: id, Data: data, Body: body, FilePath: filePath})
	}
	return entries, problems, nil
}
