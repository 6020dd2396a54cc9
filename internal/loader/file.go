package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// File reads every entry from one structured data file. The format is chosen
// by extension: .json, .yaml/.yml or .toml.
type File struct {
	Path string
	// IDFields are consulted, in order, after "id" and "slug" when an array
	// element carries neither.
	IDFields []string
}

// NewFile returns a file loader for the slash-separated path p relative to
// the site root. idFields name the fallback identifier fields for array
// elements.
func NewFile(p string, idFields ...string) *File {
	return &File{Path: path.Clean(p), IDFields: idFields}
}

// Kind reports "file".
func (f *File) Kind() string { return "file" }

// Target returns the file path.
func (f *File) Target() string { return f.Path }

// Load decodes the file. A top-level array yields one entry per element, each
// of which must carry an "id", "slug" or one of IDFields. A top-level object
// yields one entry per key, in sorted key order, with the key as id.
func (f *File) Load(ctx context.Context, fsys fs.FS) ([]RawEntry, []Problem, error) {
	content, err := fs.ReadFile(fsys, f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrTargetMissing, f.Path)
		}
		return nil, nil, fmt.Errorf("read %s: %w", f.Path, err)
	}

	doc, err := decodeData(f.Path, content)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrUnparseable, f.Path, err)
	}

	var entries []RawEntry
	var problems []Problem

	switch root := doc.(type) {
	case []any:
		for i, item := range root {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			where := fmt.Sprintf("%s[%d]", f.Path, i)
			obj, ok := item.(map[string]any)
			if !ok {
				problems = append(problems, Problem{Kind: ProblemParse, Path: where, Message: "entry is not an object"})
				continue
			}
			id, ok := recordID(obj, f.IDFields)
			if !ok {
				problems = append(problems, Problem{Kind: ProblemMissingID, Path: where, Message: "entry has no identifier field"})
				continue
			}
			entries = append(entries, RawEntry{ID: id, Data: obj, FilePath: f.Path})
		}

	case map[string]any:
		keys := make([]string, 0, len(root))
		for k := range root {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			obj, ok := root[k].(map[string]any)
			if !ok {
				problems = append(problems, Problem{Kind: ProblemParse, Path: f.Path + "#" + k, Message: "entry is not an object"})
				continue
			}
			entries = append(entries, RawEntry{ID: k, Data: obj, FilePath: f.Path})
		}

	default:
		return nil, nil, fmt.Errorf("%w: %s: top level must be an array or object", ErrUnparseable, f.Path)
	}

	return entries, problems, nil
}

func decodeData(p string, content []byte) (any, error) {
	var doc any
	switch strings.ToLower(path.Ext(p)) {
	case ".json":
		if err := json.Unmarshal(content, &doc); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &doc); err != nil {
			return nil, err
		}
	case ".toml":
		var table map[string]any
		if err := toml.Unmarshal(content, &table); err != nil {
			return nil, err
		}
		doc = table
	default:
		return nil, fmt.Errorf("unsupported data file extension %q", path.Ext(p))
	}
	return doc, nil
}

// recordID extracts the identifier of an array element. Numeric ids are
// formatted without a trailing fraction.
func recordID(obj map[string]any, fallback []string) (string, bool) {
	for _, key := range append([]string{"id", "slug"}, fallback...) {
		switch v := obj[key].(type) {
		case string:
			if v != "" {
				return v, true
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), true
		case int:
			return strconv.Itoa(v), true
		case int64:
			return strconv.FormatInt(v, 10), true
		case uint64:
			return strconv.FormatUint(v, 10), true
		}
	}
	return "", false
}
