package loader

import (
	"bytes"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// frontmatterRE matches a YAML front matter block at the start of a file. The
// closing "---" must start at column 0. The block may be empty.
var frontmatterRE = regexp.MustCompile(`(?s)\A---\r?\n(?:(.*?)\r?\n)??---[ \t]*(?:\r?\n|\z)`)

var utf8BOM = []byte("\ufeff")

// ParseFrontmatter splits a markdown file into its front matter fields and body.
// A file without a front matter block yields empty data and the whole content
// as body. A leading UTF-8 byte order mark is ignored. A block that is not a
// YAML mapping is an error.
func ParseFrontmatter(content []byte) (map[string]any, string, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	loc := frontmatterRE.FindSubmatchIndex(content)
	if loc == nil {
		return map[string]any{}, string(content), nil
	}

	body := string(content[loc[1]:])
	if loc[2] < 0 {
		return map[string]any{}, body, nil
	}

	var data map[string]any
	if err := yaml.Unmarshal(content[loc[2]:loc[3]], &data); err != nil {
		return nil, "", fmt.Errorf("parse frontmatter: %w", err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, body, nil
}
