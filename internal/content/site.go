package content

import (
	"github.com/eykd/sitecontent/internal/loader"
	"github.com/eykd/sitecontent/internal/schema"
)

// Collection names declared by the site.
const (
	Blog     = "blog"
	Tags     = "tags"
	Projects = "projects"
)

// TagTypes is the closed set of values for a tag's type field.
var TagTypes = []string{
	"Programming Language",
	"Framework",
	"Design Framework",
	"Tool",
	"Database",
	"Cloud",
	"Other",
}

// SitePaths locates the source files for the site's collections, relative to
// the site root.
type SitePaths struct {
	BlogBase    string
	BlogPattern string
	TagsFile    string
	ProjectFile string
}

// DefaultSitePaths returns the conventional source layout.
func DefaultSitePaths() SitePaths {
	return SitePaths{
		BlogBase:    "src/data/blog",
		BlogPattern: "**/*.md",
		TagsFile:    "src/data/tags.json",
		ProjectFile: "src/data/projects.json",
	}
}

// BlogSchema validates blog post front matter.
func BlogSchema() schema.Schema {
	return schema.Object(
		schema.String("title"),
		schema.String("description"),
		schema.Date("pubDate"),
		schema.Date("updatedDate").Optional(),
		schema.Number("sortOrder"),
		schema.StringArray("tags").WithDefault([]string{}),
	)
}

// TagSchema validates tag records.
func TagSchema() schema.Schema {
	return schema.Object(
		schema.String("name"),
		schema.String("svgSrc"),
		schema.Number("sortOrder").WithDefault(0),
		schema.Enum("type", TagTypes...),
	)
}

// ProjectSchema validates project records. Tags are references into the tags
// collection.
func ProjectSchema() schema.Schema {
	return schema.Object(
		schema.String("title"),
		schema.String("description"),
		schema.String("imageSrc").Optional(),
		schema.String("deploymentUrl").Optional(),
		schema.String("sourceUrl").Optional(),
		schema.Number("sortOrder").WithDefault(0),
		schema.ReferenceArray("tags", Tags).WithDefault([]schema.Reference{}),
	)
}

// SiteRegistry builds the registry holding exactly the blog, tags and
// projects collections. Tag records without an id are identified by name;
// project records by title.
func SiteRegistry(p SitePaths) (*Registry, error) {
	reg := NewRegistry()
	defs := []struct {
		name string
		c    Collection
	}{
		{Blog, DefineCollection(loader.NewGlob(p.BlogPattern, p.BlogBase), BlogSchema())},
		{Tags, DefineCollection(loader.NewFile(p.TagsFile, "name"), TagSchema())},
		{Projects, DefineCollection(loader.NewFile(p.ProjectFile, "title"), ProjectSchema())},
	}
	for _, d := range defs {
		if err := reg.Add(d.name, d.c); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
