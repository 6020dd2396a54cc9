package content_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eykd/sitecontent/internal/content"
	"github.com/eykd/sitecontent/internal/loader"
	"github.com/eykd/sitecontent/internal/schema"
)

// siteFS returns a small but complete site fixture.
func siteFS() fstest.MapFS {
	return fstest.MapFS{
		"src/data/blog/hello-world.md": {Data: []byte(
			"---\n" +
				"title: Hello World\n" +
				"description: First post\n" +
				"pubDate: 2024-01-15\n" +
				"sortOrder: 1\n" +
				"tags: [go, web]\n" +
				"---\n" +
				"# Hello\n\nWelcome.\n",
		)},
		"src/data/blog/second.md": {Data: []byte(
			"---\n" +
				"title: Second\n" +
				"description: Another post\n" +
				"pubDate: 2024-02-01T10:00:00Z\n" +
				"updatedDate: 2024-02-03\n" +
				"sortOrder: 0\n" +
				"---\n" +
				"Body.\n",
		)},
		"src/data/tags.json": {Data: []byte(`[
			{"name":"Rust","svgSrc":"/rust.svg","type":"Programming Language"},
			{"id":"go","name":"Go","svgSrc":"/go.svg","type":"Programming Language","sortOrder":2}
		]`)},
		"src/data/projects.json": {Data: []byte(`[
			{"id":"sitec","title":"sitec","description":"Content tooling","tags":["go","Rust"]},
			{"id":"portfolio","title":"Portfolio","description":"This site","sortOrder":3,"sourceUrl":"https://example.com/src"}
		]`)},
	}
}

func siteRegistry(t *testing.T) *content.Registry {
	t.Helper()
	reg, err := content.SiteRegistry(content.DefaultSitePaths())
	require.NoError(t, err)
	return reg
}

func TestSiteRegistry_DeclaresExactlyThreeCollections(t *testing.T) {
	reg := siteRegistry(t)
	assert.Equal(t, []string{"blog", "projects", "tags"}, reg.Names())

	blog, ok := reg.Get(content.Blog)
	require.True(t, ok)
	assert.Equal(t, "glob", blog.Loader.Kind())
	assert.Equal(t, "src/data/blog/**/*.md", blog.Loader.Target())

	tags, _ := reg.Get(content.Tags)
	assert.Equal(t, "file", tags.Loader.Kind())
	assert.Equal(t, "src/data/tags.json", tags.Loader.Target())
}

func TestRegistry_RejectsDuplicateName(t *testing.T) {
	reg := content.NewRegistry()
	first := content.DefineCollection(loader.NewGlob("*.md", "a"), schema.Object(schema.String("title")))
	second := content.DefineCollection(loader.NewGlob("*.md", "b"), schema.Object(schema.String("name")))

	require.NoError(t, reg.Add("blog", first))
	err := reg.Add("blog", second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, content.ErrDuplicateCollection))

	got, _ := reg.Get("blog")
	assert.Equal(t, "a/*.md", got.Loader.Target(), "first registration must survive")
	assert.Len(t, reg.Collections(), 1)
}

func TestRegistry_RejectsIncompleteCollection(t *testing.T) {
	reg := content.NewRegistry()
	assert.Error(t, reg.Add("", content.DefineCollection(loader.NewFile("x.json"), schema.Schema{})))
	assert.Error(t, reg.Add("x", content.Collection{}))
}

func TestDefineCollection_DoesNotTouchFilesystem(t *testing.T) {
	c := content.DefineCollection(loader.NewFile("does/not/exist.json"), content.TagSchema())
	assert.Equal(t, "does/not/exist.json", c.Loader.Target())
}

func TestSync_ValidSite(t *testing.T) {
	res, err := content.Sync(context.Background(), siteFS(), siteRegistry(t), content.SyncOptions{})
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
	assert.False(t, res.HasErrors())

	posts := res.Collection(content.Blog)
	require.Len(t, posts, 2)
	for _, p := range posts {
		assert.NotEmpty(t, p.Data["title"])
		assert.NotEmpty(t, p.Data["description"])
		assert.IsType(t, time.Time{}, p.Data["pubDate"])
		assert.IsType(t, float64(0), p.Data["sortOrder"])
		assert.IsType(t, []string{}, p.Data["tags"])
		assert.NotEmpty(t, p.Digest)
	}

	second, ok := res.Entry(content.Blog, "second")
	require.True(t, ok)
	assert.Equal(t, []string{}, second.Data["tags"], "tags default to an empty sequence")
	assert.Equal(t, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), second.Data["updatedDate"])
	assert.Nil(t, second.Rendered, "rendering is off unless requested")

	portfolio, ok := res.Entry(content.Projects, "portfolio")
	require.True(t, ok)
	assert.Equal(t, float64(3), portfolio.Data["sortOrder"])
	assert.Equal(t, []schema.Reference{}, portfolio.Data["tags"])
	_, hasImage := portfolio.Data["imageSrc"]
	assert.False(t, hasImage)

	sitec, _ := res.Entry(content.Projects, "sitec")
	assert.Equal(t, float64(0), sitec.Data["sortOrder"], "omitted sortOrder defaults to 0")
	assert.Equal(t, []schema.Reference{{Collection: "tags", ID: "go"}, {Collection: "tags", ID: "Rust"}}, sitec.Data["tags"])
}

func TestSync_TagScenario(t *testing.T) {
	fsys := siteFS()
	fsys["src/data/tags.json"] = &fstest.MapFile{Data: []byte(`[{"name":"Rust","svgSrc":"/rust.svg","type":"Programming Language"}]`)}

	res, err := content.Sync(context.Background(), fsys, siteRegistry(t), content.SyncOptions{})
	require.NoError(t, err)

	tags := res.Collection(content.Tags)
	require.Len(t, tags, 1)
	assert.Equal(t, map[string]any{
		"name":      "Rust",
		"svgSrc":    "/rust.svg",
		"type":      "Programming Language",
		"sortOrder": float64(0),
	}, tags[0].Data)
}

func TestSync_RejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name       string
		file       string
		content    string
		collection string
		wantCode   content.Code
		wantID     string
	}{
		{
			name:       "tag type outside enum",
			file:       "src/data/tags.json",
			content:    `[{"id":"x","name":"X","svgSrc":"/x.svg","type":"Unknown"}]`,
			collection: content.Tags,
			wantCode:   content.CNT005,
			wantID:     "x",
		},
		{
			name:       "blog post without sortOrder",
			file:       "src/data/blog/hello-world.md",
			content:    "---\ntitle: T\ndescription: D\npubDate: 2024-01-01\n---\n",
			collection: content.Blog,
			wantCode:   content.CNT003,
			wantID:     "hello-world",
		},
		{
			name:       "blog post with unparseable date",
			file:       "src/data/blog/hello-world.md",
			content:    "---\ntitle: T\ndescription: D\npubDate: soon\nsortOrder: 1\n---\n",
			collection: content.Blog,
			wantCode:   content.CNT006,
			wantID:     "hello-world",
		},
		{
			name:       "project title of wrong type",
			file:       "src/data/projects.json",
			content:    `[{"id":"p","title":5,"description":"D"}]`,
			collection: content.Projects,
			wantCode:   content.CNT004,
			wantID:     "p",
		},
		{
			name:       "project tag reference to another collection",
			file:       "src/data/projects.json",
			content:    `[{"id":"p","title":"P","description":"D","tags":[{"collection":"blog","id":"x"}]}]`,
			collection: content.Projects,
			wantCode:   content.CNT009,
			wantID:     "p",
		},
		{
			name:       "unparseable front matter",
			file:       "src/data/blog/hello-world.md",
			content:    "---\ntitle: [\n---\n",
			collection: content.Blog,
			wantCode:   content.CNT002,
		},
		{
			name:       "tag record without any identifier",
			file:       "src/data/tags.json",
			content:    `[{"svgSrc":"/x.svg","type":"Tool"}]`,
			collection: content.Tags,
			wantCode:   content.CNT007,
		},
		{
			name:       "unparseable data file",
			file:       "src/data/projects.json",
			content:    `{{`,
			collection: content.Projects,
			wantCode:   content.CNT002,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := siteFS()
			fsys[tt.file] = &fstest.MapFile{Data: []byte(tt.content)}

			res, err := content.Sync(context.Background(), fsys, siteRegistry(t), content.SyncOptions{})
			require.NoError(t, err)
			require.True(t, res.HasErrors())

			d := res.Diagnostics[0]
			assert.Equal(t, tt.wantCode, d.Code)
			assert.Equal(t, content.SeverityError, d.Severity)
			assert.Equal(t, tt.collection, d.Collection)
			assert.Equal(t, tt.wantID, d.ID)
			if tt.wantID != "" {
				_, found := res.Entry(tt.collection, tt.wantID)
				assert.False(t, found, "rejected entry must not appear in the result")
			}
		})
	}
}

func TestSync_MissingTargetDoesNotStopOtherCollections(t *testing.T) {
	fsys := siteFS()
	delete(fsys, "src/data/tags.json")

	res, err := content.Sync(context.Background(), fsys, siteRegistry(t), content.SyncOptions{})
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, content.CNT001, res.Diagnostics[0].Code)
	assert.Equal(t, content.Tags, res.Diagnostics[0].Collection)
	assert.True(t, res.Failed[content.Tags])
	assert.False(t, res.Failed[content.Blog])
	assert.Len(t, res.Collection(content.Blog), 2)
	assert.Len(t, res.Collection(content.Projects), 2)
}

func TestSync_DuplicateIDLaterWins(t *testing.T) {
	fsys := siteFS()
	fsys["src/data/tags.json"] = &fstest.MapFile{Data: []byte(`[
		{"id":"go","name":"Go","svgSrc":"/old.svg","type":"Tool"},
		{"id":"go","name":"Go","svgSrc":"/new.svg","type":"Tool"}
	]`)}

	res, err := content.Sync(context.Background(), fsys, siteRegistry(t), content.SyncOptions{})
	require.NoError(t, err)
	assert.False(t, res.HasErrors())
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, content.CNTW001, res.Diagnostics[0].Code)
	assert.Equal(t, content.SeverityWarning, res.Diagnostics[0].Severity)

	tags := res.Collection(content.Tags)
	require.Len(t, tags, 1)
	assert.Equal(t, "/new.svg", tags[0].Data["svgSrc"])
}

func TestSync_ReferencesUncheckedByDefault(t *testing.T) {
	fsys := siteFS()
	fsys["src/data/projects.json"] = &fstest.MapFile{Data: []byte(`[{"id":"p","title":"P","description":"D","tags":["nope"]}]`)}

	res, err := content.Sync(context.Background(), fsys, siteRegistry(t), content.SyncOptions{})
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)

	strict, err := content.Sync(context.Background(), fsys, siteRegistry(t), content.SyncOptions{StrictReferences: true})
	require.NoError(t, err)
	require.Len(t, strict.Diagnostics, 1)
	assert.Equal(t, content.CNT008, strict.Diagnostics[0].Code)
	assert.Equal(t, "p", strict.Diagnostics[0].ID)
	assert.Contains(t, strict.Diagnostics[0].Message, `"nope"`)
}

func TestSync_StrictReferencesAcceptsKnownTags(t *testing.T) {
	res, err := content.Sync(context.Background(), siteFS(), siteRegistry(t), content.SyncOptions{StrictReferences: true})
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
}

func TestSync_Deterministic(t *testing.T) {
	reg := siteRegistry(t)
	a, err := content.Sync(context.Background(), siteFS(), reg, content.SyncOptions{Render: true})
	require.NoError(t, err)
	b, err := content.Sync(context.Background(), siteFS(), reg, content.SyncOptions{Render: true})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSync_RendersGlobEntries(t *testing.T) {
	res, err := content.Sync(context.Background(), siteFS(), siteRegistry(t), content.SyncOptions{Render: true})
	require.NoError(t, err)

	post, ok := res.Entry(content.Blog, "hello-world")
	require.True(t, ok)
	require.NotNil(t, post.Rendered)
	assert.Contains(t, post.Rendered.HTML, "<h1")
	require.Len(t, post.Rendered.Headings, 1)
	assert.Equal(t, "Hello", post.Rendered.Headings[0].Text)

	tag, _ := res.Entry(content.Tags, "go")
	assert.Nil(t, tag.Rendered, "file entries have no body to render")
}

func TestSync_DigestCoversRenderingAndPath(t *testing.T) {
	ctx := context.Background()
	reg := siteRegistry(t)

	plain, err := content.Sync(ctx, siteFS(), reg, content.SyncOptions{})
	require.NoError(t, err)
	rendered, err := content.Sync(ctx, siteFS(), reg, content.SyncOptions{Render: true})
	require.NoError(t, err)

	before, _ := plain.Entry(content.Blog, "hello-world")
	after, _ := rendered.Entry(content.Blog, "hello-world")
	assert.NotEqual(t, before.Digest, after.Digest, "turning rendering on must change the digest")

	tagBefore, _ := plain.Entry(content.Tags, "go")
	tagAfter, _ := rendered.Entry(content.Tags, "go")
	assert.Equal(t, tagBefore.Digest, tagAfter.Digest, "file entries are not rendered")

	moved := siteFS()
	f := moved["src/data/blog/hello-world.md"]
	delete(moved, "src/data/blog/hello-world.md")
	f.Data = append([]byte("---\nslug: hello-world\n"), f.Data[len("---\n"):]...)
	moved["src/data/blog/2024/renamed.md"] = f

	res, err := content.Sync(ctx, moved, reg, content.SyncOptions{})
	require.NoError(t, err)
	relocated, ok := res.Entry(content.Blog, "hello-world")
	require.True(t, ok)
	assert.Equal(t, "src/data/blog/2024/renamed.md", relocated.FilePath)
	assert.NotEqual(t, before.Digest, relocated.Digest, "a new source path must change the digest")
}

func TestSync_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := content.Sync(ctx, siteFS(), siteRegistry(t), content.SyncOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSync_DiagnosticsSortedErrorsFirst(t *testing.T) {
	fsys := siteFS()
	fsys["src/data/tags.json"] = &fstest.MapFile{Data: []byte(`[
		{"id":"go","name":"Go","svgSrc":"/a.svg","type":"Tool"},
		{"id":"go","name":"Go","svgSrc":"/b.svg","type":"Tool"}
	]`)}
	fsys["src/data/projects.json"] = &fstest.MapFile{Data: []byte(`[{"id":"p","description":"D"}]`)}

	res, err := content.Sync(context.Background(), fsys, siteRegistry(t), content.SyncOptions{})
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, content.SeverityError, res.Diagnostics[0].Severity)
	assert.Equal(t, content.SeverityWarning, res.Diagnostics[1].Severity)
}

func TestSync_StrictReferencesSkipFailedTarget(t *testing.T) {
	fsys := siteFS()
	delete(fsys, "src/data/tags.json")

	res, err := content.Sync(context.Background(), fsys, siteRegistry(t), content.SyncOptions{StrictReferences: true})
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1, "only the missing tags file is reported")
	assert.Equal(t, content.CNT001, res.Diagnostics[0].Code)
}
