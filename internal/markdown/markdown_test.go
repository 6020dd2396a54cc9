package markdown_test

import (
	"strings"
	"testing"

	"github.com/eykd/sitecontent/internal/markdown"
)

func TestRender(t *testing.T) {
	r := markdown.NewRenderer()
	got, err := r.Render("# Getting Started\n\nSome *text*.\n\n## Install `sitec`\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, want := range []string{`<h1 id="getting-started">Getting Started</h1>`, "<em>text</em>", "<table>"} {
		if !strings.Contains(got.HTML, want) {
			t.Errorf("HTML missing %q:\n%s", want, got.HTML)
		}
	}

	if len(got.Headings) != 2 {
		t.Fatalf("Headings = %+v, want 2", got.Headings)
	}
	if got.Headings[0] != (markdown.Heading{Depth: 1, Slug: "getting-started", Text: "Getting Started"}) {
		t.Errorf("Headings[0] = %+v", got.Headings[0])
	}
	if got.Headings[1].Depth != 2 || got.Headings[1].Text != "Install sitec" {
		t.Errorf("Headings[1] = %+v", got.Headings[1])
	}
}

func TestRender_Deterministic(t *testing.T) {
	r := markdown.NewRenderer()
	body := "# Same\n\n# Same\n"
	a, err := r.Render(body)
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Render(body)
	if err != nil {
		t.Fatal(err)
	}
	if a.HTML != b.HTML {
		t.Errorf("Render() not deterministic:\n%s\n%s", a.HTML, b.HTML)
	}
	if a.Headings[0].Slug == a.Headings[1].Slug {
		t.Errorf("duplicate heading slugs within one document: %q", a.Headings[0].Slug)
	}
}

func TestRender_Empty(t *testing.T) {
	got, err := markdown.NewRenderer().Render("")
	if err != nil {
		t.Fatal(err)
	}
	if got.HTML != "" || len(got.Headings) != 0 {
		t.Errorf("Render(\"\") = %+v", got)
	}
}
