package content

import (
	"sort"
	"time"

	"github.com/eykd/sitecontent/internal/schema"
)

// BlogPost is the typed form of a validated blog entry.
type BlogPost struct {
	ID          string
	Title       string
	Description string
	PubDate     time.Time
	// UpdatedDate is nil when the post declares none.
	UpdatedDate *time.Time
	SortOrder   float64
	Tags        []string
	Body        string
	Entry       Entry
}

// Tag is the typed form of a validated tag entry.
type Tag struct {
	ID        string
	Name      string
	SvgSrc    string
	SortOrder float64
	Type      string
}

// Project is the typed form of a validated project entry. Optional URLs are
// empty when absent.
type Project struct {
	ID            string
	Title         string
	Description   string
	ImageSrc      string
	DeploymentURL string
	SourceURL     string
	SortOrder     float64
	Tags          []schema.Reference
}

// BlogPosts returns the blog entries of res ordered by sortOrder, then id.
func BlogPosts(res *Result) []BlogPost {
	var posts []BlogPost
	for _, e := range res.Collection(Blog) {
		p := BlogPost{
			ID:          e.ID,
			Title:       str(e.Data, "title"),
			Description: str(e.Data, "description"),
			SortOrder:   num(e.Data, "sortOrder"),
			Body:        e.Body,
			Entry:       e,
		}
		p.PubDate, _ = e.Data["pubDate"].(time.Time)
		if t, ok := e.Data["updatedDate"].(time.Time); ok {
			p.UpdatedDate = &t
		}
		p.Tags, _ = e.Data["tags"].([]string)
		posts = append(posts, p)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return less(posts[i].SortOrder, posts[j].SortOrder, posts[i].ID, posts[j].ID)
	})
	return posts
}

// TagList returns the tag entries of res ordered by sortOrder, then id.
func TagList(res *Result) []Tag {
	var tags []Tag
	for _, e := range res.Collection(Tags) {
		tags = append(tags, Tag{
			ID:        e.ID,
			Name:      str(e.Data, "name"),
			SvgSrc:    str(e.Data, "svgSrc"),
			SortOrder: num(e.Data, "sortOrder"),
			Type:      str(e.Data, "type"),
		})
	}
	sort.SliceStable(tags, func(i, j int) bool {
		return less(tags[i].SortOrder, tags[j].SortOrder, tags[i].ID, tags[j].ID)
	})
	return tags
}

// ProjectList returns the project entries of res ordered by sortOrder, then id.
func ProjectList(res *Result) []Project {
	var projects []Project
	for _, e := range res.Collection(Projects) {
		p := Project{
			ID:            e.ID,
			Title:         str(e.Data, "title"),
			Description:   str(e.Data, "description"),
			ImageSrc:      str(e.Data, "imageSrc"),
			DeploymentURL: str(e.Data, "deploymentUrl"),
			SourceURL:     str(e.Data, "sourceUrl"),
			SortOrder:     num(e.Data, "sortOrder"),
		}
		p.Tags, _ = e.Data["tags"].([]schema.Reference)
		projects = append(projects, p)
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return less(projects[i].SortOrder, projects[j].SortOrder, projects[i].ID, projects[j].ID)
	})
	return projects
}

func str(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

func num(data map[string]any, key string) float64 {
	n, _ := data[key].(float64)
	return n
}

func less(a, b float64, idA, idB string) bool {
	if a != b {
		return a < b
	}
	return idA < idB
}
