package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/eykd/sitecontent/internal/config"
	"github.com/eykd/sitecontent/internal/content"
	"github.com/eykd/sitecontent/internal/store"
)

// ─── Test doubles ───────────────────────────────────────────────────────────

// mockSiteIO is a test double for SiteIO.
type mockSiteIO struct {
	cfg      *config.Config // nil → config.Default()
	cfgErr   error
	files    fstest.MapFS
	store    *fakeStore // created on first OpenStore when nil
	storeErr error

	// recorded calls
	configPath     string
	configRequired bool
	fsRoot         string
	storePath      string
}

func (m *mockSiteIO) LoadConfig(path string, required bool) (*config.Config, error) {
	m.configPath = path
	m.configRequired = required
	if m.cfgErr != nil {
		return nil, m.cfgErr
	}
	if m.cfg == nil {
		return config.Default(), nil
	}
	c := *m.cfg
	return &c, nil
}

func (m *mockSiteIO) SiteFS(root string) fs.FS {
	m.fsRoot = root
	return m.files
}

func (m *mockSiteIO) OpenStore(path string, _ *log.Logger) (EntryStore, error) {
	m.storePath = path
	if m.storeErr != nil {
		return nil, m.storeErr
	}
	if m.store == nil {
		m.store = newFakeStore()
	}
	return m.store, nil
}

// fakeStore is an in-memory EntryStore.
type fakeStore struct {
	entries    map[string][]content.Entry
	replaced   []string // collection names passed to Replace, in call order
	syncIDs    []string
	syncs      []store.SyncRecord
	replaceErr error
	closed     bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string][]content.Entry)}
}

func (f *fakeStore) Replace(_ context.Context, collection string, entries []content.Entry, syncID string) (store.Counts, error) {
	if f.replaceErr != nil {
		return store.Counts{}, f.replaceErr
	}
	f.replaced = append(f.replaced, collection)
	f.syncIDs = append(f.syncIDs, syncID)
	removed := len(f.entries[collection])
	f.entries[collection] = entries
	return store.Counts{Added: len(entries), Removed: removed}, nil
}

func (f *fakeStore) List(_ context.Context, collection string) ([]content.Entry, error) {
	return f.entries[collection], nil
}

func (f *fakeStore) Get(_ context.Context, collection, id string) (content.Entry, error) {
	for _, e := range f.entries[collection] {
		if e.ID == id {
			return e, nil
		}
	}
	return content.Entry{}, fmt.Errorf("%w: %s/%s", store.ErrNotFound, collection, id)
}

func (f *fakeStore) RecordSync(_ context.Context, rec store.SyncRecord) error {
	f.syncs = append(f.syncs, rec)
	return nil
}

func (f *fakeStore) LastSync(_ context.Context) (store.SyncRecord, error) {
	if len(f.syncs) == 0 {
		return store.SyncRecord{}, store.ErrNotFound
	}
	return f.syncs[len(f.syncs)-1], nil
}

func (f *fakeStore) Close() error {
	f.closed = true
	return nil
}

// ─── Test fixtures ──────────────────────────────────────────────────────────

// siteFiles returns a valid site with two posts, two tags and two projects.
func siteFiles() fstest.MapFS {
	return fstest.MapFS{
		"src/data/blog/hello-world.md": {Data: []byte(
			"---\n" +
				"title: Hello World\n" +
				"description: First post\n" +
				"pubDate: 2024-01-15\n" +
				"sortOrder: 1\n" +
				"---\n" +
				"# Hello\n",
		)},
		"src/data/blog/notes/second.md": {Data: []byte(
			"---\n" +
				"title: Second\n" +
				"description: Another post\n" +
				"pubDate: 2024-02-01\n" +
				"sortOrder: 2\n" +
				"---\n" +
				"Body.\n",
		)},
		"src/data/tags.json": {Data: []byte(`[
			{"id":"go","name":"Go","svgSrc":"/go.svg","type":"Programming Language"},
			{"name":"Rust","svgSrc":"/rust.svg","type":"Programming Language"}
		]`)},
		"src/data/projects.json": {Data: []byte(`[
			{"id":"sitec","title":"sitec","description":"Content tooling","tags":["go"]},
			{"id":"portfolio","title":"Portfolio","description":"This site"}
		]`)},
	}
}

// runCmd executes c with args and returns captured stdout and stderr.
func runCmd(c *cobra.Command, args ...string) (string, string, error) {
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	c.SetOut(out)
	c.SetErr(errOut)
	if args == nil {
		args = []string{} // nil makes cobra fall back to os.Args
	}
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), errOut.String(), err
}

// ─── loadSite ───────────────────────────────────────────────────────────────

func TestLoadSite_ConfigRequiredOnlyWhenExplicit(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		wantPath     string
		wantRequired bool
	}{
		{name: "default path is optional", args: nil, wantPath: config.DefaultPath, wantRequired: false},
		{name: "explicit path is required", args: []string{"--config", "site.toml"}, wantPath: "site.toml", wantRequired: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			io := &mockSiteIO{files: siteFiles()}
			if _, _, err := runCmd(NewCheckCmd(io), tt.args...); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if io.configPath != tt.wantPath {
				t.Errorf("config path = %q, want %q", io.configPath, tt.wantPath)
			}
			if io.configRequired != tt.wantRequired {
				t.Errorf("config required = %v, want %v", io.configRequired, tt.wantRequired)
			}
		})
	}
}

func TestLoadSite_RootFlagOverridesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Root = "/from/config"
	io := &mockSiteIO{cfg: cfg, files: siteFiles()}

	if _, _, err := runCmd(NewCheckCmd(io), "--root", "/srv/site"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if io.fsRoot != "/srv/site" {
		t.Errorf("site root = %q, want /srv/site", io.fsRoot)
	}
}

func TestLoadSite_ConfigErrorPropagates(t *testing.T) {
	io := &mockSiteIO{cfgErr: errors.New("parse config sitecontent.toml: boom")}

	_, _, err := runCmd(NewCheckCmd(io))
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestLoadSite_RejectsUnknownLogLevel(t *testing.T) {
	io := &mockSiteIO{files: siteFiles()}

	_, _, err := runCmd(NewCheckCmd(io), "--log-level", "chatty")
	if err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestLoadSite_LogLevelFlagRoutesLogsToStderr(t *testing.T) {
	io := &mockSiteIO{files: siteFiles()}

	_, errOut, err := runCmd(NewCheckCmd(io), "--log-level", "debug")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(errOut, "collection synced") {
		t.Errorf("expected debug progress on stderr, got: %s", errOut)
	}
}
