package cmd

import (
	"context"
	"io/fs"
	"os"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/eykd/sitecontent/internal/config"
	"github.com/eykd/sitecontent/internal/content"
	"github.com/eykd/sitecontent/internal/logging"
	"github.com/eykd/sitecontent/internal/store"
)

// SiteIO handles I/O shared by the site commands.
type SiteIO interface {
	// LoadConfig reads the config file at path. A missing file is an error
	// only when required is true.
	LoadConfig(path string, required bool) (*config.Config, error)
	// SiteFS returns the filesystem rooted at the site directory.
	SiteFS(root string) fs.FS
	// OpenStore opens the entry store at path.
	OpenStore(path string, logger *log.Logger) (EntryStore, error)
}

// EntryStore persists validated entries between runs.
type EntryStore interface {
	Replace(ctx context.Context, collection string, entries []content.Entry, syncID string) (store.Counts, error)
	List(ctx context.Context, collection string) ([]content.Entry, error)
	Get(ctx context.Context, collection, id string) (content.Entry, error)
	RecordSync(ctx context.Context, rec store.SyncRecord) error
	LastSync(ctx context.Context) (store.SyncRecord, error)
	Close() error
}

// site is the resolved state a command works against.
type site struct {
	cfg    *config.Config
	reg    *content.Registry
	fsys   fs.FS
	logger *log.Logger
}

// addSiteFlags registers the flags every site command accepts.
func addSiteFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", config.DefaultPath, "path to the TOML config file")
	cmd.Flags().String("root", "", "site directory (overrides config)")
	cmd.Flags().String("log-level", "", "log level: trace, debug, info, warn, error")
}

// loadSite resolves config, flag overrides, registry and logger for cmd.
// The config file is required only when --config was given explicitly.
func loadSite(cmd *cobra.Command, io SiteIO) (*site, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := io.LoadConfig(path, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}

	if root, _ := cmd.Flags().GetString("root"); root != "" {
		cfg.Root = root
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if f := cmd.Flags().Lookup("strict-refs"); f != nil && f.Changed {
		cfg.References.Strict, _ = cmd.Flags().GetBool("strict-refs")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reg, err := content.SiteRegistry(cfg.SitePaths())
	if err != nil {
		return nil, err
	}
	return &site{
		cfg:    cfg,
		reg:    reg,
		fsys:   io.SiteFS(cfg.Root),
		logger: logging.New(cmd.ErrOrStderr(), cfg.Logging.Level),
	}, nil
}

// sync validates every collection of the site.
func (s *site) sync(ctx context.Context) (*content.Result, error) {
	return content.Sync(ctx, s.fsys, s.reg, content.SyncOptions{
		Render:           s.cfg.Render.Markdown,
		StrictReferences: s.cfg.References.Strict,
		Logger:           s.logger,
	})
}

// openStore opens the configured entry store.
func (s *site) openStore(io SiteIO) (EntryStore, error) {
	return io.OpenStore(s.cfg.StorePath(), s.logger)
}

// fileSiteIO implements SiteIO using the OS filesystem and the badgerhold store.
// *Impl methods wrap OS calls and are excluded from coverage requirements.
type fileSiteIO struct{}

func newDefaultSiteIO() SiteIO {
	return fileSiteIO{}
}

// LoadConfig reads the config file at path.
func (f fileSiteIO) LoadConfig(path string, required bool) (*config.Config, error) {
	return config.Load(path, required)
}

// SiteFS returns an os.DirFS rooted at root.
func (f fileSiteIO) SiteFS(root string) fs.FS {
	return os.DirFS(root)
}

// OpenStore opens the store at path.
func (f fileSiteIO) OpenStore(path string, logger *log.Logger) (EntryStore, error) {
	return f.OpenStoreImpl(path, logger)
}

// OpenStoreImpl opens the badgerhold store at path.
func (f fileSiteIO) OpenStoreImpl(path string, logger *log.Logger) (EntryStore, error) {
	s, err := store.Open(path, logger)
	if err != nil {
		return nil, err
	}
	return s, nil
}
