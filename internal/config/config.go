// Package config loads sitec settings from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/eykd/sitecontent/internal/content"
)

// DefaultPath is the config file consulted when none is named.
const DefaultPath = "sitecontent.toml"

// Config holds all sitec settings.
type Config struct {
	// Root is the site directory every collection path is relative to.
	Root        string            `toml:"root" validate:"required"`
	Collections CollectionsConfig `toml:"collections"`
	Store       StoreConfig       `toml:"store"`
	References  ReferencesConfig  `toml:"references"`
	Render      RenderConfig      `toml:"render"`
	Logging     LoggingConfig     `toml:"logging"`
}

// CollectionsConfig locates each collection's sources.
type CollectionsConfig struct {
	Blog     GlobSource `toml:"blog"`
	Tags     FileSource `toml:"tags"`
	Projects FileSource `toml:"projects"`
}

// GlobSource configures a glob loader.
type GlobSource struct {
	Base    string `toml:"base" validate:"required"`
	Pattern string `toml:"pattern" validate:"required"`
}

// FileSource configures a file loader.
type FileSource struct {
	File string `toml:"file" validate:"required"`
}

// StoreConfig configures the persisted entry store.
type StoreConfig struct {
	// Path is relative to Root unless absolute.
	Path string `toml:"path" validate:"required"`
}

// ReferencesConfig controls reference integrity checking.
type ReferencesConfig struct {
	Strict bool `toml:"strict"`
}

// RenderConfig controls markdown rendering of glob entries.
type RenderConfig struct {
	Markdown bool `toml:"markdown"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string `toml:"level" validate:"oneof=trace debug info warn warning error"`
}

// Default returns the built-in configuration.
func Default() *Config {
	paths := content.DefaultSitePaths()
	return &Config{
		Root: ".",
		Collections: CollectionsConfig{
			Blog:     GlobSource{Base: paths.BlogBase, Pattern: paths.BlogPattern},
			Tags:     FileSource{File: paths.TagsFile},
			Projects: FileSource{File: paths.ProjectFile},
		},
		Store:   StoreConfig{Path: ".sitec/data-store"},
		Render:  RenderConfig{Markdown: true},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads the TOML file at path over the defaults, applies environment
// overrides and validates the result. A missing file is an error only when
// required is true.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies SITEC_* environment variables.
func applyEnvOverrides(cfg *Config) error {
	if root := os.Getenv("SITEC_ROOT"); root != "" {
		cfg.Root = root
	}
	if p := os.Getenv("SITEC_STORE_PATH"); p != "" {
		cfg.Store.Path = p
	}
	if level := os.Getenv("SITEC_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if strict := os.Getenv("SITEC_STRICT_REFS"); strict != "" {
		v, err := strconv.ParseBool(strict)
		if err != nil {
			return fmt.Errorf("SITEC_STRICT_REFS: %w", err)
		}
		cfg.References.Strict = v
	}
	return nil
}

// Validate checks cfg for missing or out-of-range values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SitePaths converts the collection sources to content.SitePaths.
func (c *Config) SitePaths() content.SitePaths {
	return content.SitePaths{
		BlogBase:    c.Collections.Blog.Base,
		BlogPattern: c.Collections.Blog.Pattern,
		TagsFile:    c.Collections.Tags.File,
		ProjectFile: c.Collections.Projects.File,
	}
}

// StorePath resolves the store directory against Root.
func (c *Config) StorePath() string {
	if filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	return filepath.Join(c.Root, c.Store.Path)
}
