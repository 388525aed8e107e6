package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	mdlatex "github.com/alnah/go-mdlatex"
	"github.com/alnah/go-mdlatex/internal/assets"
	"github.com/alnah/go-mdlatex/internal/config"
	"github.com/alnah/go-mdlatex/internal/fileutil"
	"github.com/alnah/go-mdlatex/internal/hints"
)

// loadConfig returns defaults overlaid with the config file (from --config
// or MDLATEX_CONFIG) and then the environment. Flags are merged by the caller.
func loadConfig(f commonFlags, env *envConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()

	name := f.config
	if name == "" {
		name = env.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(configSearchPaths(name)))
		}
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}

// configSearchPaths returns the user-level locations searched for a config
// name, for hints. Paths are returned as-is for file paths.
func configSearchPaths(name string) []string {
	if fileutil.IsFilePath(name) {
		return []string{name}
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, "go-mdlatex", name+".yaml")}
}

// pageSettings converts the page section of cfg.
func pageSettings(cfg *config.Config) *mdlatex.PageSettings {
	return &mdlatex.PageSettings{
		Size:        cfg.Page.Size,
		Orientation: cfg.Page.Orientation,
		Margin:      cfg.Page.Margin,
	}
}

// openAssets returns embedded assets, preferring files under the configured
// base path when set.
func openAssets(cfg *config.Config) (*assets.AssetResolver, error) {
	loader, err := assets.NewAssetResolver(cfg.Assets.BasePath)
	if err != nil {
		return nil, fmt.Errorf("opening assets: %w%s", err, hints.ForAssetPath())
	}
	return loader, nil
}

// openStore returns the document store. An ephemeral store lives in memory.
func openStore(cfg *config.Config, ephemeral bool) (mdlatex.Store, error) {
	if ephemeral {
		return mdlatex.NewMemoryStore(), nil
	}
	dir, err := cfg.StoreDir()
	if err != nil {
		return nil, fmt.Errorf("%w: %v%s", mdlatex.ErrStoreDir, err, hints.ForStoreDirectory())
	}
	store, err := mdlatex.NewFileStore(dir)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w%s", err, hints.ForStoreDirectory())
	}
	return store, nil
}

// newEditor creates an Editor configured from cfg.
func newEditor(ctx context.Context, cfg *config.Config, store mdlatex.Store, loader assets.AssetLoader, logger *slog.Logger) (*mdlatex.Editor, error) {
	return mdlatex.New(ctx,
		mdlatex.WithStore(store),
		mdlatex.WithLogger(logger),
		mdlatex.WithAssetLoader(loader),
		mdlatex.WithTimeout(cfg.ExportTimeout()),
		mdlatex.WithWorkers(cfg.Export.Workers),
		mdlatex.WithFilename(cfg.Export.Filename),
		mdlatex.WithHighlightStyle(cfg.Style.Highlight),
		mdlatex.WithPage(pageSettings(cfg)),
	)
}
