package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"syscall"

	flag "github.com/spf13/pflag"

	mdlatex "github.com/alnah/go-mdlatex"
	"github.com/alnah/go-mdlatex/internal/config"
	"github.com/alnah/go-mdlatex/internal/hints"
	"github.com/alnah/go-mdlatex/internal/server"
)

// ErrListen indicates the HTTP listener could not be opened.
var ErrListen = errors.New("failed to listen")

// runServe serves the editor until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		printServeUsage(env.Stdout)
		return nil
	}
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, positional)
	}
	if err := validateWorkers(flags.browser.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	cfg, err := loadConfig(flags.common, envCfg)
	if err != nil {
		return err
	}
	mergeServeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if flags.printConfig {
		return printConfig(env, cfg)
	}

	logger := env.logger(flags.common)
	configureRuntime(logger)

	loader, err := openAssets(cfg)
	if err != nil {
		return err
	}
	if loader.HasCustomLoader() {
		logger.Info("using custom assets", "path", cfg.Assets.BasePath)
	}
	store, err := openStore(cfg, flags.ephemeral)
	if err != nil {
		return err
	}

	editor, err := newEditor(ctx, cfg, store, loader, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := editor.Close(); err != nil {
			logger.Warn("closing browsers", "error", err)
		}
	}()

	srv, err := server.New(editor, server.Options{
		EditorWidth:  cfg.Layout.EditorWidth,
		PreviewWidth: cfg.Layout.PreviewWidth,
		MinWidth:     cfg.Layout.MinWidth,
		Assets:       loader,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	if cfg.Store.Watch {
		startWatch(ctx, editor, store, logger)
	}

	err = srv.ListenAndServe(ctx, cfg.Server.Addr, func(addr net.Addr) {
		logger.Info("serving editor", "addr", addr.String(), "store", storeName(store))
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "Editor running at http://%s\n", addr)
		}
	})
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("%w: %v%s", ErrListen, err, hints.ForAddressInUse(cfg.Server.Addr))
		}
		return fmt.Errorf("%w: %v", ErrListen, err)
	}
	return nil
}

// startWatch reloads the editor on external changes to the stored document.
// In-memory stores have nothing to watch.
func startWatch(ctx context.Context, editor *mdlatex.Editor, store mdlatex.Store, logger *slog.Logger) {
	if _, ok := store.(mdlatex.Watcher); !ok {
		logger.Warn("ignoring --watch for an in-memory document")
		return
	}
	go func() {
		if err := editor.Watch(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("watching document", "error", err)
		}
	}()
}

// storeName describes where the document lives, for logs.
func storeName(store mdlatex.Store) string {
	if fs, ok := store.(*mdlatex.FileStore); ok {
		return fs.Path(mdlatex.DocumentKey)
	}
	return "memory"
}

// printConfig writes the configuration after file, environment and flags
// have been applied.
func printConfig(env *Environment, cfg *config.Config) error {
	out, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("printing config: %w", err)
	}
	_, err = env.Stdout.Write(out)
	return err
}
