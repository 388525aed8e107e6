package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	mdlatex "github.com/alnah/go-mdlatex"
	"github.com/alnah/go-mdlatex/internal/config"
)

// marginUnset detects if --margin was explicitly set.
// Since 0 is a valid margin, we use an out-of-range sentinel.
const marginUnset = -1.0

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// styleFlags holds appearance flags.
type styleFlags struct {
	highlight string
	assetPath string
}

// browserFlags holds PDF backend flags.
type browserFlags struct {
	timeout string
	workers int
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common      commonFlags
	page        pageFlags
	style       styleFlags
	browser     browserFlags
	addr        string
	storeDir    string
	ephemeral   bool
	watch       bool
	printConfig bool
}

// exportFlags holds all flags for the export and print commands.
type exportFlags struct {
	common   commonFlags
	page     pageFlags
	style    styleFlags
	browser  browserFlags
	output   string
	storeDir string
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size (letter, a4, legal)")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation (portrait, landscape)")
	fs.Float64Var(&f.margin, "margin", marginUnset, "page margin in millimeters")
}

func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.highlight, "highlight", "", "chroma style for code highlighting")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with custom styles/ and templates/")
}

func addBrowserFlags(fs *flag.FlagSet, f *browserFlags) {
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF export timeout (e.g. 30s, 2m)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "pooled browsers (0 = auto)")
}

// newFlagSet returns a silent FlagSet; usage is printed by the help functions.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}

// parseServeFlags parses serve flags and returns the positional arguments.
// flag.ErrHelp is returned unwrapped so callers can print usage.
func parseServeFlags(args []string) (*serveFlags, []string, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve")

	fs.StringVar(&f.addr, "addr", "", "listen address (host:port)")
	fs.StringVar(&f.storeDir, "store-dir", "", "directory holding the document")
	fs.BoolVar(&f.ephemeral, "ephemeral", false, "keep the document in memory only")
	fs.BoolVar(&f.watch, "watch", false, "reload when the stored document changes on disk")
	fs.BoolVar(&f.printConfig, "print-config", false, "print the effective configuration and exit")
	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addStyleFlags(fs, &f.style)
	addBrowserFlags(fs, &f.browser)

	if err := fs.Parse(args); err != nil {
		return nil, nil, parseError(err)
	}
	return f, fs.Args(), nil
}

// parseExportFlags parses flags for export (withBrowser) or print.
func parseExportFlags(name string, args []string, withBrowser bool) (*exportFlags, []string, error) {
	f := &exportFlags{}
	fs := newFlagSet(name)

	fs.StringVarP(&f.output, "output", "o", "", "output file")
	fs.StringVar(&f.storeDir, "store-dir", "", "directory holding the document")
	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addStyleFlags(fs, &f.style)
	if withBrowser {
		addBrowserFlags(fs, &f.browser)
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, parseError(err)
	}
	return f, fs.Args(), nil
}

func parseError(err error) error {
	if err == flag.ErrHelp {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > mdlatex.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, mdlatex.MaxPoolSize)
	}
	return nil
}

// mergeServeFlags merges serve flags into config. Flags win.
func mergeServeFlags(f *serveFlags, cfg *config.Config) {
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.storeDir != "" {
		cfg.Store.Dir = f.storeDir
	}
	if f.watch {
		cfg.Store.Watch = true
	}
	mergePageFlags(&f.page, cfg)
	mergeStyleFlags(&f.style, cfg)
	mergeBrowserFlags(&f.browser, cfg)
}

// mergeExportFlags merges export and print flags into config. Flags win.
func mergeExportFlags(f *exportFlags, cfg *config.Config) {
	if f.storeDir != "" {
		cfg.Store.Dir = f.storeDir
	}
	mergePageFlags(&f.page, cfg)
	mergeStyleFlags(&f.style, cfg)
	mergeBrowserFlags(&f.browser, cfg)
}

func mergePageFlags(f *pageFlags, cfg *config.Config) {
	if f.size != "" {
		cfg.Page.Size = f.size
	}
	if f.orientation != "" {
		cfg.Page.Orientation = f.orientation
	}
	if f.margin != marginUnset {
		cfg.Page.Margin = f.margin
	}
}

func mergeStyleFlags(f *styleFlags, cfg *config.Config) {
	if f.highlight != "" {
		cfg.Style.Highlight = f.highlight
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
}

func mergeBrowserFlags(f *browserFlags, cfg *config.Config) {
	if f.timeout != "" {
		cfg.Export.Timeout = f.timeout
	}
	if f.workers > 0 {
		cfg.Export.Workers = f.workers
	}
}
