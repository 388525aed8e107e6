package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	mdlatex "github.com/alnah/go-mdlatex"
	"github.com/alnah/go-mdlatex/internal/config"
	"github.com/alnah/go-mdlatex/internal/fileutil"
	"github.com/alnah/go-mdlatex/internal/hints"
)

// Sentinel errors for export operations.
var (
	ErrReadMarkdown       = errors.New("failed to read markdown file")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// printFilename is the default print page name when no input file is given.
const printFilename = "document.html"

// runExport writes the PDF of a Markdown file, or of the stored document.
func runExport(ctx context.Context, args []string, env *Environment) error {
	flags, input, err := prepareExport("export", args, env, true)
	if err != nil || flags == nil {
		return err
	}

	cfg, editor, err := openExportEditor(ctx, flags, input, env)
	if err != nil {
		return err
	}
	defer editor.Close()

	result, err := editor.ExportPDF(ctx)
	if err != nil {
		return err
	}

	output := resolveOutputPath(flags.output, input, cfg.Export.Filename)
	return writeOutput(env, flags.common, output, result.PDF)
}

// runPrint writes the print page of a Markdown file, or of the stored
// document. Opening it in a browser shows the print dialog.
func runPrint(ctx context.Context, args []string, env *Environment) error {
	flags, input, err := prepareExport("print", args, env, false)
	if err != nil || flags == nil {
		return err
	}

	_, editor, err := openExportEditor(ctx, flags, input, env)
	if err != nil {
		return err
	}
	defer editor.Close()

	page, err := editor.PrintPage()
	if err != nil {
		return err
	}

	output := resolveOutputPath(flags.output, input, printFilename)
	return writeOutput(env, flags.common, output, []byte(page))
}

// prepareExport parses flags and validates the optional input file.
// A nil flags value with a nil error means help was printed.
func prepareExport(name string, args []string, env *Environment, withBrowser bool) (*exportFlags, string, error) {
	flags, positional, err := parseExportFlags(name, args, withBrowser)
	if errors.Is(err, flag.ErrHelp) {
		if withBrowser {
			printExportUsage(env.Stdout)
		} else {
			printPrintUsage(env.Stdout)
		}
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	if len(positional) > 1 {
		return nil, "", fmt.Errorf("%w: expected at most one input file, got %d", ErrUsage, len(positional))
	}
	if err := validateWorkers(flags.browser.workers); err != nil {
		return nil, "", err
	}

	var input string
	if len(positional) == 1 {
		input = positional[0]
		if err := validateMarkdownExtension(input); err != nil {
			return nil, "", err
		}
	}
	return flags, input, nil
}

// openExportEditor loads configuration and opens an editor over the input
// file, kept in memory so exporting never touches the stored document, or
// over the store when no input is given.
func openExportEditor(ctx context.Context, flags *exportFlags, input string, env *Environment) (*config.Config, *mdlatex.Editor, error) {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	cfg, err := loadConfig(flags.common, envCfg)
	if err != nil {
		return nil, nil, err
	}
	mergeExportFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := env.logger(flags.common)
	configureRuntime(logger)

	loader, err := openAssets(cfg)
	if err != nil {
		return nil, nil, err
	}

	var store mdlatex.Store
	if input != "" {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided input path
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrReadMarkdown, err)
		}
		mem := mdlatex.NewMemoryStore()
		if err := mem.Set(mdlatex.DocumentKey, string(content)); err != nil {
			return nil, nil, err
		}
		store = mem
	} else {
		store, err = openStore(cfg, false)
		if err != nil {
			return nil, nil, err
		}
	}

	editor, err := newEditor(ctx, cfg, store, loader, logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, editor, nil
}

// resolveOutputPath picks the output file: the flag, else the input name
// with the fallback's extension, else the fallback itself.
func resolveOutputPath(flagOutput, input, fallback string) string {
	if flagOutput != "" {
		return flagOutput
	}
	if input == "" {
		return fallback
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + filepath.Ext(fallback)
}

// writeOutput writes content atomically and reports the path.
func writeOutput(env *Environment, f commonFlags, path string, content []byte) error {
	if err := fileutil.WriteFileAtomic(path, content); err != nil {
		return fmt.Errorf("%w: %s: %v%s", ErrWriteOutput, path, err, hints.ForOutputDirectory())
	}
	if !f.quiet {
		fmt.Fprintf(env.Stdout, "wrote %s\n", path)
	}
	return nil
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	ext := filepath.Ext(path)
	if ext != ".md" && ext != ".markdown" {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}
