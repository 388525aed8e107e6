package mdlatex

import (
	"log/slog"
	"time"

	"github.com/alnah/go-mdlatex/internal/assets"
)

// Default timeout for PDF export.
const defaultTimeout = 30 * time.Second

// editorConfig holds Editor settings gathered from options.
type editorConfig struct {
	timeout        time.Duration
	workers        int
	filename       string
	highlightStyle string
	page           *PageSettings
}

// Option configures an Editor.
type Option func(*Editor)

// WithStore sets where the document is persisted. Default: MemoryStore.
func WithStore(s Store) Option {
	return func(e *Editor) {
		e.store = s
	}
}

// WithLogger sets the structured logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = l
	}
}

// WithRenderer replaces the Markdown renderer.
func WithRenderer(r Renderer) Option {
	return func(e *Editor) {
		e.renderer = r
	}
}

// WithPDFRenderer replaces the PDF backend (the default is a BrowserPool).
func WithPDFRenderer(r PDFRenderer) Option {
	return func(e *Editor) {
		e.pdf = r
	}
}

// WithAssetLoader sets the stylesheet and template source.
func WithAssetLoader(l assets.AssetLoader) Option {
	return func(e *Editor) {
		e.assets = l
	}
}

// WithTimeout sets the PDF export timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Editor) {
		if d > 0 {
			e.cfg.timeout = d
		}
	}
}

// WithWorkers sets the number of pooled browsers. Zero sizes the pool
// from the available CPUs.
func WithWorkers(n int) Option {
	return func(e *Editor) {
		e.cfg.workers = n
	}
}

// WithFilename sets the suggested download name of exported PDFs.
func WithFilename(name string) Option {
	return func(e *Editor) {
		if name != "" {
			e.cfg.filename = name
		}
	}
}

// WithHighlightStyle sets the chroma style for code and editor highlighting.
func WithHighlightStyle(name string) Option {
	return func(e *Editor) {
		if name != "" {
			e.cfg.highlightStyle = name
		}
	}
}

// WithPage sets PDF and print page settings.
func WithPage(p *PageSettings) Option {
	return func(e *Editor) {
		e.cfg.page = p
	}
}
