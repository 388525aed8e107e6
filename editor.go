package mdlatex

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alnah/go-mdlatex/internal/assets"
	"github.com/alnah/go-mdlatex/internal/pipeline"
)

// Snapshot is the document with its derived views.
type Snapshot struct {
	Text    string // Markdown source
	Source  string // Highlighted source for the editor pane
	Preview string // Rendered HTML fragment
}

// Editor owns the document, keeps the preview in sync with it and exports
// the preview. Create with New, call Close when done.
type Editor struct {
	cfg      editorConfig
	store    Store
	logger   *slog.Logger
	renderer Renderer
	pdf      PDFRenderer
	assets   assets.AssetLoader

	doc          *Document
	printer      *printBuilder
	highlightCSS string

	// editMu orders document replacement with its re-render, so the view
	// never lags behind a later edit.
	editMu sync.Mutex

	mu      sync.RWMutex
	view    Snapshot
	nextSub int
	subs    map[int]func(Snapshot)
	closed  bool
}

// New creates an Editor. The document is read once from the store (the
// sample document is used when nothing is stored) and rendered.
func New(ctx context.Context, opts ...Option) (*Editor, error) {
	e := &Editor{
		cfg: editorConfig{
			timeout:        defaultTimeout,
			filename:       DefaultFilename,
			highlightStyle: pipeline.DefaultHighlightStyle,
		},
		subs: make(map[int]func(Snapshot)),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	if e.store == nil {
		e.store = NewMemoryStore()
	}
	if e.assets == nil {
		e.assets = assets.NewEmbeddedLoader()
	}
	if e.renderer == nil {
		e.renderer = pipeline.NewGoldmarkRenderer(e.cfg.highlightStyle)
	}
	if e.cfg.page == nil {
		e.cfg.page = DefaultPageSettings()
	}
	if err := e.cfg.page.Validate(); err != nil {
		return nil, err
	}

	css, err := pipeline.HighlightCSS(e.cfg.highlightStyle)
	if err != nil {
		return nil, err
	}
	e.highlightCSS = css

	e.printer, err = newPrintBuilder(e.assets, e.cfg.page, css)
	if err != nil {
		return nil, err
	}

	// Create PDF renderer if not injected (e.g., by tests)
	if e.pdf == nil {
		e.pdf = NewBrowserPool(ResolvePoolSize(e.cfg.workers), e.cfg.timeout)
	}

	e.doc = OpenDocument(e.store, e.logger)
	view, err := e.derive(ctx, e.doc.Get())
	if err != nil {
		_ = e.pdf.Close()
		return nil, err
	}
	e.view = view

	return e, nil
}

// Document returns the current Markdown text.
func (e *Editor) Document() string {
	return e.doc.Get()
}

// SetDocument is the sole editing entry point: it replaces the document,
// persists it and re-renders the preview. Subscribers receive the result.
func (e *Editor) SetDocument(ctx context.Context, text string) (Snapshot, error) {
	if e.isClosed() {
		return Snapshot{}, ErrEditorClosed
	}
	e.editMu.Lock()
	defer e.editMu.Unlock()

	e.doc.Set(text)
	return e.refresh(ctx, text)
}

// Reload replaces the document with a value read back from the store
// after an external change. Nothing is written back.
func (e *Editor) Reload(ctx context.Context, text string) (Snapshot, error) {
	if e.isClosed() {
		return Snapshot{}, ErrEditorClosed
	}
	e.editMu.Lock()
	defer e.editMu.Unlock()

	if text == e.doc.Get() {
		return e.Snapshot(), nil
	}
	e.logger.Info("document changed on disk, reloading", "bytes", len(text))
	e.doc.replace(text)
	return e.refresh(ctx, text)
}

func (e *Editor) refresh(ctx context.Context, text string) (Snapshot, error) {
	view, err := e.derive(ctx, text)
	if err != nil {
		return Snapshot{}, err
	}

	e.mu.Lock()
	e.view = view
	subs := make([]func(Snapshot), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	e.mu.Unlock()

	for _, fn := range subs {
		fn(view)
	}
	return view, nil
}

// derive renders text into the preview and editor-pane views.
func (e *Editor) derive(ctx context.Context, text string) (Snapshot, error) {
	preview, err := e.renderer.Render(ctx, text)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrRender, err)
	}

	source, err := pipeline.HighlightSource(text, e.cfg.highlightStyle)
	if err != nil {
		// The overlay is cosmetic; keep the preview.
		e.logger.Debug("highlighting source", "error", err)
		source = ""
	}

	return Snapshot{Text: text, Source: source, Preview: preview}, nil
}

// Render converts markdown with the editor's renderer without touching the
// document.
func (e *Editor) Render(ctx context.Context, markdown string) (string, error) {
	html, err := e.renderer.Render(ctx, markdown)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return html, nil
}

// Snapshot returns the current document and derived views.
func (e *Editor) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.view
}

// Preview returns the current rendered HTML fragment.
func (e *Editor) Preview() string {
	return e.Snapshot().Preview
}

// HighlightCSS returns the stylesheet for highlighted code and source.
func (e *Editor) HighlightCSS() string {
	return e.highlightCSS
}

// Subscribe registers fn to receive every new snapshot. The returned
// function cancels the subscription.
func (e *Editor) Subscribe(fn func(Snapshot)) (cancel func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextSub++
	id := e.nextSub
	e.subs[id] = fn
	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

// PrintPage returns a standalone HTML document of the current preview that
// opens the browser's print dialog once loaded.
func (e *Editor) PrintPage() (string, error) {
	return e.printer.Build(e.Preview(), true)
}

// ExportPDF renders the current preview to a PDF.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (e *Editor) ExportPDF(ctx context.Context) (result *Export, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrPDFGeneration, r)
		}
	}()

	if e.isClosed() {
		return nil, ErrEditorClosed
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.timeout)
		defer cancel()
	}

	doc, err := e.printer.Build(e.Preview(), false)
	if err != nil {
		return nil, err
	}

	pdf, err := e.pdf.RenderPDF(ctx, doc, e.cfg.page)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("exported PDF", "bytes", len(pdf))
	return &Export{Filename: e.cfg.filename, PDF: pdf, HTML: doc}, nil
}

// Close releases browser resources. Further edits and exports fail with
// ErrEditorClosed.
func (e *Editor) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.subs = make(map[int]func(Snapshot))
	e.mu.Unlock()

	return e.pdf.Close()
}

func (e *Editor) isClosed() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.closed
}

// Watcher is implemented by stores that can report external changes.
type Watcher interface {
	Watch(ctx context.Context, key string, fn func(value string)) error
}

// Compile-time interface check.
var _ Watcher = (*FileStore)(nil)

// Watch reloads the document whenever the store reports that another
// process changed it. Blocks until ctx is done.
func (e *Editor) Watch(ctx context.Context) error {
	w, ok := e.store.(Watcher)
	if !ok {
		return fmt.Errorf("%w: store %T cannot be watched", ErrWatch, e.store)
	}
	return w.Watch(ctx, DocumentKey, func(value string) {
		if _, err := e.Reload(ctx, value); err != nil {
			e.logger.Warn("reloading document", "error", err)
		}
	})
}
