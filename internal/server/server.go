package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alnah/go-mdlatex"
	"github.com/alnah/go-mdlatex/internal/assets"
)

const (
	// PageTitle is the toolbar and window title of the editor page.
	PageTitle = "Markdown + LaTeX Editor"

	// maxDocumentSize bounds request bodies and websocket messages.
	maxDocumentSize = 10 << 20

	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Editor is the document controller the server drives.
type Editor interface {
	Snapshot() mdlatex.Snapshot
	SetDocument(ctx context.Context, text string) (mdlatex.Snapshot, error)
	Render(ctx context.Context, markdown string) (string, error)
	Subscribe(fn func(mdlatex.Snapshot)) (cancel func())
	ExportPDF(ctx context.Context) (*mdlatex.Export, error)
	PrintPage() (string, error)
	HighlightCSS() string
}

// Compile-time interface check.
var _ Editor = (*mdlatex.Editor)(nil)

// Options configures a Server. Zero widths select the defaults.
type Options struct {
	EditorWidth  float64
	PreviewWidth float64
	MinWidth     float64
	Assets       assets.AssetLoader
	Logger       *slog.Logger
}

// Server serves the editor page and its live sessions.
type Server struct {
	editor   Editor
	opts     Options
	logger   *slog.Logger
	page     *template.Template
	styles   string
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[*session]struct{}
}

// New creates a Server for editor.
func New(editor Editor, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Assets == nil {
		opts.Assets = assets.NewEmbeddedLoader()
	}
	if opts.MinWidth <= 0 {
		opts.MinWidth = mdlatex.MinPaneWidth
	}
	if opts.EditorWidth == 0 {
		opts.EditorWidth = 600
	}
	if opts.PreviewWidth == 0 {
		opts.PreviewWidth = 600
	}
	if opts.EditorWidth < opts.MinWidth || opts.PreviewWidth < opts.MinWidth {
		return nil, fmt.Errorf("%w: initial widths below minimum %.0f", mdlatex.ErrInvalidPaneWidth, opts.MinWidth)
	}

	source, err := opts.Assets.LoadTemplate(assets.TemplateEditor)
	if err != nil {
		return nil, fmt.Errorf("loading editor template: %w", err)
	}
	page, err := template.New(assets.TemplateEditor).Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageTemplate, err)
	}

	var styles strings.Builder
	for _, name := range []string{assets.StyleEditor, assets.StylePreview} {
		css, err := opts.Assets.LoadStyle(name)
		if err != nil {
			return nil, fmt.Errorf("loading %s style: %w", name, err)
		}
		styles.WriteString(css)
		styles.WriteString("\n")
	}
	styles.WriteString(editor.HighlightCSS())

	return &Server{
		editor: editor,
		opts:   opts,
		logger: opts.Logger,
		page:   page,
		styles: styles.String(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		sessions: make(map[*session]struct{}),
	}, nil
}

// Handler returns the HTTP handler with all routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /{$}", s.handle(s.handleIndex))
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(assets.Static())))
	mux.HandleFunc("GET /ws", s.handleSession)
	mux.Handle("GET /api/document", s.handle(s.handleGetDocument))
	mux.Handle("PUT /api/document", s.handle(s.handlePutDocument))
	mux.Handle("POST /api/render", s.handle(s.handleRender))
	mux.Handle("GET /export/pdf", s.handle(s.handleExportPDF))
	mux.Handle("GET /print", s.handle(s.handlePrint))
	return mux
}

func (s *Server) handle(fn func(http.ResponseWriter, *http.Request) error) http.Handler {
	return errorHandler{logger: s.logger, handler: fn}
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully and closes live sessions.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.closeSessions()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on addr and calls Serve. ready, if not nil,
// receives the bound address once listening.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if ready != nil {
		ready(ln.Addr())
	}
	return s.Serve(ctx, ln)
}

// Sessions returns the number of live sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) track(sess *session) {
	s.mu.Lock()
	s.sessions[sess] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(sess *session) {
	s.mu.Lock()
	delete(s.sessions, sess)
	s.mu.Unlock()
}

func (s *Server) closeSessions() {
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}
}

// pageData is the editor template input.
type pageData struct {
	Title        string
	Styles       template.CSS
	Document     string
	Source       template.HTML
	Preview      template.HTML
	EditorWidth  float64
	PreviewWidth float64
	MinWidth     float64
	ScriptPath   string
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) error {
	snap := s.editor.Snapshot()
	data := pageData{
		Title:        PageTitle,
		Styles:       template.CSS(s.styles),     // #nosec G203 -- trusted assets
		Document:     snap.Text,
		Source:       template.HTML(snap.Source),  // #nosec G203 -- chroma output, escaped
		Preview:      template.HTML(snap.Preview), // #nosec G203 -- goldmark output, raw HTML disabled
		EditorWidth:  s.opts.EditorWidth,
		PreviewWidth: s.opts.PreviewWidth,
		MinWidth:     s.opts.MinWidth,
		ScriptPath:   "/static/app.js",
	}

	var buf strings.Builder
	if err := s.page.Execute(&buf, data); err != nil {
		return fmt.Errorf("%w: %v", ErrPageTemplate, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := io.WriteString(w, buf.String())
	return err
}

func (s *Server) handleGetDocument(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, err := io.WriteString(w, s.editor.Snapshot().Text)
	return err
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if _, err := s.editor.SetDocument(r.Context(), body); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	html, err := s.editor.Render(r.Context(), body)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = io.WriteString(w, html)
	return err
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) error {
	export, err := s.editor.ExportPDF(r.Context())
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": export.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(export.PDF)))
	_, err = w.Write(export.PDF)
	return err
}

func (s *Server) handlePrint(w http.ResponseWriter, _ *http.Request) error {
	page, err := s.editor.PrintPage()
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = io.WriteString(w, page)
	return err
}

// readBody reads a request body of at most maxDocumentSize bytes.
func readBody(w http.ResponseWriter, r *http.Request) (string, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", &httpError{code: http.StatusRequestEntityTooLarge, err: ErrBodyTooLarge}
		}
		return "", badRequest(err)
	}
	return string(data), nil
}
