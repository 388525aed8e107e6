// Package mdlatex is a locally served Markdown and LaTeX editor.
//
// # Quick Start
//
// Open an editor over a store, edit, and export:
//
//	store, err := mdlatex.NewFileStore(dir)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ed, err := mdlatex.New(ctx, mdlatex.WithStore(store))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ed.Close()
//
//	snap, err := ed.SetDocument(ctx, "# Notes\n\n$$E = mc^2$$")
//	// snap.Preview holds the rendered HTML fragment
//
//	export, err := ed.ExportPDF(ctx)
//	os.WriteFile(export.Filename, export.PDF, 0o600)
//
// # Document
//
// The editor holds exactly one document. Every SetDocument writes the full
// text to the Store under DocumentKey and re-renders the preview; there is
// no debouncing. Store failures are logged and editing continues in memory.
// At startup the stored value, if any, replaces SampleDocument.
//
// # Rendering
//
// Markdown is rendered with GitHub Flavored Markdown, footnotes and
// highlighted code. Math between $ or $$ delimiters is typeset to MathML.
// A horizontal rule (---) becomes a page break:
//
//	<div class="page-break"></div>
//
// # Split Layout
//
// SplitLayout is the divider drag state machine. A press on the divider
// subscribes to global pointer events through PointerEvents; the release
// (anywhere) unsubscribes. A move that would shrink either pane to the
// minimum width or below is dropped, not clamped.
//
// # Export
//
// ExportPDF prints the preview with headless Chrome (go-rod) using
// PageSettings, A4 portrait with 10mm margins by default. PrintPage returns
// a standalone document that opens the browser's print dialog on load.
// Browsers are pooled; see BrowserPool and ResolvePoolSize.
package mdlatex
