package mdlatex

import "errors"

// Sentinel errors for library operations.
var (
	ErrRender         = errors.New("rendering failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPrintTemplate  = errors.New("print template rendering failed")
	ErrEditorClosed   = errors.New("editor is closed")
	ErrPoolClosed     = errors.New("browser pool is closed")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Layout errors.
	ErrInvalidPaneWidth = errors.New("invalid pane width")

	// Store errors.
	ErrInvalidStoreKey = errors.New("invalid store key")
	ErrStoreDir        = errors.New("invalid store directory")
	ErrStoreRead       = errors.New("failed to read store")
	ErrStoreWrite      = errors.New("failed to write store")
	ErrWatch           = errors.New("failed to watch store")
)
