package mdlatex

import (
	"fmt"
	"math"
	"strings"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in millimeters.
const (
	MinMargin     = 0.0
	MaxMargin     = 75.0
	DefaultMargin = 10.0
)

// DefaultFilename is the download name of an exported PDF.
const DefaultFilename = "document.pdf"

const mmPerInch = 25.4

// paperInches holds portrait dimensions (width, height) in inches.
var paperInches = map[string][2]float64{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

// cssPageSizes maps page sizes to CSS @page size keywords.
var cssPageSizes = map[string]string{
	PageSizeLetter: "letter",
	PageSizeA4:     "A4",
	PageSizeLegal:  "legal",
}

// PageSettings configures PDF and print page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // millimeters, applied to all sides
}

// DefaultPageSettings returns A4 portrait with 10mm margins.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if _, ok := paperInches[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if math.IsNaN(p.Margin) || p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.0f and %.0f mm)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// orDefault returns p, or the default settings when p is nil.
func (p *PageSettings) orDefault() *PageSettings {
	if p == nil {
		return DefaultPageSettings()
	}
	return p
}

// PaperInches returns the paper width and height in inches, swapped for
// landscape. Callers must validate p first.
func (p *PageSettings) PaperInches() (width, height float64) {
	p = p.orDefault()
	dims := paperInches[strings.ToLower(p.Size)]
	width, height = dims[0], dims[1]
	if strings.ToLower(p.Orientation) == OrientationLandscape {
		width, height = height, width
	}
	return width, height
}

// MarginInches returns the margin converted to inches.
func (p *PageSettings) MarginInches() float64 {
	return p.orDefault().Margin / mmPerInch
}

// CSSPageRule returns the @page rule matching these settings, so printing
// from the browser lays out pages like the PDF export.
func (p *PageSettings) CSSPageRule() string {
	p = p.orDefault()
	return fmt.Sprintf("@page {\n  size: %s %s;\n  margin: %gmm;\n}\n",
		cssPageSizes[strings.ToLower(p.Size)],
		strings.ToLower(p.Orientation),
		p.Margin)
}

// Export is the result of a PDF export.
type Export struct {
	Filename string // Suggested download name
	PDF      []byte // PDF bytes
	HTML     string // Standalone document that was printed
}
