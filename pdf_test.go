package mdlatex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPDFOptions(t *testing.T) {
	t.Parallel()

	opts := buildPDFOptions(DefaultPageSettings())

	assert.Equal(t, 8.27, *opts.PaperWidth)
	assert.Equal(t, 11.69, *opts.PaperHeight)
	wantMargin := 10 / 25.4
	for name, got := range map[string]*float64{
		"top":    opts.MarginTop,
		"bottom": opts.MarginBottom,
		"left":   opts.MarginLeft,
		"right":  opts.MarginRight,
	} {
		assert.Equal(t, wantMargin, *got, "margin %s", name)
	}
	assert.True(t, opts.PrintBackground, "PrintBackground should be enabled for code and table shading")
}

func TestBuildPDFOptions_Landscape(t *testing.T) {
	t.Parallel()

	opts := buildPDFOptions(&PageSettings{Size: "letter", Orientation: "landscape", Margin: 0})
	assert.Equal(t, 11.0, *opts.PaperWidth)
	assert.Equal(t, 8.5, *opts.PaperHeight)
}

func TestRodRenderer_CloseWithoutBrowser(t *testing.T) {
	t.Parallel()

	assert.NoError(t, newRodRenderer(0).Close())
}
