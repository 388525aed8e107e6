package mdlatex

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageSettings_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		page    *PageSettings
		wantErr error
	}{
		{name: "nil uses defaults", page: nil},
		{name: "defaults", page: DefaultPageSettings()},
		{name: "letter landscape", page: &PageSettings{Size: "letter", Orientation: "landscape", Margin: 20}},
		{name: "case insensitive", page: &PageSettings{Size: "A4", Orientation: "Portrait", Margin: 10}},
		{name: "zero margin", page: &PageSettings{Size: "legal", Orientation: "portrait", Margin: 0}},
		{name: "maximum margin", page: &PageSettings{Size: "a4", Orientation: "portrait", Margin: MaxMargin}},
		{name: "unknown size", page: &PageSettings{Size: "a3", Orientation: "portrait", Margin: 10}, wantErr: ErrInvalidPageSize},
		{name: "unknown orientation", page: &PageSettings{Size: "a4", Orientation: "diagonal", Margin: 10}, wantErr: ErrInvalidOrientation},
		{name: "negative margin", page: &PageSettings{Size: "a4", Orientation: "portrait", Margin: -1}, wantErr: ErrInvalidMargin},
		{name: "huge margin", page: &PageSettings{Size: "a4", Orientation: "portrait", Margin: 100}, wantErr: ErrInvalidMargin},
		{name: "NaN margin", page: &PageSettings{Size: "a4", Orientation: "portrait", Margin: math.NaN()}, wantErr: ErrInvalidMargin},
		{name: "infinite margin", page: &PageSettings{Size: "a4", Orientation: "portrait", Margin: math.Inf(1)}, wantErr: ErrInvalidMargin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.page.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDefaultPageSettings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, &PageSettings{Size: PageSizeA4, Orientation: OrientationPortrait, Margin: 10}, DefaultPageSettings())
}

func TestPageSettings_PaperInches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		page       *PageSettings
		wantWidth  float64
		wantHeight float64
	}{
		{"a4 portrait", &PageSettings{Size: "a4", Orientation: "portrait"}, 8.27, 11.69},
		{"a4 landscape", &PageSettings{Size: "a4", Orientation: "landscape"}, 11.69, 8.27},
		{"letter", &PageSettings{Size: "letter", Orientation: "portrait"}, 8.5, 11},
		{"legal", &PageSettings{Size: "LEGAL", Orientation: "portrait"}, 8.5, 14},
		{"nil defaults to a4", nil, 8.27, 11.69},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, h := tt.page.PaperInches()
			assert.Equal(t, tt.wantWidth, w, "width")
			assert.Equal(t, tt.wantHeight, h, "height")
		})
	}
}

func TestPageSettings_MarginInches(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, (&PageSettings{Margin: 25.4}).MarginInches(), 1e-9)
}

func TestPageSettings_CSSPageRule(t *testing.T) {
	t.Parallel()

	got := DefaultPageSettings().CSSPageRule()
	for _, want := range []string{"@page", "size: A4 portrait;", "margin: 10mm;"} {
		assert.Contains(t, got, want)
	}
}
