package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestNewAssetResolver(t *testing.T) {
	t.Parallel()

	t.Run("embedded only", func(t *testing.T) {
		t.Parallel()

		r, err := NewAssetResolver("")
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}
		if r.HasCustomLoader() {
			t.Error("HasCustomLoader() = true, want false")
		}
	})

	t.Run("invalid custom path", func(t *testing.T) {
		t.Parallel()

		_, err := NewAssetResolver("/nonexistent/mdlatex/assets")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewAssetResolver() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestAssetResolver_Fallback(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeAsset(t, base, "styles", "print.css", "/* custom print */")

	r, err := NewAssetResolver(base)
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}
	if !r.HasCustomLoader() {
		t.Fatal("HasCustomLoader() = false, want true")
	}

	t.Run("custom wins", func(t *testing.T) {
		t.Parallel()

		got, err := r.LoadStyle(StylePrint)
		if err != nil {
			t.Fatalf("LoadStyle() error = %v", err)
		}
		if got != "/* custom print */" {
			t.Errorf("LoadStyle() = %q, want custom content", got)
		}
	})

	t.Run("falls back to embedded style", func(t *testing.T) {
		t.Parallel()

		got, err := r.LoadStyle(StylePreview)
		if err != nil {
			t.Fatalf("LoadStyle() error = %v", err)
		}
		if !strings.Contains(got, ".preview") {
			t.Error("LoadStyle() should return the embedded preview style")
		}
	})

	t.Run("falls back to embedded template", func(t *testing.T) {
		t.Parallel()

		got, err := r.LoadTemplate(TemplatePrint)
		if err != nil {
			t.Fatalf("LoadTemplate() error = %v", err)
		}
		if !strings.Contains(got, "window.print()") {
			t.Error("LoadTemplate() should return the embedded print template")
		}
	})

	t.Run("validation errors do not fall back", func(t *testing.T) {
		t.Parallel()

		_, err := r.LoadStyle("../print")
		if !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("LoadStyle() error = %v, want ErrInvalidAssetName", err)
		}
	})
}
