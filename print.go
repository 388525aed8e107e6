package mdlatex

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/alnah/go-mdlatex/internal/assets"
	"github.com/alnah/go-mdlatex/internal/pipeline"
)

// printData is the print template input.
type printData struct {
	Title     string
	Styles    template.CSS
	Body      template.HTML
	AutoPrint bool
}

// printBuilder wraps preview fragments in a standalone, printable document.
type printBuilder struct {
	tmpl   *template.Template
	styles string
}

// newPrintBuilder loads the print template and stylesheet. The @page rule
// follows page so printing matches the PDF layout.
func newPrintBuilder(loader assets.AssetLoader, page *PageSettings, highlightCSS string) (*printBuilder, error) {
	source, err := loader.LoadTemplate(assets.TemplatePrint)
	if err != nil {
		return nil, fmt.Errorf("loading print template: %w", err)
	}
	tmpl, err := template.New(assets.TemplatePrint).Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPrintTemplate, err)
	}

	css, err := loader.LoadStyle(assets.StylePrint)
	if err != nil {
		return nil, fmt.Errorf("loading print style: %w", err)
	}

	var styles strings.Builder
	styles.WriteString(page.CSSPageRule())
	styles.WriteString(css)
	if highlightCSS != "" {
		styles.WriteString("\n")
		styles.WriteString(highlightCSS)
	}

	return &printBuilder{tmpl: tmpl, styles: styles.String()}, nil
}

// Build returns the complete document for fragment. With autoPrint, the
// browser opens its print dialog once the page has loaded.
func (b *printBuilder) Build(fragment string, autoPrint bool) (string, error) {
	data := printData{
		Title:     pipeline.DocumentTitle(fragment),
		Styles:    template.CSS(b.styles),  // #nosec G203 -- stylesheet from trusted assets
		Body:      template.HTML(fragment), // #nosec G203 -- goldmark output, raw HTML disabled
		AutoPrint: autoPrint,
	}

	var buf strings.Builder
	if err := b.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPrintTemplate, err)
	}
	return buf.String(), nil
}
