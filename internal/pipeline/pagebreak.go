package pipeline

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// PageBreakClass is the class of the marker element emitted for every
// thematic break (---, ***, ___). Print and PDF stylesheets break the page
// after it. No <hr> is ever produced.
const PageBreakClass = "page-break"

// PageBreakHTML is the exact markup emitted for a thematic break.
const PageBreakHTML = `<div class="` + PageBreakClass + `"></div>`

// pageBreakRenderer overrides goldmark's thematic break rendering.
type pageBreakRenderer struct{}

func (r *pageBreakRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindThematicBreak, r.renderThematicBreak)
}

func (r *pageBreakRenderer) renderThematicBreak(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(PageBreakHTML + "\n")
	}
	return ast.WalkContinue, nil
}
