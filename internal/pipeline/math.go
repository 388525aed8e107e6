package pipeline

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"git.sr.ht/~mekyt/latex2mathml"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// mathMLNamespace is the xmlns written on every generated <math> element.
const mathMLNamespace = "http://www.w3.org/1998/Math/MathML"

// mathFence opens and closes display math.
var mathFence = []byte("$$")

// Math is the goldmark extension for TeX math: $...$ renders inline,
// $$...$$ renders in display mode, either inside a paragraph or as a block
// (single line or fenced over several lines). Output is MathML.
var Math goldmark.Extender = &mathExtension{}

type mathExtension struct{}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(
			util.Prioritized(&mathBlockParser{}, 90),
		),
		parser.WithInlineParsers(
			util.Prioritized(&inlineMathParser{}, 150),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&mathRenderer{}, 100),
		),
	)
}

// KindMathBlock is the NodeKind of MathBlock.
var KindMathBlock = ast.NewNodeKind("MathBlock")

// MathBlock is a display-math block. Its lines hold the raw TeX source.
type MathBlock struct {
	ast.BaseBlock
	closed bool
}

// Kind implements ast.Node.
func (n *MathBlock) Kind() ast.NodeKind { return KindMathBlock }

// IsRaw implements ast.Node. Lines are TeX, not inline Markdown.
func (n *MathBlock) IsRaw() bool { return true }

// Dump implements ast.Node.
func (n *MathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// KindInlineMath is the NodeKind of InlineMath.
var KindInlineMath = ast.NewNodeKind("InlineMath")

// InlineMath is math inside a paragraph. Display is set for $$...$$.
type InlineMath struct {
	ast.BaseInline
	Display bool
	Value   []byte
}

// Kind implements ast.Node.
func (n *InlineMath) Kind() ast.NodeKind { return KindInlineMath }

// Dump implements ast.Node.
func (n *InlineMath) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Display": fmt.Sprint(n.Display),
		"Value":   string(n.Value),
	}, nil)
}

// mathBlockParser recognises $$ at the start of a line.
type mathBlockParser struct{}

func (b *mathBlockParser) Trigger() []byte {
	return []byte{'$'}
}

func (b *mathBlockParser) Open(_ ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pc.BlockIndent() > 3 {
		return nil, parser.NoChildren
	}
	if !bytes.HasPrefix(line[pos:], mathFence) {
		return nil, parser.NoChildren
	}

	node := &MathBlock{}
	rest := line[pos+len(mathFence):]
	restStart := segment.Start + pos + len(mathFence)

	if i := bytes.Index(rest, mathFence); i >= 0 {
		// $$...$$ followed by more text is inline display math in a paragraph.
		if !util.IsBlank(rest[i+len(mathFence):]) {
			return nil, parser.NoChildren
		}
		node.Lines().Append(text.NewSegment(restStart, restStart+i))
		node.closed = true
	} else if !util.IsBlank(rest) {
		node.Lines().Append(text.NewSegment(restStart, segment.Stop))
	}

	reader.Advance(segment.Len() - trailingNewline(line) + segment.Padding)
	return node, parser.NoChildren
}

func (b *mathBlockParser) Continue(node ast.Node, reader text.Reader, _ parser.Context) parser.State {
	n := node.(*MathBlock)
	if n.closed {
		return parser.Close
	}

	line, segment := reader.PeekLine()
	if line == nil {
		return parser.Close
	}

	if i := bytes.Index(line, mathFence); i >= 0 {
		if !util.IsBlank(line[:i]) {
			n.Lines().Append(text.NewSegment(segment.Start, segment.Start+i))
		}
		n.closed = true
		reader.Advance(segment.Len() - trailingNewline(line) + segment.Padding)
		return parser.Close
	}

	n.Lines().Append(segment)
	reader.Advance(segment.Len() - trailingNewline(line) + segment.Padding)
	return parser.Continue | parser.NoChildren
}

func (b *mathBlockParser) Close(_ ast.Node, _ text.Reader, _ parser.Context) {}

func (b *mathBlockParser) CanInterruptParagraph() bool {
	return true
}

func (b *mathBlockParser) CanAcceptIndentedLine() bool {
	return false
}

// trailingNewline returns 1 if line ends with \n, 0 otherwise.
func trailingNewline(line []byte) int {
	if len(line) > 0 && line[len(line)-1] == '\n' {
		return 1
	}
	return 0
}

// inlineMathParser recognises $...$ and $$...$$ within a line. An opening
// delimiter without a matching close on the same line is left as text.
type inlineMathParser struct{}

func (p *inlineMathParser) Trigger() []byte {
	return []byte{'$'}
}

func (p *inlineMathParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	delim := 1
	if len(line) > 1 && line[1] == '$' {
		delim = 2
	}
	if len(line) <= delim {
		return nil
	}

	body := line[delim:]
	end := bytes.Index(body, line[:delim])
	if end <= 0 || util.IsBlank(body[:end]) {
		return nil
	}

	node := &InlineMath{
		Display: delim == 2,
		Value:   append([]byte(nil), body[:end]...),
	}
	block.Advance(delim + end + delim)
	return node
}

// mathRenderer writes MathML for math nodes.
type mathRenderer struct{}

func (r *mathRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMathBlock, r.renderMathBlock)
	reg.Register(KindInlineMath, r.renderInlineMath)
}

func (r *mathRenderer) renderMathBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	var tex strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		tex.Write(line.Value(source))
	}

	_, _ = w.WriteString(`<div class="math math-display">`)
	_, _ = w.WriteString(Typeset(tex.String(), true))
	_, _ = w.WriteString("</div>\n")
	return ast.WalkSkipChildren, nil
}

func (r *mathRenderer) renderInlineMath(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	n := node.(*InlineMath)
	class := "math math-inline"
	if n.Display {
		class = "math math-display"
	}
	_, _ = w.WriteString(`<span class="` + class + `">`)
	_, _ = w.WriteString(Typeset(string(n.Value), n.Display))
	_, _ = w.WriteString("</span>")
	return ast.WalkSkipChildren, nil
}

// Typeset converts TeX to MathML. Input the converter cannot handle degrades
// to the escaped source in a <code class="math-error"> element; blank input
// yields an empty string.
func Typeset(tex string, display bool) (out string) {
	tex = strings.TrimSpace(tex)
	if tex == "" {
		return ""
	}

	defer func() {
		if rec := recover(); rec != nil {
			out = mathError(tex)
		}
	}()

	mode := "inline"
	if display {
		mode = "block"
	}
	mathml := latex2mathml.Convert(tex, mathMLNamespace, mode, 0)
	if strings.TrimSpace(mathml) == "" {
		return mathError(tex)
	}
	return mathml
}

func mathError(tex string) string {
	return `<code class="math-error">` + html.EscapeString(tex) + `</code>`
}
