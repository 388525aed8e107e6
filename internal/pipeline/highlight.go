package pipeline

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "github"

// HighlightCSS returns the chroma stylesheet for the named style. Unknown
// names fall back to chroma's default style.
func HighlightCSS(styleName string) (string, error) {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(styleName)); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return buf.String(), nil
}

// HighlightSource highlights Markdown source for the editor pane. The result
// is a sequence of classed <span> elements without a surrounding <pre>, to be
// placed under the transparent text area so both line up character for
// character.
func HighlightSource(source, styleName string) (string, error) {
	lexer := lexers.Get("markdown")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	// The markdown lexer only matches block rules such as headings on
	// complete lines, so the line being typed gets a newline that is
	// dropped again before formatting.
	text := NormalizeLineEndings(source)
	addedNewline := !strings.HasSuffix(text, "\n")
	if addedNewline {
		text += "\n"
	}

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return "", fmt.Errorf("tokenising source: %w", err)
	}
	tokens := iterator.Tokens()
	if addedNewline {
		tokens = trimFinalNewline(tokens)
	}

	formatter := chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.PreventSurroundingPre(true),
	)
	var buf bytes.Buffer
	if err := formatter.Format(&buf, styles.Get(styleName), chroma.Literator(tokens...)); err != nil {
		return "", fmt.Errorf("formatting source: %w", err)
	}
	return buf.String(), nil
}

// trimFinalNewline removes one trailing newline from the last non-empty token.
func trimFinalNewline(tokens []chroma.Token) []chroma.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].Value == "" {
			continue
		}
		tokens[i].Value = strings.TrimSuffix(tokens[i].Value, "\n")
		if tokens[i].Value == "" {
			tokens = append(tokens[:i], tokens[i+1:]...)
		}
		break
	}
	return tokens
}
