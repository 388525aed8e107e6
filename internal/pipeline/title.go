package pipeline

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultTitle is used when a fragment has no level-one heading.
const DefaultTitle = "Print Document"

var firstHeading = cascadia.MustCompile("h1")

// DocumentTitle returns the text of the first <h1> in an HTML fragment, or
// DefaultTitle when there is none.
func DocumentTitle(fragment string) string {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return DefaultTitle
	}

	for _, n := range nodes {
		if h := firstHeading.MatchFirst(n); h != nil {
			if title := strings.Join(strings.Fields(textContent(h)), " "); title != "" {
				return title
			}
		}
	}
	return DefaultTitle
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
