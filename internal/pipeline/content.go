package pipeline

import (
	"strings"

	"golang.org/x/net/html"
)

// ExtractVisibleText flattens an HTML document to the text a reader would
// see, skipping scripts, styles, and navigation chrome. Non-HTML input comes
// back whitespace-normalized.
func ExtractVisibleText(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return normalizeWhitespace(content)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "nav", "header", "footer", "aside":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				b.WriteString(text)
				b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return normalizeWhitespace(b.String())
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
