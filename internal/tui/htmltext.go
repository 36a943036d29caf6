package tui

import (
	"strings"

	"golang.org/x/net/html"
)

// htmlToText flattens scraped HTML content into readable plain text so the
// markdown renderer doesn't show raw markup. Non-HTML input passes through
// unchanged.
func htmlToText(raw string) string {
	if !looksLikeHTML(raw) {
		return raw
	}

	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return raw
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "head":
				return
			case "br":
				b.WriteString("\n")
			case "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6", "tr":
				// Block elements separate paragraphs.
				if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n\n") {
					b.WriteString("\n\n")
				}
			}
		case html.TextNode:
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
					b.WriteString(" ")
				}
				b.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	out := strings.TrimSpace(b.String())
	if out == "" {
		return raw
	}
	return out
}

// looksLikeHTML is a cheap guess: an angle-bracketed tag near the start.
func looksLikeHTML(s string) bool {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "<") {
		return strings.Contains(trimmed, "</") || strings.Contains(trimmed, "<p>") ||
			strings.Contains(trimmed, "<div")
	}
	return strings.Contains(trimmed, ">")
}
