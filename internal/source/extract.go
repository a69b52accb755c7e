package source

import (
	"strings"

	"golang.org/x/net/html"
)

// Document is the readable content pulled from a fetched page.
type Document struct {
	Title string
	Body  string
}

// ParseDocument extracts the title and visible body text from raw HTML.
func ParseDocument(htmlContent string) (Document, error) {
	root, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return Document{}, err
	}
	return Document{
		Title: extractTitle(root),
		Body:  extractVisibleText(root),
	}, nil
}

func extractTitle(root *html.Node) string {
	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return title
}

// extractVisibleText collects text nodes, skipping scripts, styles and the
// document head.
func extractVisibleText(root *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(root)
	return strings.TrimSpace(buf.String())
}
