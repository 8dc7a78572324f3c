package hocr

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

var lineClasses = []string{"ocr_line", "ocrx_line", "ocr_textfloat", "ocr_caption", "ocr_header"}

// ParseLineTexts returns the text of every line element in document order.
// Words inside a line are joined with single spaces.
func ParseLineTexts(doc string) ([]string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to parse hOCR: %w", err)
	}

	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && isLine(n) {
			var parts []string
			collectText(n, &parts)
			lines = append(lines, strings.Join(strings.Fields(strings.Join(parts, " ")), " "))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return lines, nil
}

// IsHOCR reports whether the text looks like an hOCR document.
func IsHOCR(text string) bool {
	return strings.Contains(text, "ocr_page") || strings.Contains(text, "ocr_line") || strings.Contains(text, "ocrx_word")
}

func isLine(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, class := range strings.Fields(a.Val) {
			if slices.Contains(lineClasses, class) {
				return true
			}
		}
	}
	return false
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		*parts = append(*parts, n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}
