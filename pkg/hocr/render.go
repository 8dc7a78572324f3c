// Package hocr writes reconstructed lines as hOCR and reads line text back
// from hOCR transcripts.
package hocr

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/lehigh-university-libraries/vision-lines/pkg/segment"
)

// BuildLines renders one ocr_line span per line.
func BuildLines(lines []segment.Line) string {
	spans := make([]string, 0, len(lines))
	for i, l := range lines {
		b := l.Bounds
		spans = append(spans, fmt.Sprintf(`<span class='ocr_line' id='line_%d' title='bbox %d %d %d %d'>%s</span>`,
			i+1,
			b.Min.X, b.Min.Y,
			b.Max.X, b.Max.Y,
			html.EscapeString(l.Text)))
	}
	return strings.Join(spans, "\n")
}

// Render returns a complete hOCR document for the result.
func Render(result *segment.Result) string {
	return WrapInHOCRDocument(BuildLines(result.Lines))
}

// WrapInHOCRDocument wraps content in a complete hOCR HTML document
func WrapInHOCRDocument(content string) string {
	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="en" lang="en">
<head>
<title></title>
<meta http-equiv="Content-Type" content="text/html;charset=utf-8" />
<meta name='ocr-system' content='vision-lines' />
<meta name='ocr-capabilities' content='ocr_page ocr_line' />
</head>
<body>
<div class='ocr_page' id='page_1'>
%s
</div>
</body>
</html>`, content)
}
