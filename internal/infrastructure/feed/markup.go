package feed

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var cdataReplacer = strings.NewReplacer("<![CDATA[", "", "]]>", "")

// cleanText removes CDATA wrapping, residual markup and HTML entities, then
// trims surrounding whitespace.
func cleanText(s string) string {
	s = strings.TrimSpace(cdataReplacer.Replace(s))
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
