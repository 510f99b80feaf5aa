package feed

import (
	"regexp"
	"strings"
	"time"

	"MarketRadar/internal/domain"
	"MarketRadar/internal/scanner"
)

var (
	itemExpr      = regexp.MustCompile(`(?is)<item\b[^>]*>(.*?)</item>`)
	entryExpr     = regexp.MustCompile(`(?is)<entry\b[^>]*>(.*?)</entry>`)
	titleExpr     = regexp.MustCompile(`(?is)<title\b[^>]*>(.*?)</title>`)
	linkExpr      = regexp.MustCompile(`(?is)<link\b[^>]*>(.*?)</link>`)
	linkTagExpr   = regexp.MustCompile(`(?is)<link\b([^>]*?)/?>`)
	hrefAttrExpr  = regexp.MustCompile(`(?is)\bhref\s*=\s*["']([^"']*)["']`)
	relAttrExpr   = regexp.MustCompile(`(?is)\brel\s*=\s*["']([^"']*)["']`)
	sourceExpr    = regexp.MustCompile(`(?is)<source\b[^>]*>(.*?)</source>`)
	pubDateExpr   = regexp.MustCompile(`(?is)<pubDate\b[^>]*>(.*?)</pubDate>`)
	publishedExpr = regexp.MustCompile(`(?is)<published\b[^>]*>(.*?)</published>`)
	updatedExpr   = regexp.MustCompile(`(?is)<updated\b[^>]*>(.*?)</updated>`)
	dcDateExpr    = regexp.MustCompile(`(?is)<dc:date\b[^>]*>(.*?)</dc:date>`)
)

var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// RegexParser extracts items from RSS or Atom text with record-boundary
// patterns. It only needs the four fields to be present, not a valid document.
type RegexParser struct{}

var _ scanner.Parser = RegexParser{}

// NewRegexParser returns the pattern-matching parser.
func NewRegexParser() RegexParser {
	return RegexParser{}
}

// Name identifies the parser inside the registry.
func (RegexParser) Name() string {
	return "regex"
}

// Parse never fails; text without item blocks yields no items.
func (RegexParser) Parse(raw []byte, source domain.FeedSource) ([]domain.RawItem, error) {
	text := string(raw)

	blocks := itemExpr.FindAllStringSubmatch(text, -1)
	if len(blocks) == 0 {
		blocks = entryExpr.FindAllStringSubmatch(text, -1)
	}

	items := make([]domain.RawItem, 0, len(blocks))
	for _, block := range blocks {
		body := block[1]

		item := domain.RawItem{
			Title:       cleanText(firstGroup(titleExpr, body)),
			Link:        cleanText(extractLink(body)),
			SourceLabel: source.Label,
			Publisher:   cleanText(firstGroup(sourceExpr, body)),
		}
		if item.Publisher == "" {
			item.Publisher = source.Label
		}
		if published, ok := parseDate(extractDate(body)); ok {
			item.PublishedAt = &published
		}
		items = append(items, item)
	}

	return items, nil
}

func extractLink(body string) string {
	if link := firstGroup(linkExpr, body); strings.TrimSpace(link) != "" {
		return link
	}
	return atomLink(body)
}

// atomLink picks the alternate link of an Atom entry. A link without rel is
// alternate by definition; self, edit and enclosure links are only a fallback.
func atomLink(body string) string {
	var fallback string
	for _, tag := range linkTagExpr.FindAllStringSubmatch(body, -1) {
		href := firstGroup(hrefAttrExpr, tag[1])
		if href == "" {
			continue
		}
		rel := strings.ToLower(strings.TrimSpace(firstGroup(relAttrExpr, tag[1])))
		if rel == "" || rel == "alternate" {
			return href
		}
		if fallback == "" {
			fallback = href
		}
	}
	return fallback
}

func extractDate(body string) string {
	for _, expr := range []*regexp.Regexp{pubDateExpr, publishedExpr, dcDateExpr, updatedExpr} {
		if v := firstGroup(expr, body); v != "" {
			return v
		}
	}
	return ""
}

func firstGroup(expr *regexp.Regexp, s string) string {
	m := expr.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// parseDate accepts the layouts seen in syndication feeds. An unparseable
// date is reported as absent.
func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(cdataReplacer.Replace(value))
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
