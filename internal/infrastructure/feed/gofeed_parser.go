package feed

import (
	"bytes"
	"fmt"

	"github.com/mmcdole/gofeed"

	"MarketRadar/internal/domain"
	"MarketRadar/internal/scanner"
)

// GofeedParser is the structured alternative to RegexParser. It requires a
// well-formed RSS, Atom or JSON feed.
type GofeedParser struct {
	parser *gofeed.Parser
}

var _ scanner.Parser = (*GofeedParser)(nil)

// NewGofeedParser wires a gofeed parser.
func NewGofeedParser() *GofeedParser {
	return &GofeedParser{parser: gofeed.NewParser()}
}

// Name identifies the parser inside the registry.
func (p *GofeedParser) Name() string {
	return "gofeed"
}

// Parse decodes the document and maps every entry to a raw item.
func (p *GofeedParser) Parse(raw []byte, source domain.FeedSource) ([]domain.RawItem, error) {
	parsed, err := p.parser.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", source.Label, err)
	}

	items := make([]domain.RawItem, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		item := domain.RawItem{
			Title:       cleanText(entry.Title),
			Link:        cleanText(entry.Link),
			SourceLabel: source.Label,
			Publisher:   source.Label,
		}
		switch {
		case entry.PublishedParsed != nil:
			published := *entry.PublishedParsed
			item.PublishedAt = &published
		case entry.UpdatedParsed != nil:
			updated := *entry.UpdatedParsed
			item.PublishedAt = &updated
		}
		items = append(items, item)
	}

	return items, nil
}
