package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"MarketRadar/internal/domain"
	"MarketRadar/internal/ports"
	"MarketRadar/internal/scanner"
)

const maxFeedBytes = 8 << 20

// Options tunes a Fetcher.
type Options struct {
	RecencyWindow time.Duration
	Concurrency   int
	UserAgent     string
	Now           func() time.Time
}

// Fetcher retrieves every configured feed and extracts raw items. A failing
// source is logged and contributes zero items.
type Fetcher struct {
	client *http.Client
	parser scanner.Parser
	opts   Options
	logger *slog.Logger
}

var _ ports.FeedFetcher = (*Fetcher)(nil)

// NewFetcher wires an HTTP client and a parser; a nil client gets a 20s timeout.
func NewFetcher(client *http.Client, parser scanner.Parser, opts Options, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "MarketRadar/1.0"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Fetcher{client: client, parser: parser, opts: opts, logger: logger}
}

// FetchAll fans out one request per source and merges the results in source
// order once every fetch has finished.
func (f *Fetcher) FetchAll(ctx context.Context, sources []domain.FeedSource) []domain.RawItem {
	buckets := make([][]domain.RawItem, len(sources))

	var g errgroup.Group
	g.SetLimit(f.opts.Concurrency)
	for i, src := range sources {
		g.Go(func() error {
			items, err := f.fetchSource(ctx, src)
			if err != nil {
				f.warn("fetch feed failed", "feed", src.Label, "error", err)
				return nil
			}
			f.debug("feed fetched", "feed", src.Label, "count", len(items))
			buckets[i] = items
			return nil
		})
	}
	_ = g.Wait()

	var all []domain.RawItem
	for _, bucket := range buckets {
		all = append(all, bucket...)
	}
	return all
}

func (f *Fetcher) fetchSource(ctx context.Context, src domain.FeedSource) ([]domain.RawItem, error) {
	if f.parser == nil {
		return nil, fmt.Errorf("no feed parser configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	parsed, err := f.parser.Parse(raw, src)
	if err != nil {
		return nil, err
	}

	return f.keep(parsed, src), nil
}

// keep drops untitled and stale items and fills in missing labels.
func (f *Fetcher) keep(items []domain.RawItem, src domain.FeedSource) []domain.RawItem {
	var cutoff time.Time
	if f.opts.RecencyWindow > 0 {
		cutoff = f.opts.Now().Add(-f.opts.RecencyWindow)
	}

	kept := items[:0]
	for _, item := range items {
		if item.Title == "" {
			continue
		}
		if item.PublishedAt != nil && !cutoff.IsZero() && item.PublishedAt.Before(cutoff) {
			continue
		}
		if item.SourceLabel == "" {
			item.SourceLabel = src.Label
		}
		if item.Publisher == "" {
			item.Publisher = src.Label
		}
		kept = append(kept, item)
	}
	return kept
}

func (f *Fetcher) debug(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}

func (f *Fetcher) warn(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Warn(msg, args...)
	}
}
