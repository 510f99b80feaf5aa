package usecase

import (
	"context"
	"errors"
	"fmt"

	"MarketRadar/internal/domain"
	"MarketRadar/internal/ports"
)

var errStoreDown = errors.New("store down")

type staticFetcher struct {
	items []domain.RawItem
	calls int
}

func (f *staticFetcher) FetchAll(ctx context.Context, sources []domain.FeedSource) []domain.RawItem {
	f.calls++
	return f.items
}

type scriptedProvider struct {
	response string
	err      error
	calls    int
	prompts  []ports.Prompt
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Complete(ctx context.Context, prompt ports.Prompt) (string, error) {
	p.calls++
	p.prompts = append(p.prompts, prompt)
	return p.response, p.err
}

type memoryRepo struct {
	err      error
	calls    int
	inserted []domain.IntelligenceItem
}

func (r *memoryRepo) InsertIntelligence(ctx context.Context, items []domain.IntelligenceItem) ([]domain.IntelligenceItem, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	out := make([]domain.IntelligenceItem, len(items))
	for i, item := range items {
		item.ID = int64(len(r.inserted) + 1)
		r.inserted = append(r.inserted, item)
		out[i] = item
	}
	return out, nil
}

type recordingNotifier struct {
	digests []ports.Digest
	err     error
}

func (n *recordingNotifier) PublishDigest(ctx context.Context, digest ports.Digest) error {
	n.digests = append(n.digests, digest)
	return n.err
}

type memoryReviews struct {
	pending   []domain.RawReview
	saved     []domain.ReviewSentiment
	processed []int64
	saveErr   error
}

func (r *memoryReviews) PendingReviews(ctx context.Context, limit int) ([]domain.RawReview, error) {
	if limit < len(r.pending) {
		return r.pending[:limit], nil
	}
	return r.pending, nil
}

func (r *memoryReviews) SaveSentiments(ctx context.Context, rows []domain.ReviewSentiment, processedIDs []int64) ([]domain.ReviewSentiment, error) {
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	r.saved = append(r.saved, rows...)
	r.processed = append(r.processed, processedIDs...)
	return rows, nil
}

type memoryInventory struct {
	candidates []domain.ZStopCandidate
	alerts     []domain.SystemAlert
	err        error
}

func (r *memoryInventory) ZStopCandidates(ctx context.Context) ([]domain.ZStopCandidate, error) {
	return r.candidates, r.err
}

func (r *memoryInventory) InsertAlerts(ctx context.Context, alerts []domain.SystemAlert) (int, error) {
	r.alerts = append(r.alerts, alerts...)
	return len(alerts), nil
}

func (r *memoryInventory) OpenAlerts(ctx context.Context, alertType string) (int, error) {
	n := 0
	for _, a := range r.alerts {
		if a.AlertType == alertType && !a.IsResolved {
			n++
		}
	}
	return n, nil
}

func rawItems(label string, titles ...string) []domain.RawItem {
	out := make([]domain.RawItem, 0, len(titles))
	for i, title := range titles {
		out = append(out, domain.RawItem{
			Title:       title,
			Link:        fmt.Sprintf("https://%s.example/%d", label, i),
			SourceLabel: label,
			Publisher:   label,
		})
	}
	return out
}
