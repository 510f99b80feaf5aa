package ports

import (
	"context"

	"MarketRadar/internal/domain"
)

// FeedFetcher pulls raw items from every configured feed source.
type FeedFetcher interface {
	FetchAll(ctx context.Context, sources []domain.FeedSource) []domain.RawItem
}

// Prompt is a role-tagged completion request.
type Prompt struct {
	System string
	User   string
}

// CompletionProvider sends a prompt to a language model and returns its raw text.
type CompletionProvider interface {
	Name() string
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// IntelligenceRepository persists classified market items.
type IntelligenceRepository interface {
	InsertIntelligence(ctx context.Context, items []domain.IntelligenceItem) ([]domain.IntelligenceItem, error)
}

// ReviewRepository reads raw reviews and stores their sentiment.
type ReviewRepository interface {
	PendingReviews(ctx context.Context, limit int) ([]domain.RawReview, error)
	// SaveSentiments stores rows and marks processedIDs as analysed atomically.
	SaveSentiments(ctx context.Context, rows []domain.ReviewSentiment, processedIDs []int64) ([]domain.ReviewSentiment, error)
}

// InventoryRepository exposes the Z-STOP query and alert sink.
type InventoryRepository interface {
	ZStopCandidates(ctx context.Context) ([]domain.ZStopCandidate, error)
	InsertAlerts(ctx context.Context, alerts []domain.SystemAlert) (int, error)
	OpenAlerts(ctx context.Context, alertType string) (int, error)
}

// Digest is a renderer-agnostic notification payload.
type Digest struct {
	Kind       DigestKind
	Items      []domain.IntelligenceItem
	Reviews    int
	Categories map[string]int
}

// DigestKind selects the digest template.
type DigestKind string

const (
	DigestStrategic     DigestKind = "strategic"
	DigestCustomerPulse DigestKind = "customer-pulse"
)

// Notifier delivers digests to email, Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest Digest) error
}
