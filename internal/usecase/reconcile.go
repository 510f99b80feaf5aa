package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"MarketRadar/internal/domain"
	"MarketRadar/internal/ports"
)

// viralScore is the impact score from which an item counts as viral.
const viralScore = 9

// Reconcile maps each record back to batch[SourceIndex-1]. Records pointing
// outside the batch still produce an item, with an empty source URL.
func Reconcile(records []domain.ClassificationRecord, batch []domain.SignalItem, logger *slog.Logger) []domain.IntelligenceItem {
	items := make([]domain.IntelligenceItem, 0, len(records))
	for _, rec := range records {
		item := domain.IntelligenceItem{
			SourceType:     rec.Category,
			Title:          rec.Title,
			Summary:        buildSummary(rec.Reason, rec.Recommendation),
			SentimentScore: rec.Score / 10,
			IsViral:        rec.Score >= viralScore,
		}

		if src, ok := sourceAt(batch, rec.SourceIndex); ok {
			if rec.Title != "" && !sameTitle(rec.Title, src.Title) && logger != nil {
				logger.Warn("classifier title does not match indexed item",
					"index", rec.SourceIndex, "echoed", rec.Title, "source", src.Title)
			}
			item.Title = src.Title
			item.SourceURL = src.Link
		} else if logger != nil {
			logger.Warn("classification index out of range", "index", rec.SourceIndex, "batch", len(batch))
		}

		items = append(items, item)
	}
	return items
}

func sourceAt(batch []domain.SignalItem, index int) (domain.SignalItem, bool) {
	if index < 1 || index > len(batch) {
		return domain.SignalItem{}, false
	}
	return batch[index-1], true
}

func sameTitle(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func buildSummary(reason, recommendation string) string {
	switch {
	case recommendation == "":
		return reason
	case reason == "":
		return "Recommendation: " + recommendation
	default:
		return reason + " | Recommendation: " + recommendation
	}
}

// Persister reconciles classification records and writes them in one bulk insert.
type Persister struct {
	repo   ports.IntelligenceRepository
	logger *slog.Logger
}

// NewPersister wires the intelligence repository.
func NewPersister(repo ports.IntelligenceRepository, logger *slog.Logger) *Persister {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Persister{repo: repo, logger: logger}
}

// ReconcileAndSave is a no-op for an empty record list. A store error is
// returned as-is with a failed status; nothing is retried.
func (p *Persister) ReconcileAndSave(ctx context.Context, records []domain.ClassificationRecord, batch []domain.SignalItem) (domain.PersistResult, error) {
	if len(records) == 0 {
		p.logger.Info("no high-impact items found")
		return domain.PersistResult{Status: domain.PersistNoItems}, nil
	}

	items := Reconcile(records, batch, p.logger)
	p.logger.Info("saving intelligence items", "count", len(items))

	saved, err := p.repo.InsertIntelligence(ctx, items)
	if err != nil {
		p.logger.Error("failed to save intelligence items", "error", err)
		return domain.PersistResult{Status: domain.PersistFailed, Items: items}, fmt.Errorf("insert intelligence: %w", err)
	}

	for i, item := range saved {
		url := item.SourceURL
		if url == "" {
			url = "(no url)"
		}
		p.logger.Debug("saved item", "n", i+1, "type", item.SourceType, "title", item.Title, "url", url)
	}
	p.logger.Info("saved intelligence items", "count", len(saved))

	return domain.PersistResult{Status: domain.PersistSaved, Saved: len(saved), Items: saved}, nil
}
