package storage

import (
	"context"
	"fmt"

	"MarketRadar/internal/domain"
	"MarketRadar/internal/ports"
)

const marketTrendsTable = "market_trends"

var _ ports.IntelligenceRepository = (*Store)(nil)

// InsertIntelligence writes all items in one statement and returns them with
// their generated ids.
func (s *Store) InsertIntelligence(ctx context.Context, items []domain.IntelligenceItem) ([]domain.IntelligenceItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	detectedAt := s.now()
	insert := s.sql.Insert(marketTrendsTable).
		Columns("source_type", "title", "summary", "sentiment_score", "is_viral", "source_url", "detected_at")
	for _, item := range items {
		insert = insert.Values(item.SourceType, item.Title, item.Summary, item.SentimentScore, item.IsViral, item.SourceURL, detectedAt)
	}

	ids, err := s.insertReturningIDs(ctx, s.db, insert, len(items))
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", marketTrendsTable, err)
	}

	saved := make([]domain.IntelligenceItem, len(items))
	for i, item := range items {
		item.ID = ids[i]
		item.CreatedAt = detectedAt
		saved[i] = item
	}
	return saved, nil
}
