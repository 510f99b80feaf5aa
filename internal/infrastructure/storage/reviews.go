package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"MarketRadar/internal/domain"
	"MarketRadar/internal/ports"
)

const (
	rawReviewsTable       = "raw_reviews"
	reviewSentimentsTable = "review_sentiments"
)

var _ ports.ReviewRepository = (*Store)(nil)

// PendingReviews returns up to limit reviews that have not been analysed yet.
func (s *Store) PendingReviews(ctx context.Context, limit int) ([]domain.RawReview, error) {
	filter := Filter{Where: []sq.Sqlizer{sq.Eq{"processed_at": nil}}}
	if limit > 0 {
		filter.Limit = uint64(limit)
	}

	query, args, err := filter.apply(
		s.sql.Select("id", "outlet_id", "COALESCE(reviewer_name, '')", "COALESCE(rating, 0)", "COALESCE(comment, '')").
			From(rawReviewsTable).
			OrderBy("id"),
	).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select %s: %w", rawReviewsTable, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", rawReviewsTable, err)
	}
	defer rows.Close()

	var out []domain.RawReview
	for rows.Next() {
		var r domain.RawReview
		if err := rows.Scan(&r.ID, &r.OutletID, &r.ReviewerName, &r.Rating, &r.Comment); err != nil {
			return nil, fmt.Errorf("scan %s: %w", rawReviewsTable, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

// SaveSentiments inserts the sentiment rows and stamps processed_at on the
// source reviews in one transaction, so a review is never left pending with
// its sentiment already stored.
func (s *Store) SaveSentiments(ctx context.Context, rows []domain.ReviewSentiment, processedIDs []int64) ([]domain.ReviewSentiment, error) {
	if len(rows) == 0 && len(processedIDs) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	saved, err := s.insertSentiments(ctx, tx, rows)
	if err != nil {
		return nil, err
	}
	if err := s.markProcessed(ctx, tx, processedIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit review sentiments: %w", err)
	}
	return saved, nil
}

func (s *Store) insertSentiments(ctx context.Context, db execQuerier, rows []domain.ReviewSentiment) ([]domain.ReviewSentiment, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	insert := s.sql.Insert(reviewSentimentsTable).
		Columns("outlet_id", "reviewer_name", "rating", "comment", "sentiment_category", "sentiment_score")
	for _, r := range rows {
		insert = insert.Values(r.OutletID, r.ReviewerName, r.Rating, r.Comment, r.SentimentCategory, r.SentimentScore)
	}

	ids, err := s.insertReturningIDs(ctx, db, insert, len(rows))
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", reviewSentimentsTable, err)
	}

	saved := make([]domain.ReviewSentiment, len(rows))
	for i, r := range rows {
		r.ID = ids[i]
		saved[i] = r
	}
	return saved, nil
}

func (s *Store) markProcessed(ctx context.Context, db execQuerier, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := s.sql.Update(rawReviewsTable).
		Set("processed_at", s.now()).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update %s: %w", rawReviewsTable, err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update %s: %w", rawReviewsTable, err)
	}
	return nil
}
