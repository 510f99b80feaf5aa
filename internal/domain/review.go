package domain

import "time"

// Review sentiment categories.
const (
	SentimentPositive     = "POSITIVE"
	SentimentStockIssue   = "STOK_ISSUE"
	SentimentServiceIssue = "SERVICE_ISSUE"
	SentimentNeutral      = "NEUTRAL"
)

// RawReview is an unprocessed customer review collected by the scraper.
type RawReview struct {
	ID           int64
	OutletID     int64
	ReviewerName string
	Rating       int
	Comment      string
}

// ReviewSentiment is the persisted review_sentiments row.
type ReviewSentiment struct {
	ID                int64
	OutletID          int64
	ReviewerName      string
	Rating            int
	Comment           string
	SentimentCategory string
	SentimentScore    float64
}

// ReviewReport summarises one review analyzer run.
type ReviewReport struct {
	RunID      string
	Fetched    int
	Classified int
	Saved      int
	Categories map[string]int
	FinishedAt time.Time
}
