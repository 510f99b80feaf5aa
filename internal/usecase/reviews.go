package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"MarketRadar/internal/classifier"
	"MarketRadar/internal/domain"
	"MarketRadar/internal/ports"
)

const (
	positiveSentimentScore = 0.9
	defaultSentimentScore  = 0.2
)

// ReviewClassifier classifies a review batch in one request.
type ReviewClassifier interface {
	ClassifyReviews(ctx context.Context, reviews []domain.RawReview) classifier.Result
}

// ReviewPipelineDeps wires the review analyzer.
type ReviewPipelineDeps struct {
	Repository ports.ReviewRepository
	Classifier ReviewClassifier
	Notifiers  []ports.Notifier
	BatchLimit int
	Logger     *slog.Logger
}

// ReviewPipeline classifies unprocessed customer reviews by sentiment.
type ReviewPipeline struct {
	deps ReviewPipelineDeps
}

// NewReviewPipeline constructs the review analyzer.
func NewReviewPipeline(deps ReviewPipelineDeps) *ReviewPipeline {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.BatchLimit <= 0 {
		deps.BatchLimit = 50
	}
	return &ReviewPipeline{deps: deps}
}

// Run fetches pending reviews, classifies them and stores one sentiment row
// per review. Store errors are returned; classifier failures end the run
// without writing anything.
func (p *ReviewPipeline) Run(ctx context.Context) (domain.ReviewReport, error) {
	report := domain.ReviewReport{RunID: uuid.NewString(), Categories: map[string]int{}}
	log := p.deps.Logger.With("run_id", report.RunID)

	reviews, err := p.deps.Repository.PendingReviews(ctx, p.deps.BatchLimit)
	if err != nil {
		return report, fmt.Errorf("load pending reviews: %w", err)
	}
	report.Fetched = len(reviews)
	if len(reviews) == 0 {
		log.Info("no new reviews found to analyze")
		return report, nil
	}
	log.Info("pending reviews loaded", "count", len(reviews))

	result := p.deps.Classifier.ClassifyReviews(ctx, reviews)
	if !result.OK() || len(result.Records) == 0 {
		log.Warn("review analysis failed or returned empty", "outcome", result.Outcome, "error", result.Err)
		return report, nil
	}
	report.Classified = len(result.Records)

	rows := MergeReviewSentiments(reviews, result.Records)
	for _, row := range rows {
		report.Categories[row.SentimentCategory]++
	}

	ids := make([]int64, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.ID)
	}
	saved, err := p.deps.Repository.SaveSentiments(ctx, rows, ids)
	if err != nil {
		log.Error("save review sentiments failed", "error", err)
		return report, fmt.Errorf("save review sentiments: %w", err)
	}
	report.Saved = len(saved)

	log.Info("review sentiments saved", "saved", report.Saved,
		"positive", report.Categories[domain.SentimentPositive],
		"stock_issue", report.Categories[domain.SentimentStockIssue],
		"service_issue", report.Categories[domain.SentimentServiceIssue])

	digest := ports.Digest{Kind: ports.DigestCustomerPulse, Reviews: report.Saved, Categories: report.Categories}
	for _, n := range p.deps.Notifiers {
		if err := n.PublishDigest(ctx, digest); err != nil {
			log.Warn("notification failed", "error", err)
		}
	}

	report.FinishedAt = time.Now()
	return report, nil
}

// MergeReviewSentiments pairs every review with the first record carrying its
// 1-based index; reviews without a record are NEUTRAL.
func MergeReviewSentiments(reviews []domain.RawReview, records []domain.ClassificationRecord) []domain.ReviewSentiment {
	byIndex := make(map[int]string, len(records))
	for _, rec := range records {
		if _, ok := byIndex[rec.SourceIndex]; !ok {
			byIndex[rec.SourceIndex] = rec.Category
		}
	}

	rows := make([]domain.ReviewSentiment, 0, len(reviews))
	for i, r := range reviews {
		category, ok := byIndex[i+1]
		if !ok || category == "" {
			category = domain.SentimentNeutral
		}
		score := defaultSentimentScore
		if category == domain.SentimentPositive {
			score = positiveSentimentScore
		}
		rows = append(rows, domain.ReviewSentiment{
			OutletID:          r.OutletID,
			ReviewerName:      r.ReviewerName,
			Rating:            r.Rating,
			Comment:           r.Comment,
			SentimentCategory: category,
			SentimentScore:    score,
		})
	}
	return rows
}
