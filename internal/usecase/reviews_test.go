package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"MarketRadar/internal/classifier"
	"MarketRadar/internal/domain"
	"MarketRadar/internal/ports"
)

func pendingReviews() []domain.RawReview {
	return []domain.RawReview{
		{ID: 11, OutletID: 1, ReviewerName: "Budi", Rating: 5, Comment: "Pelayanan ramah"},
		{ID: 12, OutletID: 1, ReviewerName: "Sari", Rating: 2, Comment: "Obat kosong terus"},
		{ID: 13, OutletID: 2, ReviewerName: "Andi", Rating: 3, Comment: "Biasa saja"},
	}
}

func newReviewPipeline(repo *memoryReviews, provider *scriptedProvider, notifiers ...ports.Notifier) *ReviewPipeline {
	return NewReviewPipeline(ReviewPipelineDeps{
		Repository: repo,
		Classifier: classifier.New(provider, classifier.NewsPromptOptions{}, time.Minute, nil),
		Notifiers:  notifiers,
		BatchLimit: 50,
	})
}

func TestReviewPipelineMapsByIndex(t *testing.T) {
	t.Parallel()

	repo := &memoryReviews{pending: pendingReviews()}
	provider := &scriptedProvider{response: `[{"index": 1, "category": "POSITIVE"}, {"index": 2, "category": "STOK_ISSUE"}]`}
	notifier := &recordingNotifier{}

	report, err := newReviewPipeline(repo, provider, notifier).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Saved != 3 || len(repo.saved) != 3 {
		t.Fatalf("expected one row per review, got %+v", report)
	}
	want := []struct {
		category string
		score    float64
	}{
		{domain.SentimentPositive, 0.9},
		{domain.SentimentStockIssue, 0.2},
		{domain.SentimentNeutral, 0.2},
	}
	for i, w := range want {
		if repo.saved[i].SentimentCategory != w.category || repo.saved[i].SentimentScore != w.score {
			t.Fatalf("row %d = %+v, want %s/%v", i, repo.saved[i], w.category, w.score)
		}
	}
	if len(repo.processed) != 3 {
		t.Fatalf("expected all reviews marked processed, got %v", repo.processed)
	}
	if len(notifier.digests) != 1 || notifier.digests[0].Kind != ports.DigestCustomerPulse {
		t.Fatalf("expected a customer pulse digest, got %+v", notifier.digests)
	}
	if notifier.digests[0].Categories[domain.SentimentStockIssue] != 1 {
		t.Fatalf("unexpected digest categories %v", notifier.digests[0].Categories)
	}
}

func TestReviewPipelineNoPending(t *testing.T) {
	t.Parallel()

	provider := &scriptedProvider{}
	report, err := newReviewPipeline(&memoryReviews{}, provider).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Fetched != 0 || provider.calls != 0 {
		t.Fatalf("expected no classifier call, got %d", provider.calls)
	}
}

func TestReviewPipelineEmptyAnswerWritesNothing(t *testing.T) {
	t.Parallel()

	repo := &memoryReviews{pending: pendingReviews()}
	for _, response := range []string{"[]", "sorry, I cannot"} {
		_, err := newReviewPipeline(repo, &scriptedProvider{response: response}).Run(context.Background())
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", response, err)
		}
	}
	if len(repo.saved) != 0 || len(repo.processed) != 0 {
		t.Fatalf("expected nothing written, got %d saved, %d processed", len(repo.saved), len(repo.processed))
	}
}

func TestReviewPipelineSaveError(t *testing.T) {
	t.Parallel()

	repo := &memoryReviews{pending: pendingReviews(), saveErr: errStoreDown}
	provider := &scriptedProvider{response: `[{"index": 1, "category": "POSITIVE"}]`}
	notifier := &recordingNotifier{}
	_, err := newReviewPipeline(repo, provider, notifier).Run(context.Background())
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
	if len(repo.saved) != 0 || len(repo.processed) != 0 {
		t.Fatal("reviews must stay pending when the save fails")
	}
	if len(notifier.digests) != 0 {
		t.Fatalf("no digest expected after a failed save, got %+v", notifier.digests)
	}
}

func TestMergeReviewSentimentsFirstRecordWins(t *testing.T) {
	t.Parallel()

	rows := MergeReviewSentiments(pendingReviews()[:1], []domain.ClassificationRecord{
		{SourceIndex: 1, Category: "SERVICE_ISSUE"},
		{SourceIndex: 1, Category: "POSITIVE"},
		{SourceIndex: 9, Category: "POSITIVE"},
	})
	if len(rows) != 1 || rows[0].SentimentCategory != domain.SentimentServiceIssue {
		t.Fatalf("unexpected rows %+v", rows)
	}
}
