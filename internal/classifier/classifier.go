// Package classifier sends a whole batch to a completion provider in one
// request and turns the free-text answer into classification records.
package classifier

import (
	"context"
	"log/slog"
	"time"

	"MarketRadar/internal/domain"
	"MarketRadar/internal/ports"
)

// Outcome tags how a classification attempt ended.
type Outcome string

const (
	OutcomeOK            Outcome = "ok"
	OutcomeEmptyBatch    Outcome = "empty-batch"
	OutcomeRequestFailed Outcome = "request-failed"
	OutcomeUnparseable   Outcome = "unparseable"
)

// Result is either a list of records (OutcomeOK) or an explicit failure
// variant with no records.
type Result struct {
	Outcome  Outcome
	Records  []domain.ClassificationRecord
	Err      error
	Duration time.Duration
}

// OK reports whether the provider answered with a parseable array.
func (r Result) OK() bool {
	return r.Outcome == OutcomeOK
}

// Classifier wraps a completion provider.
type Classifier struct {
	provider ports.CompletionProvider
	news     NewsPromptOptions
	timeout  time.Duration
	logger   *slog.Logger
}

// New builds a classifier; timeout bounds every provider call when positive.
func New(provider ports.CompletionProvider, news NewsPromptOptions, timeout time.Duration, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Classifier{provider: provider, news: news, timeout: timeout, logger: logger}
}

// ClassifyBatch sends the news batch as a single request.
func (c *Classifier) ClassifyBatch(ctx context.Context, items []domain.SignalItem) Result {
	if len(items) == 0 {
		return Result{Outcome: OutcomeEmptyBatch}
	}
	return c.Classify(ctx, NewsPrompt(items, c.news))
}

// ClassifyReviews sends the review batch as a single request.
func (c *Classifier) ClassifyReviews(ctx context.Context, reviews []domain.RawReview) Result {
	if len(reviews) == 0 {
		return Result{Outcome: OutcomeEmptyBatch}
	}
	return c.Classify(ctx, ReviewPrompt(reviews))
}

// Classify performs one provider call. Errors never escape: they are logged
// and reported through the Result outcome.
func (c *Classifier) Classify(ctx context.Context, prompt ports.Prompt) Result {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := c.provider.Complete(ctx, prompt)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Error("classification request failed", "provider", c.provider.Name(), "error", err)
		return Result{Outcome: OutcomeRequestFailed, Err: err, Duration: elapsed}
	}

	records, err := ParseRecords(text)
	if err != nil {
		c.logger.Error("classification response unparseable", "provider", c.provider.Name(), "error", err, "response", truncate(text, 200))
		return Result{Outcome: OutcomeUnparseable, Err: err, Duration: elapsed}
	}

	c.logger.Info("classification complete", "provider", c.provider.Name(), "records", len(records), "duration", elapsed.Round(time.Millisecond))
	return Result{Outcome: OutcomeOK, Records: records, Duration: elapsed}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
