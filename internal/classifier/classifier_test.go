package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"MarketRadar/internal/domain"
	"MarketRadar/internal/ports"
)

type fakeProvider struct {
	response string
	err      error
	calls    int
	prompts  []ports.Prompt
	deadline bool
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, prompt ports.Prompt) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	_, f.deadline = ctx.Deadline()
	return f.response, f.err
}

func signals(titles ...string) []domain.SignalItem {
	out := make([]domain.SignalItem, 0, len(titles))
	for _, title := range titles {
		out = append(out, domain.SignalItem{RawItem: domain.RawItem{Title: title, SourceLabel: "BPOM Siaran Pers"}})
	}
	return out
}

func newsOptions() NewsPromptOptions {
	return NewsPromptOptions{
		AnalystRole:    "a pharmacy strategy analyst",
		Categories:     []Category{{Name: "PRODUCT_SAFETY", Description: "recalls"}, {Name: "COMPETITOR_UPDATE", Description: "general"}},
		ScoreThreshold: 7,
		AlwaysInclude:  []string{"COMPETITOR_UPDATE"},
	}
}

func TestClassifyBatchSingleCall(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{response: `[{"index": 2, "category": "PRODUCT_SAFETY", "score": 8}]`}
	c := New(provider, newsOptions(), time.Minute, nil)

	res := c.ClassifyBatch(context.Background(), signals("Obat A", "Obat B Ditarik", "Obat C"))
	if !res.OK() {
		t.Fatalf("unexpected outcome %s: %v", res.Outcome, res.Err)
	}
	if provider.calls != 1 {
		t.Fatalf("expected exactly one provider call, got %d", provider.calls)
	}
	if !provider.deadline {
		t.Fatal("expected the provider call to carry a deadline")
	}
	if len(res.Records) != 1 || res.Records[0].SourceIndex != 2 {
		t.Fatalf("unexpected records %+v", res.Records)
	}

	user := provider.prompts[0].User
	for _, line := range []string{"1. [BPOM Siaran Pers] Obat A", "2. [BPOM Siaran Pers] Obat B Ditarik", "3. [BPOM Siaran Pers] Obat C"} {
		if !strings.Contains(user, line) {
			t.Fatalf("prompt missing %q:\n%s", line, user)
		}
	}
	if !strings.Contains(user, "score > 7") || !strings.Contains(user, "COMPETITOR_UPDATE") {
		t.Fatalf("prompt missing threshold rules:\n%s", user)
	}
	if !strings.Contains(provider.prompts[0].System, "JSON array") {
		t.Fatalf("system prompt must demand JSON: %s", provider.prompts[0].System)
	}
}

func TestClassifyBatchMalformedResponse(t *testing.T) {
	t.Parallel()

	c := New(&fakeProvider{response: "not json"}, newsOptions(), 0, nil)
	res := c.ClassifyBatch(context.Background(), signals("Obat A"))
	if res.Outcome != OutcomeUnparseable {
		t.Fatalf("expected unparseable, got %s", res.Outcome)
	}
	if len(res.Records) != 0 {
		t.Fatalf("expected no records, got %+v", res.Records)
	}
}

func TestClassifyBatchRequestFailure(t *testing.T) {
	t.Parallel()

	c := New(&fakeProvider{err: errors.New("rate limited")}, newsOptions(), 0, nil)
	res := c.ClassifyBatch(context.Background(), signals("Obat A"))
	if res.Outcome != OutcomeRequestFailed || res.Err == nil || len(res.Records) != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestClassifyBatchEmptySkipsProvider(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{response: "[]"}
	res := New(provider, newsOptions(), 0, nil).ClassifyBatch(context.Background(), nil)
	if res.Outcome != OutcomeEmptyBatch || provider.calls != 0 {
		t.Fatalf("expected no call for empty batch, got %s with %d calls", res.Outcome, provider.calls)
	}
}

func TestReviewPrompt(t *testing.T) {
	t.Parallel()

	prompt := ReviewPrompt([]domain.RawReview{
		{Comment: "Obat kosong terus", Rating: 2},
		{Comment: "Pelayanan ramah", Rating: 5},
	})
	if !strings.Contains(prompt.User, `Review #1: "Obat kosong terus" (Rating: 2/5)`) {
		t.Fatalf("unexpected review list:\n%s", prompt.User)
	}
	if !strings.Contains(prompt.User, "Review #2") || !strings.Contains(prompt.User, domain.SentimentStockIssue) {
		t.Fatalf("prompt missing categories:\n%s", prompt.User)
	}
}
