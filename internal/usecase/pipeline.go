package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"MarketRadar/internal/classifier"
	"MarketRadar/internal/domain"
	"MarketRadar/internal/ports"
	"MarketRadar/internal/relevance"
)

// BatchClassifier classifies a whole news batch in one request.
type BatchClassifier interface {
	ClassifyBatch(ctx context.Context, items []domain.SignalItem) classifier.Result
}

// PipelineDeps wires all driven adapters into the market radar pipeline.
type PipelineDeps struct {
	Fetcher          ports.FeedFetcher
	Sources          []domain.FeedSource
	Filter           *relevance.Filter
	Classifier       BatchClassifier
	Repository       ports.IntelligenceRepository
	Notifiers        []ports.Notifier
	MaxBatch         int
	NotifyScoreAbove float64
	Logger           *slog.Logger
	NewRunID         func() string
}

// Pipeline implements one stateless fetch-filter-classify-persist run.
type Pipeline struct {
	fetcher          ports.FeedFetcher
	sources          []domain.FeedSource
	filter           *relevance.Filter
	classifier       BatchClassifier
	repo             ports.IntelligenceRepository
	notifiers        []ports.Notifier
	maxBatch         int
	notifyScoreAbove float64
	logger           *slog.Logger
	newRunID         func() string
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	newRunID := deps.NewRunID
	if newRunID == nil {
		newRunID = uuid.NewString
	}
	filter := deps.Filter
	if filter == nil {
		filter = relevance.NewFilter(relevance.Rules{})
	}
	return &Pipeline{
		fetcher:          deps.Fetcher,
		sources:          deps.Sources,
		filter:           filter,
		classifier:       deps.Classifier,
		repo:             deps.Repository,
		notifiers:        deps.Notifiers,
		maxBatch:         deps.MaxBatch,
		notifyScoreAbove: deps.NotifyScoreAbove,
		logger:           logger,
		newRunID:         newRunID,
	}
}

// Run executes fetching, deduping, filtering, classifying and persisting.
// The only error it returns is a persistence failure; every other degraded
// stage ends the run early with an empty result.
func (p *Pipeline) Run(ctx context.Context) (domain.RunReport, error) {
	report := domain.RunReport{RunID: p.newRunID(), Categories: map[string]int{}}
	log := p.logger.With("run_id", report.RunID)
	persister := NewPersister(p.repo, log)

	enter := func(state domain.RunState) {
		report.State = state
		log.Debug("pipeline stage", "state", state)
	}

	enter(domain.StateFetching)
	var raw []domain.RawItem
	if p.fetcher != nil {
		raw = p.fetcher.FetchAll(ctx, p.sources)
	}
	report.Fetched = len(raw)
	log.Info("feeds fetched", "sources", len(p.sources), "items", report.Fetched)

	enter(domain.StateDeduping)
	unique := Dedupe(raw)
	report.Unique = len(unique)
	log.Info("deduplicated", "unique", report.Unique)

	enter(domain.StateFiltering)
	partition := p.filter.ClassifyNoiseSignal(unique)
	report.Signals = len(partition.Signals)
	report.Priority = partition.PriorityCount()
	report.Noise = len(partition.Noise)
	log.Info("noise filter applied", "signals", report.Signals, "priority", report.Priority, "noise", report.Noise)

	if report.Signals == 0 {
		enter(domain.StateDoneEmpty)
		report.Persist = domain.PersistResult{Status: domain.PersistNoItems}
		log.Info("no signal items found")
		return report, nil
	}

	batch := relevance.SelectBatch(partition.Signals, p.maxBatch)
	report.Batch = len(batch)

	enter(domain.StateClassifying)
	if p.classifier == nil {
		return report, fmt.Errorf("pipeline has no classifier")
	}
	log.Info("sending batch to classifier", "batch", report.Batch)
	result := p.classifier.ClassifyBatch(ctx, batch)
	if !result.OK() {
		enter(domain.StateDoneEmptyWithLog)
		report.Persist = domain.PersistResult{Status: domain.PersistNoItems}
		log.Warn("classification produced no usable result", "outcome", result.Outcome, "error", result.Err)
		log.Info("no high-impact items found")
		return report, nil
	}
	report.Classified = len(result.Records)
	for _, rec := range result.Records {
		report.Categories[rec.Category]++
	}
	log.Info("high-impact items classified", "count", report.Classified, "categories", report.Categories)

	enter(domain.StateReconciling)
	enter(domain.StatePersisting)
	persist, err := persister.ReconcileAndSave(ctx, result.Records, batch)
	report.Persist = persist
	if err != nil {
		enter(domain.StateFailed)
		return report, err
	}

	report.Notified = p.notify(ctx, log, persist.Items)

	enter(domain.StateDone)
	log.Info("market radar run complete", "saved", persist.Saved, "status", persist.Status)
	return report, nil
}

// notify publishes items above the score threshold; failures are logged only.
func (p *Pipeline) notify(ctx context.Context, log *slog.Logger, items []domain.IntelligenceItem) int {
	if len(p.notifiers) == 0 {
		return 0
	}

	var alerts []domain.IntelligenceItem
	for _, item := range items {
		if item.Score() > p.notifyScoreAbove {
			alerts = append(alerts, item)
		}
	}
	if len(alerts) == 0 {
		return 0
	}

	digest := ports.Digest{Kind: ports.DigestStrategic, Items: alerts}
	for _, n := range p.notifiers {
		if err := n.PublishDigest(ctx, digest); err != nil {
			log.Warn("notification failed", "error", err)
		}
	}
	return len(alerts)
}
