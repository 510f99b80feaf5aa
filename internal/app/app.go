package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"MarketRadar/internal/classifier"
	"MarketRadar/internal/config"
	"MarketRadar/internal/domain"
	"MarketRadar/internal/infrastructure/feed"
	"MarketRadar/internal/infrastructure/llm"
	"MarketRadar/internal/infrastructure/notify"
	"MarketRadar/internal/infrastructure/storage"
	"MarketRadar/internal/infrastructure/telegram"
	"MarketRadar/internal/logging"
	"MarketRadar/internal/ports"
	"MarketRadar/internal/relevance"
	"MarketRadar/internal/scanner"
	"MarketRadar/internal/usecase"
)

// Application wires configs to use cases. Each Run* method is one batch job.
type Application struct {
	cfg         config.Config
	logger      *slog.Logger
	httpClient  *http.Client
	newProvider func(config.LLMConfig) (ports.CompletionProvider, error)
}

// New builds an application from a validated configuration.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	return &Application{
		cfg:         cfg,
		logger:      baseLogger,
		httpClient:  &http.Client{Timeout: cfg.Fetch.Timeout},
		newProvider: llm.New,
	}
}

func (a *Application) component(name string) *slog.Logger {
	return a.logger.With("component", name)
}

func (a *Application) openStore(ctx context.Context) (*storage.Store, error) {
	store, err := storage.Open(ctx, a.cfg.Database.Driver, a.cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}

func (a *Application) notifiers() []ports.Notifier {
	var out []ports.Notifier
	n := a.cfg.Notifications
	if n.Email.Enabled() {
		renderer := notify.NewRenderer(n.DashboardURL, n.ScoreAbove)
		out = append(out, notify.NewEmailNotifier(n.Email, renderer, a.component("notify.email")))
	}
	if n.Telegram.Enabled() {
		out = append(out, telegram.NewNotifier(n.Telegram.BotToken, n.Telegram.ChatID, n.DashboardURL))
	}
	return out
}

func (a *Application) classifier(llmCfg config.LLMConfig) (*classifier.Classifier, error) {
	provider, err := a.newProvider(llmCfg)
	if err != nil {
		return nil, fmt.Errorf("build llm provider: %w", err)
	}

	cats := make([]classifier.Category, 0, len(a.cfg.Classifier.Categories))
	for _, c := range a.cfg.Classifier.Categories {
		cats = append(cats, classifier.Category{Name: c.Name, Description: c.Description})
	}
	news := classifier.NewsPromptOptions{
		AnalystRole:    a.cfg.Classifier.AnalystRole,
		Categories:     cats,
		ScoreThreshold: a.cfg.Classifier.ScoreThreshold,
		AlwaysInclude:  a.cfg.Classifier.AlwaysInclude,
	}
	return classifier.New(provider, news, llmCfg.Timeout, a.component("classifier")), nil
}

// RunMarketRadar fetches, filters, classifies and stores news intelligence.
func (a *Application) RunMarketRadar(ctx context.Context) (domain.RunReport, error) {
	registry := scanner.NewRegistry(feed.NewRegexParser(), feed.NewGofeedParser())
	parser, err := registry.Resolve(a.cfg.Fetch.Parser)
	if err != nil {
		return domain.RunReport{}, err
	}

	cls, err := a.classifier(a.cfg.LLM)
	if err != nil {
		return domain.RunReport{}, err
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return domain.RunReport{}, err
	}
	defer store.Close()

	fetcher := feed.NewFetcher(a.httpClient, parser, feed.Options{
		RecencyWindow: a.cfg.Pipeline.RecencyWindow,
		Concurrency:   a.cfg.Fetch.Concurrency,
		UserAgent:     a.cfg.Fetch.UserAgent,
	}, a.component("feed"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Fetcher: fetcher,
		Sources: a.cfg.Feeds,
		Filter: relevance.NewFilter(relevance.Rules{
			NoiseKeywords:  a.cfg.Filter.NoiseKeywords,
			SignalKeywords: a.cfg.Filter.SignalKeywords,
			BypassLabels:   a.cfg.Filter.BypassLabels,
		}),
		Classifier:       cls,
		Repository:       store,
		Notifiers:        a.notifiers(),
		MaxBatch:         a.cfg.Pipeline.MaxBatch,
		NotifyScoreAbove: a.cfg.Notifications.ScoreAbove,
		Logger:           a.component("pipeline"),
	})
	return pipeline.Run(ctx)
}

// RunReviewAnalyzer classifies pending customer reviews.
func (a *Application) RunReviewAnalyzer(ctx context.Context) (domain.ReviewReport, error) {
	llmCfg := a.cfg.LLM
	llmCfg.Temperature = a.cfg.Reviews.Temperature
	cls, err := a.classifier(llmCfg)
	if err != nil {
		return domain.ReviewReport{}, err
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return domain.ReviewReport{}, err
	}
	defer store.Close()

	return usecase.NewReviewPipeline(usecase.ReviewPipelineDeps{
		Repository: store,
		Classifier: cls,
		Notifiers:  a.notifiers(),
		BatchLimit: a.cfg.Reviews.BatchLimit,
		Logger:     a.component("reviews"),
	}).Run(ctx)
}

// RunZStop raises alerts for stocked products without sales.
func (a *Application) RunZStop(ctx context.Context) (domain.ZStopReport, error) {
	store, err := a.openStore(ctx)
	if err != nil {
		return domain.ZStopReport{}, err
	}
	defer store.Close()

	return usecase.NewZStop(store, a.component("zstop")).Run(ctx)
}
