package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"MarketRadar/internal/domain"
	"MarketRadar/internal/ports"
)

const (
	zStopAlertType = "Z-STOP"
	zStopSeverity  = "CRITICAL"
)

// ZStop raises an alert for every snapshot with stock on hand and zero sales.
type ZStop struct {
	repo   ports.InventoryRepository
	logger *slog.Logger
}

// NewZStop wires the inventory repository.
func NewZStop(repo ports.InventoryRepository, logger *slog.Logger) *ZStop {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ZStop{repo: repo, logger: logger}
}

// Run queries candidates and inserts one alert per hit.
func (z *ZStop) Run(ctx context.Context) (domain.ZStopReport, error) {
	report := domain.ZStopReport{RunID: uuid.NewString()}
	log := z.logger.With("run_id", report.RunID)

	candidates, err := z.repo.ZStopCandidates(ctx)
	if err != nil {
		return report, fmt.Errorf("query z-stop candidates: %w", err)
	}
	report.Candidates = candidates
	if len(candidates) == 0 {
		log.Info("no z-stop items found")
		return report, nil
	}

	alerts := make([]domain.SystemAlert, 0, len(candidates))
	for _, c := range candidates {
		alerts = append(alerts, domain.SystemAlert{
			AlertType: zStopAlertType,
			Severity:  zStopSeverity,
			Message:   ZStopMessage(c),
		})
	}

	n, err := z.repo.InsertAlerts(ctx, alerts)
	if err != nil {
		return report, fmt.Errorf("insert z-stop alerts: %w", err)
	}
	report.Alerts = n

	open, err := z.repo.OpenAlerts(ctx, zStopAlertType)
	if err != nil {
		log.Warn("count open alerts failed", "error", err)
	}
	report.OpenAlerts = open
	log.Info("z-stop alerts created", "count", n, "open", open)
	return report, nil
}

// ZStopMessage renders the alert text for one candidate.
func ZStopMessage(c domain.ZStopCandidate) string {
	return fmt.Sprintf("Z-STOP ALERT: Product %s (%s) at %s has STOCK: %d but SALES: %d.",
		c.ProductName, c.ProductSKU, c.OutletName, c.StockQty, c.SalesQty)
}
