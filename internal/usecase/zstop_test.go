package usecase

import (
	"context"
	"errors"
	"testing"

	"MarketRadar/internal/domain"
)

func TestZStopCreatesOneAlertPerCandidate(t *testing.T) {
	t.Parallel()

	repo := &memoryInventory{candidates: []domain.ZStopCandidate{
		{OutletName: "Apotek Sudirman", ProductSKU: "SKU-1", ProductName: "Paracetamol 500mg", StockQty: 40},
		{OutletName: "Apotek Thamrin", ProductSKU: "SKU-2", ProductName: "Vitamin C", StockQty: 3},
	}}

	report, err := NewZStop(repo, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Alerts != 2 || len(repo.alerts) != 2 || report.OpenAlerts != 2 {
		t.Fatalf("expected 2 alerts, got %+v", report)
	}
	got := repo.alerts[0]
	if got.AlertType != "Z-STOP" || got.Severity != "CRITICAL" {
		t.Fatalf("unexpected alert %+v", got)
	}
	want := "Z-STOP ALERT: Product Paracetamol 500mg (SKU-1) at Apotek Sudirman has STOCK: 40 but SALES: 0."
	if got.Message != want {
		t.Fatalf("message = %q, want %q", got.Message, want)
	}
}

func TestZStopNoCandidates(t *testing.T) {
	t.Parallel()

	repo := &memoryInventory{}
	report, err := NewZStop(repo, nil).Run(context.Background())
	if err != nil || report.Alerts != 0 || len(repo.alerts) != 0 {
		t.Fatalf("expected a quiet run, got %+v, %v", report, err)
	}
}

func TestZStopQueryError(t *testing.T) {
	t.Parallel()

	_, err := NewZStop(&memoryInventory{err: errStoreDown}, nil).Run(context.Background())
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
