package report

import (
	"bytes"
	"strings"
	"testing"

	"MarketRadar/internal/domain"
)

func TestRenderRun(t *testing.T) {
	var buf bytes.Buffer
	err := RenderRun(&buf, domain.RunReport{
		RunID:      "run-1",
		State:      domain.StateDone,
		Fetched:    120,
		Batch:      100,
		Persist:    domain.PersistResult{Status: domain.PersistSaved, Saved: 4},
		Categories: map[string]int{"REGULATION": 1, "PRODUCT_SAFETY": 3},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"run-1", "done", "120", "saved", "PRODUCT_SAFETY", "REGULATION"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "PRODUCT_SAFETY") > strings.Index(out, "REGULATION") {
		t.Fatalf("categories not sorted:\n%s", out)
	}
}

func TestRenderReviews(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderReviews(&buf, domain.ReviewReport{RunID: "r", Fetched: 3, Saved: 3, Categories: map[string]int{"POSITIVE": 2}}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "POSITIVE") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestRenderZStop(t *testing.T) {
	var buf bytes.Buffer
	err := RenderZStop(&buf, domain.ZStopReport{
		RunID:      "z",
		Candidates: []domain.ZStopCandidate{{OutletName: "Alpro Cabang Pusat", ProductSKU: "PRD-002", ProductName: "Mouse Wireless Pro", StockQty: 50}},
		Alerts:     1,
		OpenAlerts: 3,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Alpro Cabang Pusat", "PRD-002", "50"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, buf.String())
		}
	}
}
