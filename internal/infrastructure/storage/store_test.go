package storage

import (
	"context"
	"testing"

	sq "github.com/Masterminds/squirrel"

	"MarketRadar/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustExec(t *testing.T, s *Store, query string, args ...any) {
	t.Helper()
	if _, err := s.DB().Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}

func seedInventory(t *testing.T, s *Store) {
	t.Helper()
	mustExec(t, s, `INSERT INTO outlets (branch_code, name, region) VALUES
		('AL-001', 'Alpro Cabang Pusat', 'Jabodetabek'),
		('AL-002', 'Alpro Bandung Indah', 'Bandung'),
		('AL-003', 'Alpro Bekasi Cyber', 'Jabodetabek')`)
	mustExec(t, s, `INSERT INTO products (sku, name, category, min_stock) VALUES
		('PRD-001', 'Laptop Gaming X', 'Electronics', 5),
		('PRD-002', 'Mouse Wireless Pro', 'Accessories', 10),
		('PRD-003', 'Monitor 24 Inch', 'Electronics', 3),
		('PRD-004', 'Mechanical Keyboard', 'Accessories', 5)`)
	mustExec(t, s, `INSERT INTO daily_inventory_snapshots (outlet_id, product_id, stock_qty, sales_qty, snapshot_date) VALUES
		(1, 1, 20, 5, '2026-10-16'),
		(1, 2, 50, 0, '2026-10-16'),
		(2, 3, 0, 0, '2026-10-16'),
		(3, 4, 25, 0, '2026-10-16')`)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), "mysql", "x"); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	if err := s.migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	n, err := s.Count(context.Background(), "schema_migrations", Filter{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 applied migration, got %d", n)
	}
}

func TestInsertIntelligenceReturnsIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	saved, err := s.InsertIntelligence(ctx, []domain.IntelligenceItem{
		{SourceType: "PRODUCT_SAFETY", Title: "Obat X Ditarik", Summary: "recall", SentimentScore: 0.9, IsViral: true, SourceURL: "https://bpom.example/1"},
		{SourceType: "COMPETITOR_UPDATE", Title: "Apotek baru", SentimentScore: 0.5},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if len(saved) != 2 || saved[0].ID != 1 || saved[1].ID != 2 {
		t.Fatalf("unexpected ids: %+v", saved)
	}
	if saved[0].CreatedAt.IsZero() {
		t.Fatal("expected detected_at to be stamped")
	}

	viral, err := s.Count(ctx, marketTrendsTable, Filter{Where: []sq.Sqlizer{sq.Eq{"is_viral": true}}})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if viral != 1 {
		t.Fatalf("expected 1 viral row, got %d", viral)
	}

	high, err := s.Count(ctx, marketTrendsTable, Filter{Where: []sq.Sqlizer{sq.GtOrEq{"sentiment_score": 0.5}}})
	if err != nil || high != 2 {
		t.Fatalf("expected 2 rows with score >= 0.5, got %d (%v)", high, err)
	}
}

func TestInsertIntelligenceEmpty(t *testing.T) {
	s := openTestStore(t)
	saved, err := s.InsertIntelligence(context.Background(), nil)
	if err != nil || saved != nil {
		t.Fatalf("expected no-op, got %v, %v", saved, err)
	}
}

func TestReviewLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedInventory(t, s)
	mustExec(t, s, `INSERT INTO raw_reviews (outlet_id, reviewer_name, rating, comment) VALUES
		(1, 'Budi', 5, 'Pelayanan ramah'),
		(1, NULL, 2, 'Obat kosong'),
		(2, 'Sari', 3, 'Biasa')`)

	pending, err := s.PendingReviews(ctx, 2)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 || pending[0].ReviewerName != "Budi" || pending[1].ReviewerName != "" {
		t.Fatalf("unexpected pending reviews: %+v", pending)
	}

	saved, err := s.SaveSentiments(ctx, []domain.ReviewSentiment{
		{OutletID: 1, ReviewerName: "Budi", Rating: 5, Comment: "Pelayanan ramah", SentimentCategory: domain.SentimentPositive, SentimentScore: 0.9},
		{OutletID: 1, Rating: 2, Comment: "Obat kosong", SentimentCategory: domain.SentimentStockIssue, SentimentScore: 0.2},
	}, []int64{pending[0].ID, pending[1].ID})
	if err != nil {
		t.Fatalf("save sentiments: %v", err)
	}
	if saved[1].ID != 2 {
		t.Fatalf("unexpected ids: %+v", saved)
	}

	rest, err := s.PendingReviews(ctx, 50)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(rest) != 1 || rest[0].ReviewerName != "Sari" {
		t.Fatalf("expected only the third review pending, got %+v", rest)
	}
}

func TestSaveSentimentsRollsBackOnMarkFailure(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedInventory(t, s)
	mustExec(t, s, `INSERT INTO raw_reviews (outlet_id, reviewer_name, rating, comment) VALUES (1, 'Budi', 5, 'Pelayanan ramah')`)
	mustExec(t, s, `CREATE TRIGGER reject_review_update BEFORE UPDATE ON raw_reviews
		BEGIN SELECT RAISE(ABORT, 'raw_reviews is read-only'); END`)

	pending, err := s.PendingReviews(ctx, 10)
	if err != nil || len(pending) != 1 {
		t.Fatalf("pending: %+v, %v", pending, err)
	}

	_, err = s.SaveSentiments(ctx, []domain.ReviewSentiment{
		{OutletID: 1, ReviewerName: "Budi", Rating: 5, Comment: "Pelayanan ramah", SentimentCategory: domain.SentimentPositive, SentimentScore: 0.9},
	}, []int64{pending[0].ID})
	if err == nil {
		t.Fatal("expected mark processed failure")
	}

	n, err := s.Count(ctx, reviewSentimentsTable, Filter{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("sentiment rows survived a failed save: %d", n)
	}
	rest, err := s.PendingReviews(ctx, 10)
	if err != nil || len(rest) != 1 {
		t.Fatalf("review must stay pending, got %+v, %v", rest, err)
	}
}

func TestZStopCandidatesAndAlerts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedInventory(t, s)

	candidates, err := s.ZStopCandidates(ctx)
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %+v", candidates)
	}
	first := candidates[0]
	if first.OutletBranchCode != "AL-001" || first.ProductSKU != "PRD-002" || first.StockQty != 50 || first.SnapshotDate != "2026-10-16" {
		t.Fatalf("unexpected first candidate %+v", first)
	}

	n, err := s.InsertAlerts(ctx, []domain.SystemAlert{
		{AlertType: "Z-STOP", Severity: "CRITICAL", Message: "a"},
		{AlertType: "Z-STOP", Severity: "CRITICAL", Message: "b"},
		{AlertType: "LOW-STOCK", Severity: "WARNING", Message: "c"},
	})
	if err != nil || n != 3 {
		t.Fatalf("insert alerts: %d, %v", n, err)
	}
	mustExec(t, s, `UPDATE system_alerts SET is_resolved = 1 WHERE message = 'a'`)

	open, err := s.OpenAlerts(ctx, "Z-STOP")
	if err != nil {
		t.Fatalf("open alerts: %v", err)
	}
	if open != 1 {
		t.Fatalf("expected 1 open z-stop alert, got %d", open)
	}
}

func TestFilterLimitOffset(t *testing.T) {
	s := openTestStore(t)
	query, args, err := Filter{
		Where:  []sq.Sqlizer{sq.Eq{"processed_at": nil}, sq.Gt{"rating": 3}},
		Limit:  10,
		Offset: 20,
	}.apply(s.sql.Select("id").From(rawReviewsTable)).ToSql()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := "SELECT id FROM raw_reviews WHERE processed_at IS NULL AND rating > ? LIMIT 10 OFFSET 20"
	if query != want {
		t.Fatalf("query = %q, want %q", query, want)
	}
	if len(args) != 1 || args[0] != 3 {
		t.Fatalf("unexpected args %v", args)
	}
}
