package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"MarketRadar/internal/domain"
	"MarketRadar/internal/ports"
)

const systemAlertsTable = "system_alerts"

var _ ports.InventoryRepository = (*Store)(nil)

// ZStopCandidates lists snapshots with stock on hand and no sales, joined to
// their outlet and product.
func (s *Store) ZStopCandidates(ctx context.Context) ([]domain.ZStopCandidate, error) {
	query, args, err := s.sql.
		Select("o.branch_code", "o.name", "COALESCE(o.region, '')",
			"p.sku", "p.name", "COALESCE(p.category, '')",
			"s.stock_qty", "s.sales_qty", "s.snapshot_date").
		From("daily_inventory_snapshots s").
		Join("outlets o ON o.id = s.outlet_id").
		Join("products p ON p.id = s.product_id").
		Where(sq.Gt{"s.stock_qty": 0}).
		Where(sq.Eq{"s.sales_qty": 0}).
		OrderBy("o.branch_code", "p.sku").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build z-stop query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query z-stop candidates: %w", err)
	}
	defer rows.Close()

	var out []domain.ZStopCandidate
	for rows.Next() {
		var c domain.ZStopCandidate
		if err := rows.Scan(&c.OutletBranchCode, &c.OutletName, &c.Region,
			&c.ProductSKU, &c.ProductName, &c.Category,
			&c.StockQty, &c.SalesQty, &c.SnapshotDate); err != nil {
			return nil, fmt.Errorf("scan z-stop candidate: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

// InsertAlerts writes all alerts in one statement and returns the row count.
func (s *Store) InsertAlerts(ctx context.Context, alerts []domain.SystemAlert) (int, error) {
	if len(alerts) == 0 {
		return 0, nil
	}

	insert := s.sql.Insert(systemAlertsTable).
		Columns("alert_type", "severity", "message", "is_resolved")
	for _, a := range alerts {
		insert = insert.Values(a.AlertType, a.Severity, a.Message, a.IsResolved)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert %s: %w", systemAlertsTable, err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", systemAlertsTable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return len(alerts), nil
	}
	return int(n), nil
}

// OpenAlerts counts unresolved alerts of the given type.
func (s *Store) OpenAlerts(ctx context.Context, alertType string) (int, error) {
	return s.Count(ctx, systemAlertsTable, Filter{Where: []sq.Sqlizer{
		sq.Eq{"alert_type": alertType},
		sq.Eq{"is_resolved": false},
	}})
}
