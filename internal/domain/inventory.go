package domain

// ZStopCandidate is an inventory snapshot with stock on hand and no sales.
type ZStopCandidate struct {
	OutletBranchCode string
	OutletName       string
	Region           string
	ProductSKU       string
	ProductName      string
	Category         string
	StockQty         int
	SalesQty         int
	SnapshotDate     string
}

// SystemAlert is a row of system_alerts.
type SystemAlert struct {
	ID         int64
	AlertType  string
	Severity   string
	Message    string
	IsResolved bool
}

// ZStopReport summarises one Z-STOP scan.
type ZStopReport struct {
	RunID      string
	Candidates []ZStopCandidate
	Alerts     int
	OpenAlerts int
}
