package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// StageSliceResponse is one pipeline stage in the sales section
type StageSliceResponse struct {
	Stage  string          `json:"stage"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// SalesSection summarizes the deal pipeline
type SalesSection struct {
	Stages    []StageSliceResponse `json:"stages"`
	OpenCount int64                `json:"open_count"`
	OpenValue decimal.Decimal      `json:"open_value"`
	WonCount  int64                `json:"won_count"`
	WonValue  decimal.Decimal      `json:"won_value"`
}

// FinanceSection summarizes receivables
type FinanceSection struct {
	OutstandingCount  int64           `json:"outstanding_count"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	OverdueCount      int64           `json:"overdue_count"`
	OverdueAmount     decimal.Decimal `json:"overdue_amount"`
}

// HRSection summarizes the workforce
type HRSection struct {
	Headcount     int64 `json:"headcount"`
	OnLeave       int64 `json:"on_leave"`
	PendingLeaves int64 `json:"pending_leaves"`
}

// ProjectSection summarizes open work
type ProjectSection struct {
	Todo       int64 `json:"todo"`
	InProgress int64 `json:"in_progress"`
	Review     int64 `json:"review"`
	OpenTotal  int64 `json:"open_total"`
}

// AlertSection summarizes operational alerts
type AlertSection struct {
	OpenAlerts int64 `json:"open_alerts"`
}

// DashboardResponse is the cross-module tenant dashboard
type DashboardResponse struct {
	Sales       SalesSection   `json:"sales"`
	Finance     FinanceSection `json:"finance"`
	HR          HRSection      `json:"hr"`
	Projects    ProjectSection `json:"projects"`
	Alerts      AlertSection   `json:"alerts"`
	GeneratedAt time.Time      `json:"generated_at"`
}
