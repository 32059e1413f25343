package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AgentCashEntry is one agent's current cash-on-hand within a balance view.
type AgentCashEntry struct {
	AgentID    string          `json:"agentID"`
	CashOnHand decimal.Decimal `json:"cashOnHand"`
}

// BookBalancesResponse is the authoritative derived balance view for a book.
// All figures are recomputed from the full transaction set on every request.
type BookBalancesResponse struct {
	BookID         string           `json:"bookID"`
	FiscalYear     int              `json:"fiscalYear"`
	StartingAmount decimal.Decimal  `json:"startingAmount"`
	PoolBalance    decimal.Decimal  `json:"poolBalance"`
	SafeCash       decimal.Decimal  `json:"safeCash"`
	AgentCash      []AgentCashEntry `json:"agentCash"`
}

// BookReportParams defines the optional date range for an as-of report.
type BookReportParams struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// BookReportResponse is the monthly-report style view: balances recomputed
// over a date-filtered transaction window plus aggregate totals.
type BookReportResponse struct {
	BookBalancesResponse
	PeriodFrom    *time.Time      `json:"periodFrom,omitempty"`
	PeriodTo      *time.Time      `json:"periodTo,omitempty"`
	TotalIssued   decimal.Decimal `json:"totalIssued"`
	TotalSpent    decimal.Decimal `json:"totalSpent"`
	TotalReturned decimal.Decimal `json:"totalReturned"`
	TotalTopUps   decimal.Decimal `json:"totalTopUps"`
}
