package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book represents a fiscal-year scoped fund pool. At most one book is active
// system-wide; a closed book can never become active again.
type Book struct {
	BookID         string          `json:"bookID"`     // Primary Key (e.g., UUID)
	FiscalYear     int             `json:"fiscalYear"` // Unique across all books
	StartingAmount decimal.Decimal `json:"startingAmount"`
	IsActive       bool            `json:"isActive"`
	IsClosed       bool            `json:"isClosed"`
	ClosedAt       *time.Time      `json:"closedAt,omitempty"`
	AuditFields
}
