package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book represents a fiscal-year fund pool row.
type Book struct {
	BookID         string          `db:"book_id"`
	FiscalYear     int             `db:"fiscal_year"` // Unique
	StartingAmount decimal.Decimal `db:"starting_amount"`
	IsActive       bool            `db:"is_active"`
	IsClosed       bool            `db:"is_closed"`
	ClosedAt       *time.Time      `db:"closed_at"` // Nullable
	AuditFields
}
