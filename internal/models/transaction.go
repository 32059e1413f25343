package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates the direction of a fund movement.
type TransactionType string

const (
	Issuance TransactionType = "ISSUANCE"
	Spending TransactionType = "SPENDING"
	Return   TransactionType = "RETURN"
)

// RecordStatus is the shared approval lifecycle status column.
type RecordStatus string

const (
	StatusPending  RecordStatus = "PENDING"
	StatusApproved RecordStatus = "APPROVED"
	StatusRejected RecordStatus = "REJECTED"
)

// Transaction represents a fund movement row within a book.
// Note: Amount uses a precise decimal type via github.com/shopspring/decimal.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	BookID        string          `db:"book_id"`
	AgentID       *string         `db:"agent_id"` // Nullable; nil = pool-level movement
	Type          TransactionType `db:"type"`
	Tag           string          `db:"tag"`
	Amount        decimal.Decimal `db:"amount"`
	Status        RecordStatus    `db:"status"`
	ReceiptNo     string          `db:"receipt_no"` // Unique
	Description   string          `db:"description"`
	Category      string          `db:"category"`
	DocumentRef   string          `db:"document_ref"`
	ReviewNotes   string          `db:"review_notes"`
	ReviewedBy    *string         `db:"reviewed_by"` // Nullable
	ReviewedAt    *time.Time      `db:"reviewed_at"` // Nullable
	AuditFields
}
