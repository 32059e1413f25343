package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundRequest represents an agent's issuance petition row.
type FundRequest struct {
	FundRequestID string          `db:"fund_request_id"`
	AgentID       string          `db:"agent_id"`
	BookID        string          `db:"book_id"`
	Amount        decimal.Decimal `db:"amount"`
	CaseNumber    string          `db:"case_number"`
	Purpose       string          `db:"purpose"`
	SignatureRef  string          `db:"signature_ref"`
	Status        RecordStatus    `db:"status"`
	ReviewedBy    *string         `db:"reviewed_by"`    // Nullable
	ReviewedAt    *time.Time      `db:"reviewed_at"`    // Nullable
	RejectReason  string          `db:"reject_reason"`  // Empty unless rejected
	TransactionID *string         `db:"transaction_id"` // Nullable; set on approval
	AuditFields
}
