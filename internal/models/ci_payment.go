package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CIPayment represents a confidential-informant payment row.
type CIPayment struct {
	CIPaymentID  string          `db:"ci_payment_id"`
	AgentID      string          `db:"agent_id"`
	BookID       string          `db:"book_id"`
	Amount       decimal.Decimal `db:"amount"`
	CaseNumber   string          `db:"case_number"`
	Purpose      string          `db:"purpose"`
	InformantRef string          `db:"informant_ref"`

	PayerSignatureRef     string `db:"payer_signature_ref"`
	PayerPrintedName      string `db:"payer_printed_name"`
	InformantSignatureRef string `db:"informant_signature_ref"`
	InformantPrintedName  string `db:"informant_printed_name"`
	WitnessSignatureRef   string `db:"witness_signature_ref"`
	WitnessPrintedName    string `db:"witness_printed_name"`
	ApproverSignatureRef  string `db:"approver_signature_ref"`
	ApproverPrintedName   string `db:"approver_printed_name"`

	Status        RecordStatus `db:"status"`
	ReviewedBy    *string      `db:"reviewed_by"` // Nullable
	ReviewedAt    *time.Time   `db:"reviewed_at"` // Nullable
	RejectReason  string       `db:"reject_reason"`
	TransactionID *string      `db:"transaction_id"` // Nullable; set on approval
	AuditFields
}
