package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CIPayment is a spending record paid to a confidential informant. It carries
// multi-party signature artifacts and requires a commander approval signature
// before the linked spending Transaction is created.
type CIPayment struct {
	CIPaymentID  string          `json:"ciPaymentID"` // Primary Key (e.g., UUID)
	AgentID      string          `json:"agentID"`     // Paying agent, FK -> Agent.agentID
	BookID       string          `json:"bookID"`      // FK -> Book.bookID (Not Null)
	Amount       decimal.Decimal `json:"amount"`      // Strictly positive
	CaseNumber   string          `json:"caseNumber,omitempty"`
	Purpose      string          `json:"purpose"`
	InformantRef string          `json:"informantRef"` // Informant code name or registry id

	// Signature artifacts are opaque blob store references plus printed names.
	PayerSignatureRef     string `json:"payerSignatureRef,omitempty"`
	PayerPrintedName      string `json:"payerPrintedName,omitempty"`
	InformantSignatureRef string `json:"informantSignatureRef,omitempty"`
	InformantPrintedName  string `json:"informantPrintedName,omitempty"`
	WitnessSignatureRef   string `json:"witnessSignatureRef,omitempty"`
	WitnessPrintedName    string `json:"witnessPrintedName,omitempty"`
	ApproverSignatureRef  string `json:"approverSignatureRef,omitempty"` // Captured on approval, cleared on rejection
	ApproverPrintedName   string `json:"approverPrintedName,omitempty"`

	Status        RecordStatus `json:"status"`
	ReviewedBy    *string      `json:"reviewedBy,omitempty"`
	ReviewedAt    *time.Time   `json:"reviewedAt,omitempty"`
	RejectReason  string       `json:"rejectReason,omitempty"`
	TransactionID *string      `json:"transactionID,omitempty"` // Set only on approval
	AuditFields
}
