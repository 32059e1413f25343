package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundRequest is an agent's petition for an issuance from the active book.
// Approval creates exactly one linked issuance Transaction; rejection records
// a reason and lets the agent edit-and-resubmit.
type FundRequest struct {
	FundRequestID string          `json:"fundRequestID"` // Primary Key (e.g., UUID)
	AgentID       string          `json:"agentID"`       // FK -> Agent.agentID (Not Null)
	BookID        string          `json:"bookID"`        // FK -> Book.bookID (Not Null)
	Amount        decimal.Decimal `json:"amount"`        // Strictly positive
	CaseNumber    string          `json:"caseNumber,omitempty"`
	Purpose       string          `json:"purpose"`
	SignatureRef  string          `json:"signatureRef,omitempty"` // Requester signature artifact
	Status        RecordStatus    `json:"status"`
	ReviewedBy    *string         `json:"reviewedBy,omitempty"`
	ReviewedAt    *time.Time      `json:"reviewedAt,omitempty"`
	RejectReason  string          `json:"rejectReason,omitempty"`
	TransactionID *string         `json:"transactionID,omitempty"` // Set only on approval
	AuditFields
}
