package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates the direction of a fund movement. The sign of the
// movement is implied by the type; Amount is always strictly positive.
type TransactionType string

const (
	// Issuance moves cash from the pool to an agent, or into the pool itself
	// when AgentID is nil (initial funding, top-up).
	Issuance TransactionType = "ISSUANCE"
	// Spending is cash leaving custody entirely.
	Spending TransactionType = "SPENDING"
	// Return moves cash from an agent's hand back into the pool's safe.
	Return TransactionType = "RETURN"
)

// TransactionTag distinguishes pool funding events from regular movements.
// It replaces the old convention of matching on description text.
type TransactionTag string

const (
	TagRegular        TransactionTag = "REGULAR"
	TagInitialFunding TransactionTag = "INITIAL_FUNDING"
	TagTopUp          TransactionTag = "TOP_UP"
)

// Transaction represents a single approved or pending movement of funds
// within a book. AgentID is nil for pool-level movements.
type Transaction struct {
	TransactionID string          `json:"transactionID"` // Primary Key (e.g., UUID)
	BookID        string          `json:"bookID"`        // FK -> Book.bookID (Not Null)
	AgentID       *string         `json:"agentID"`       // Nullable FK -> Agent.agentID; nil = pool-level
	Type          TransactionType `json:"type"`
	Tag           TransactionTag  `json:"tag"`
	Amount        decimal.Decimal `json:"amount"` // Strictly positive
	Status        RecordStatus    `json:"status"`
	ReceiptNo     string          `json:"receiptNo"` // Unique, allocated on creation
	Description   string          `json:"description"`
	Category      string          `json:"category"`              // Free-form spending category
	DocumentRef   string          `json:"documentRef,omitempty"` // Opaque blob store reference
	ReviewNotes   string          `json:"reviewNotes,omitempty"`
	ReviewedBy    *string         `json:"reviewedBy,omitempty"`
	ReviewedAt    *time.Time      `json:"reviewedAt,omitempty"`
	AuditFields
}

// IsPoolLevel reports whether the transaction is a pool-level movement
// (initial funding or top-up) rather than an agent movement.
func (t Transaction) IsPoolLevel() bool {
	return t.AgentID == nil
}
