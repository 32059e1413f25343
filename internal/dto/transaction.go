package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
)

// CreateTransactionRequest defines the data needed to record a fund movement.
// AgentID is only honored for admin-created issuances; non-admin callers
// always act as themselves.
type CreateTransactionRequest struct {
	BookID      string                 `json:"bookID" binding:"required"`
	Type        domain.TransactionType `json:"type" binding:"required,oneof=ISSUANCE SPENDING RETURN"`
	Amount      decimal.Decimal        `json:"amount" binding:"required"`
	Description string                 `json:"description" binding:"required"`
	Category    string                 `json:"category"`
	DocumentRef string                 `json:"documentRef"`
	AgentID     *string                `json:"agentID"`
}

// ResubmitTransactionRequest defines the editable fields for resubmitting a
// rejected transaction. Pointers distinguish "not provided" from zero values.
type ResubmitTransactionRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	DocumentRef *string          `json:"documentRef"`
}

// RejectRequest carries the rejection reason for any record kind.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// ApproveTransactionRequest carries optional review notes for an approval.
type ApproveTransactionRequest struct {
	ReviewNotes string `json:"reviewNotes"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string                 `json:"transactionID"`
	BookID        string                 `json:"bookID"`
	AgentID       *string                `json:"agentID,omitempty"`
	Type          domain.TransactionType `json:"type"`
	Tag           domain.TransactionTag  `json:"tag"`
	Amount        decimal.Decimal        `json:"amount"`
	Status        domain.RecordStatus    `json:"status"`
	ReceiptNo     string                 `json:"receiptNo"`
	Description   string                 `json:"description"`
	Category      string                 `json:"category,omitempty"`
	DocumentRef   string                 `json:"documentRef,omitempty"`
	ReviewNotes   string                 `json:"reviewNotes,omitempty"`
	ReviewedBy    *string                `json:"reviewedBy,omitempty"`
	ReviewedAt    *time.Time             `json:"reviewedAt,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	CreatedBy     string                 `json:"createdBy"`
	LastUpdatedAt time.Time              `json:"lastUpdatedAt"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		BookID:        t.BookID,
		AgentID:       t.AgentID,
		Type:          t.Type,
		Tag:           t.Tag,
		Amount:        t.Amount,
		Status:        t.Status,
		ReceiptNo:     t.ReceiptNo,
		Description:   t.Description,
		Category:      t.Category,
		DocumentRef:   t.DocumentRef,
		ReviewNotes:   t.ReviewNotes,
		ReviewedBy:    t.ReviewedBy,
		ReviewedAt:    t.ReviewedAt,
		CreatedAt:     t.CreatedAt,
		CreatedBy:     t.CreatedBy,
		LastUpdatedAt: t.LastUpdatedAt,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to DTOs
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
	AgentID   *string `form:"agentID"`
	Status    *string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Type      *string `form:"type" binding:"omitempty,oneof=ISSUANCE SPENDING RETURN"`
}

// ListTransactionsResponse wraps a page of transactions with its cursor.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
