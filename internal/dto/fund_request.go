package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
)

// CreateFundRequestRequest defines the data for an agent's issuance petition.
type CreateFundRequestRequest struct {
	BookID       string          `json:"bookID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CaseNumber   string          `json:"caseNumber"`
	Purpose      string          `json:"purpose" binding:"required"`
	SignatureRef string          `json:"signatureRef"`
}

// ResubmitFundRequestRequest defines the editable fields for resubmitting a
// rejected fund request.
type ResubmitFundRequestRequest struct {
	Amount       *decimal.Decimal `json:"amount"`
	CaseNumber   *string          `json:"caseNumber"`
	Purpose      *string          `json:"purpose"`
	SignatureRef *string          `json:"signatureRef"`
}

// FundRequestResponse defines the data returned for a fund request.
type FundRequestResponse struct {
	FundRequestID string              `json:"fundRequestID"`
	AgentID       string              `json:"agentID"`
	BookID        string              `json:"bookID"`
	Amount        decimal.Decimal     `json:"amount"`
	CaseNumber    string              `json:"caseNumber,omitempty"`
	Purpose       string              `json:"purpose"`
	SignatureRef  string              `json:"signatureRef,omitempty"`
	Status        domain.RecordStatus `json:"status"`
	ReviewedBy    *string             `json:"reviewedBy,omitempty"`
	ReviewedAt    *time.Time          `json:"reviewedAt,omitempty"`
	RejectReason  string              `json:"rejectReason,omitempty"`
	TransactionID *string             `json:"transactionID,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
}

// ToFundRequestResponse converts a domain.FundRequest to its DTO
func ToFundRequestResponse(r *domain.FundRequest) FundRequestResponse {
	return FundRequestResponse{
		FundRequestID: r.FundRequestID,
		AgentID:       r.AgentID,
		BookID:        r.BookID,
		Amount:        r.Amount,
		CaseNumber:    r.CaseNumber,
		Purpose:       r.Purpose,
		SignatureRef:  r.SignatureRef,
		Status:        r.Status,
		ReviewedBy:    r.ReviewedBy,
		ReviewedAt:    r.ReviewedAt,
		RejectReason:  r.RejectReason,
		TransactionID: r.TransactionID,
		CreatedAt:     r.CreatedAt,
		LastUpdatedAt: r.LastUpdatedAt,
	}
}

// ToFundRequestResponses converts a slice of domain.FundRequest to DTOs
func ToFundRequestResponses(requests []domain.FundRequest) []FundRequestResponse {
	res := make([]FundRequestResponse, len(requests))
	for i := range requests {
		res[i] = ToFundRequestResponse(&requests[i])
	}
	return res
}

// ListFundRequestsParams defines query parameters for listing fund requests.
type ListFundRequestsParams struct {
	BookID    string  `form:"bookID" binding:"required"`
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
	AgentID   *string `form:"agentID"`
	Status    *string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
}

// ListFundRequestsResponse wraps a page of fund requests with its cursor.
type ListFundRequestsResponse struct {
	FundRequests []FundRequestResponse `json:"fundRequests"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
