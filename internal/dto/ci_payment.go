package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
)

// CreateCIPaymentRequest defines the data for a confidential-informant
// payment. Signature refs are opaque blob store references captured by the
// client at signing time.
type CreateCIPaymentRequest struct {
	BookID       string          `json:"bookID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CaseNumber   string          `json:"caseNumber"`
	Purpose      string          `json:"purpose" binding:"required"`
	InformantRef string          `json:"informantRef" binding:"required"`

	PayerSignatureRef     string `json:"payerSignatureRef" binding:"required"`
	PayerPrintedName      string `json:"payerPrintedName" binding:"required"`
	InformantSignatureRef string `json:"informantSignatureRef" binding:"required"`
	InformantPrintedName  string `json:"informantPrintedName" binding:"required"`
	WitnessSignatureRef   string `json:"witnessSignatureRef"`
	WitnessPrintedName    string `json:"witnessPrintedName"`
}

// ApproveCIPaymentRequest carries the commander approval signature. Approval
// is invalid without it.
type ApproveCIPaymentRequest struct {
	ApproverSignatureRef string `json:"approverSignatureRef" binding:"required"`
	ApproverPrintedName  string `json:"approverPrintedName" binding:"required"`
}

// ResubmitCIPaymentRequest defines the editable fields for resubmitting a
// rejected CI payment.
type ResubmitCIPaymentRequest struct {
	Amount                *decimal.Decimal `json:"amount"`
	CaseNumber            *string          `json:"caseNumber"`
	Purpose               *string          `json:"purpose"`
	InformantRef          *string          `json:"informantRef"`
	PayerSignatureRef     *string          `json:"payerSignatureRef"`
	PayerPrintedName      *string          `json:"payerPrintedName"`
	InformantSignatureRef *string          `json:"informantSignatureRef"`
	InformantPrintedName  *string          `json:"informantPrintedName"`
	WitnessSignatureRef   *string          `json:"witnessSignatureRef"`
	WitnessPrintedName    *string          `json:"witnessPrintedName"`
}

// CIPaymentResponse defines the data returned for a CI payment.
type CIPaymentResponse struct {
	CIPaymentID  string          `json:"ciPaymentID"`
	AgentID      string          `json:"agentID"`
	BookID       string          `json:"bookID"`
	Amount       decimal.Decimal `json:"amount"`
	CaseNumber   string          `json:"caseNumber,omitempty"`
	Purpose      string          `json:"purpose"`
	InformantRef string          `json:"informantRef"`

	PayerSignatureRef     string `json:"payerSignatureRef,omitempty"`
	PayerPrintedName      string `json:"payerPrintedName,omitempty"`
	InformantSignatureRef string `json:"informantSignatureRef,omitempty"`
	InformantPrintedName  string `json:"informantPrintedName,omitempty"`
	WitnessSignatureRef   string `json:"witnessSignatureRef,omitempty"`
	WitnessPrintedName    string `json:"witnessPrintedName,omitempty"`
	ApproverSignatureRef  string `json:"approverSignatureRef,omitempty"`
	ApproverPrintedName   string `json:"approverPrintedName,omitempty"`

	Status        domain.RecordStatus `json:"status"`
	ReviewedBy    *string             `json:"reviewedBy,omitempty"`
	ReviewedAt    *time.Time          `json:"reviewedAt,omitempty"`
	RejectReason  string              `json:"rejectReason,omitempty"`
	TransactionID *string             `json:"transactionID,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
}

// ToCIPaymentResponse converts a domain.CIPayment to its DTO
func ToCIPaymentResponse(p *domain.CIPayment) CIPaymentResponse {
	return CIPaymentResponse{
		CIPaymentID:           p.CIPaymentID,
		AgentID:               p.AgentID,
		BookID:                p.BookID,
		Amount:                p.Amount,
		CaseNumber:            p.CaseNumber,
		Purpose:               p.Purpose,
		InformantRef:          p.InformantRef,
		PayerSignatureRef:     p.PayerSignatureRef,
		PayerPrintedName:      p.PayerPrintedName,
		InformantSignatureRef: p.InformantSignatureRef,
		InformantPrintedName:  p.InformantPrintedName,
		WitnessSignatureRef:   p.WitnessSignatureRef,
		WitnessPrintedName:    p.WitnessPrintedName,
		ApproverSignatureRef:  p.ApproverSignatureRef,
		ApproverPrintedName:   p.ApproverPrintedName,
		Status:                p.Status,
		ReviewedBy:            p.ReviewedBy,
		ReviewedAt:            p.ReviewedAt,
		RejectReason:          p.RejectReason,
		TransactionID:         p.TransactionID,
		CreatedAt:             p.CreatedAt,
		LastUpdatedAt:         p.LastUpdatedAt,
	}
}

// ToCIPaymentResponses converts a slice of domain.CIPayment to DTOs
func ToCIPaymentResponses(payments []domain.CIPayment) []CIPaymentResponse {
	res := make([]CIPaymentResponse, len(payments))
	for i := range payments {
		res[i] = ToCIPaymentResponse(&payments[i])
	}
	return res
}

// ListCIPaymentsParams defines query parameters for listing CI payments.
type ListCIPaymentsParams struct {
	BookID    string  `form:"bookID" binding:"required"`
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
	AgentID   *string `form:"agentID"`
	Status    *string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
}

// ListCIPaymentsResponse wraps a page of CI payments with its cursor.
type ListCIPaymentsResponse struct {
	CIPayments []CIPaymentResponse `json:"ciPayments"`
	NextToken  *string             `json:"nextToken,omitempty"`
}
