package mapping

import (
	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	"github.com/taskforce-tools/op_funds_app/internal/models"
)

// ToModelFundRequest converts a domain FundRequest to a model FundRequest
func ToModelFundRequest(d domain.FundRequest) models.FundRequest {
	return models.FundRequest{
		FundRequestID: d.FundRequestID,
		AgentID:       d.AgentID,
		BookID:        d.BookID,
		Amount:        d.Amount,
		CaseNumber:    d.CaseNumber,
		Purpose:       d.Purpose,
		SignatureRef:  d.SignatureRef,
		Status:        models.RecordStatus(d.Status),
		ReviewedBy:    d.ReviewedBy,
		ReviewedAt:    d.ReviewedAt,
		RejectReason:  d.RejectReason,
		TransactionID: d.TransactionID,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFundRequest converts a model FundRequest to a domain FundRequest
func ToDomainFundRequest(m models.FundRequest) domain.FundRequest {
	return domain.FundRequest{
		FundRequestID: m.FundRequestID,
		AgentID:       m.AgentID,
		BookID:        m.BookID,
		Amount:        m.Amount,
		CaseNumber:    m.CaseNumber,
		Purpose:       m.Purpose,
		SignatureRef:  m.SignatureRef,
		Status:        domain.RecordStatus(m.Status),
		ReviewedBy:    m.ReviewedBy,
		ReviewedAt:    m.ReviewedAt,
		RejectReason:  m.RejectReason,
		TransactionID: m.TransactionID,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainFundRequestSlice converts a slice of model FundRequests to domain FundRequests
func ToDomainFundRequestSlice(ms []models.FundRequest) []domain.FundRequest {
	out := make([]domain.FundRequest, len(ms))
	for i, m := range ms {
		out[i] = ToDomainFundRequest(m)
	}
	return out
}
