package mapping

import (
	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	"github.com/taskforce-tools/op_funds_app/internal/models"
)

// ToModelCIPayment converts a domain CIPayment to a model CIPayment
func ToModelCIPayment(d domain.CIPayment) models.CIPayment {
	return models.CIPayment{
		CIPaymentID:           d.CIPaymentID,
		AgentID:               d.AgentID,
		BookID:                d.BookID,
		Amount:                d.Amount,
		CaseNumber:            d.CaseNumber,
		Purpose:               d.Purpose,
		InformantRef:          d.InformantRef,
		PayerSignatureRef:     d.PayerSignatureRef,
		PayerPrintedName:      d.PayerPrintedName,
		InformantSignatureRef: d.InformantSignatureRef,
		InformantPrintedName:  d.InformantPrintedName,
		WitnessSignatureRef:   d.WitnessSignatureRef,
		WitnessPrintedName:    d.WitnessPrintedName,
		ApproverSignatureRef:  d.ApproverSignatureRef,
		ApproverPrintedName:   d.ApproverPrintedName,
		Status:                models.RecordStatus(d.Status),
		ReviewedBy:            d.ReviewedBy,
		ReviewedAt:            d.ReviewedAt,
		RejectReason:          d.RejectReason,
		TransactionID:         d.TransactionID,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCIPayment converts a model CIPayment to a domain CIPayment
func ToDomainCIPayment(m models.CIPayment) domain.CIPayment {
	return domain.CIPayment{
		CIPaymentID:           m.CIPaymentID,
		AgentID:               m.AgentID,
		BookID:                m.BookID,
		Amount:                m.Amount,
		CaseNumber:            m.CaseNumber,
		Purpose:               m.Purpose,
		InformantRef:          m.InformantRef,
		PayerSignatureRef:     m.PayerSignatureRef,
		PayerPrintedName:      m.PayerPrintedName,
		InformantSignatureRef: m.InformantSignatureRef,
		InformantPrintedName:  m.InformantPrintedName,
		WitnessSignatureRef:   m.WitnessSignatureRef,
		WitnessPrintedName:    m.WitnessPrintedName,
		ApproverSignatureRef:  m.ApproverSignatureRef,
		ApproverPrintedName:   m.ApproverPrintedName,
		Status:                domain.RecordStatus(m.Status),
		ReviewedBy:            m.ReviewedBy,
		ReviewedAt:            m.ReviewedAt,
		RejectReason:          m.RejectReason,
		TransactionID:         m.TransactionID,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCIPaymentSlice converts a slice of model CIPayments to domain CIPayments
func ToDomainCIPaymentSlice(ms []models.CIPayment) []domain.CIPayment {
	out := make([]domain.CIPayment, len(ms))
	for i, m := range ms {
		out[i] = ToDomainCIPayment(m)
	}
	return out
}
