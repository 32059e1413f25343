package mapping

import (
	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	"github.com/taskforce-tools/op_funds_app/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		BookID:        d.BookID,
		AgentID:       d.AgentID,
		Type:          models.TransactionType(d.Type),
		Tag:           string(d.Tag),
		Amount:        d.Amount,
		Status:        models.RecordStatus(d.Status),
		ReceiptNo:     d.ReceiptNo,
		Description:   d.Description,
		Category:      d.Category,
		DocumentRef:   d.DocumentRef,
		ReviewNotes:   d.ReviewNotes,
		ReviewedBy:    d.ReviewedBy,
		ReviewedAt:    d.ReviewedAt,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		BookID:        m.BookID,
		AgentID:       m.AgentID,
		Type:          domain.TransactionType(m.Type),
		Tag:           domain.TransactionTag(m.Tag),
		Amount:        m.Amount,
		Status:        domain.RecordStatus(m.Status),
		ReceiptNo:     m.ReceiptNo,
		Description:   m.Description,
		Category:      m.Category,
		DocumentRef:   m.DocumentRef,
		ReviewNotes:   m.ReviewNotes,
		ReviewedBy:    m.ReviewedBy,
		ReviewedAt:    m.ReviewedAt,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		out[i] = ToDomainTransaction(m)
	}
	return out
}
