package mapping

import (
	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	"github.com/taskforce-tools/op_funds_app/internal/models"
)

// ToModelBook converts a domain Book to a model Book
func ToModelBook(d domain.Book) models.Book {
	return models.Book{
		BookID:         d.BookID,
		FiscalYear:     d.FiscalYear,
		StartingAmount: d.StartingAmount,
		IsActive:       d.IsActive,
		IsClosed:       d.IsClosed,
		ClosedAt:       d.ClosedAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBook converts a model Book to a domain Book
func ToDomainBook(m models.Book) domain.Book {
	return domain.Book{
		BookID:         m.BookID,
		FiscalYear:     m.FiscalYear,
		StartingAmount: m.StartingAmount,
		IsActive:       m.IsActive,
		IsClosed:       m.IsClosed,
		ClosedAt:       m.ClosedAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBookSlice converts a slice of model Books to domain Books
func ToDomainBookSlice(ms []models.Book) []domain.Book {
	out := make([]domain.Book, len(ms))
	for i, m := range ms {
		out[i] = ToDomainBook(m)
	}
	return out
}
