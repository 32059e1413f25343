package services

import (
	"context"
	"fmt"

	"github.com/taskforce-tools/op_funds_app/internal/apperrors"
	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	portsrepo "github.com/taskforce-tools/op_funds_app/internal/core/ports/repositories"
	"github.com/taskforce-tools/op_funds_app/internal/utils"
)

const (
	receiptTokenLength   = 6
	receiptAllocAttempts = 5
)

// ReceiptAllocator hands out human-readable receipt numbers that are unique
// across the whole system, not just within a book.
type ReceiptAllocator interface {
	Allocate(ctx context.Context, txnType domain.TransactionType, tag domain.TransactionTag, fiscalYear int) (string, error)
}

type receiptAllocator struct {
	txnRepo portsrepo.TransactionReader
}

var _ ReceiptAllocator = (*receiptAllocator)(nil)

// NewReceiptAllocator creates a receipt allocator backed by the transaction store.
func NewReceiptAllocator(txnRepo portsrepo.TransactionReader) ReceiptAllocator {
	return &receiptAllocator{txnRepo: txnRepo}
}

// Allocate builds a receipt number of the form PREFIX-YEAR-TOKEN, e.g.
// "EXP-2026-7KQ4MC", and retries on the rare token collision. The tag takes
// precedence over the transaction type when choosing the prefix so that
// seeding and top-up issuances are distinguishable at a glance.
func (a *receiptAllocator) Allocate(ctx context.Context, txnType domain.TransactionType, tag domain.TransactionTag, fiscalYear int) (string, error) {
	prefix := receiptPrefix(txnType, tag)

	for attempt := 0; attempt < receiptAllocAttempts; attempt++ {
		token, err := utils.GenerateReceiptToken(receiptTokenLength)
		if err != nil {
			return "", fmt.Errorf("%w: generating receipt token: %v", apperrors.ErrInternal, err)
		}
		receiptNo := fmt.Sprintf("%s-%d-%s", prefix, fiscalYear, token)

		exists, err := a.txnRepo.ReceiptNoExists(ctx, receiptNo)
		if err != nil {
			return "", err
		}
		if !exists {
			return receiptNo, nil
		}
	}
	return "", fmt.Errorf("%w: could not allocate a unique receipt number after %d attempts", apperrors.ErrInternal, receiptAllocAttempts)
}

func receiptPrefix(txnType domain.TransactionType, tag domain.TransactionTag) string {
	switch tag {
	case domain.TagInitialFunding:
		return "INI"
	case domain.TagTopUp:
		return "TOP"
	}
	switch txnType {
	case domain.Issuance:
		return "ISS"
	case domain.Spending:
		return "EXP"
	case domain.Return:
		return "RET"
	default:
		return "TXN"
	}
}
