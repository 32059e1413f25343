package repositories

import (
	"context"
	"time"

	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
)

// TransactionFilter narrows transaction listings. Nil fields are ignored.
type TransactionFilter struct {
	AgentID *string
	Status  *domain.RecordStatus
	Type    *domain.TransactionType
}

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionsByBookID retrieves the full transaction set for a book.
	// This is the record set the ledger computation folds over.
	FindTransactionsByBookID(ctx context.Context, bookID string) ([]domain.Transaction, error)

	// ListTransactions retrieves a filtered, token-paginated page of
	// transactions for a book, newest first.
	ListTransactions(ctx context.Context, bookID string, filter TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// ReceiptNoExists reports whether a receipt number is already taken.
	ReceiptNoExists(ctx context.Context, receiptNo string) (bool, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// SaveTransaction persists a new transaction.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransactionStatusIfPending performs the atomic conditional status
	// transition: the row is updated only while its status is still PENDING.
	// Returns apperrors.ErrConflict when the row exists but has already been
	// processed, apperrors.ErrNotFound when it does not exist.
	UpdateTransactionStatusIfPending(ctx context.Context, transactionID string, status domain.RecordStatus, reviewerID string, reviewNotes string, reviewedAt time.Time) error

	// ResubmitTransactionIfRejected rewrites an edited transaction back to
	// PENDING, guarded on the current status being REJECTED. Reviewer fields
	// are cleared. Returns apperrors.ErrConflict when the guard fails.
	ResubmitTransactionIfRejected(ctx context.Context, txn domain.Transaction) error

	// DeleteTransactionIfNotApproved deletes the row unless it is APPROVED.
	// Returns apperrors.ErrConflict when the row exists but is approved.
	DeleteTransactionIfNotApproved(ctx context.Context, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
