package repositories

import (
	"context"
	"time"

	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
)

// CIPaymentReader defines read operations for CI payment data
type CIPaymentReader interface {
	// FindCIPaymentByID retrieves a specific CI payment by its unique identifier.
	FindCIPaymentByID(ctx context.Context, ciPaymentID string) (*domain.CIPayment, error)

	// ListCIPayments retrieves a filtered, token-paginated page of CI
	// payments for a book, newest first.
	ListCIPayments(ctx context.Context, bookID string, filter ApprovalFilter, limit int, nextToken *string) ([]domain.CIPayment, *string, error)
}

// CIPaymentWriter defines write operations for CI payment data
type CIPaymentWriter interface {
	// SaveCIPayment persists a new CI payment.
	SaveCIPayment(ctx context.Context, payment domain.CIPayment) error

	// ApproveCIPayment performs the approval transition atomically: status
	// PENDING -> APPROVED via conditional update, approver signature stored,
	// linked spending transaction inserted and linkage stamped, all in one
	// database transaction.
	ApproveCIPayment(ctx context.Context, ciPaymentID string, reviewerID string, approverSignatureRef string, approverPrintedName string, linkedTxn domain.Transaction, reviewedAt time.Time) error

	// RejectCIPaymentIfPending moves the status PENDING -> REJECTED via a
	// conditional update, records the reason and clears any previously
	// captured approver signature.
	RejectCIPaymentIfPending(ctx context.Context, ciPaymentID string, reviewerID string, reason string, reviewedAt time.Time) error

	// ResubmitCIPaymentIfRejected rewrites an edited payment back to
	// PENDING, clearing reviewer, reason, approver signature and linked
	// transaction, guarded on the current status being REJECTED.
	ResubmitCIPaymentIfRejected(ctx context.Context, payment domain.CIPayment) error

	// DeleteCIPaymentIfNotApproved deletes the row unless it is APPROVED.
	DeleteCIPaymentIfNotApproved(ctx context.Context, ciPaymentID string) error
}

// CIPaymentRepositoryFacade combines all CI-payment repository interfaces
type CIPaymentRepositoryFacade interface {
	CIPaymentReader
	CIPaymentWriter
}
