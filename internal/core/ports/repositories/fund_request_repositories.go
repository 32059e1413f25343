package repositories

import (
	"context"
	"time"

	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
)

// ApprovalFilter narrows fund request and CI payment listings. Nil fields
// are ignored.
type ApprovalFilter struct {
	AgentID *string
	Status  *domain.RecordStatus
}

// FundRequestReader defines read operations for fund request data
type FundRequestReader interface {
	// FindFundRequestByID retrieves a specific fund request by its unique identifier.
	FindFundRequestByID(ctx context.Context, fundRequestID string) (*domain.FundRequest, error)

	// ListFundRequests retrieves a filtered, token-paginated page of fund
	// requests for a book, newest first.
	ListFundRequests(ctx context.Context, bookID string, filter ApprovalFilter, limit int, nextToken *string) ([]domain.FundRequest, *string, error)
}

// FundRequestWriter defines write operations for fund request data
type FundRequestWriter interface {
	// SaveFundRequest persists a new fund request.
	SaveFundRequest(ctx context.Context, request domain.FundRequest) error

	// ApproveFundRequest performs the approval transition atomically: the
	// status moves PENDING -> APPROVED guarded by a conditional update, the
	// linked issuance transaction is inserted, and the linkage id is stamped
	// on the request, all within one database transaction. A retried
	// approval therefore fails with apperrors.ErrConflict and cannot create
	// a duplicate transaction.
	ApproveFundRequest(ctx context.Context, fundRequestID string, reviewerID string, linkedTxn domain.Transaction, reviewedAt time.Time) error

	// RejectFundRequestIfPending moves the status PENDING -> REJECTED via a
	// conditional update and records the reason.
	RejectFundRequestIfPending(ctx context.Context, fundRequestID string, reviewerID string, reason string, reviewedAt time.Time) error

	// ResubmitFundRequestIfRejected rewrites an edited request back to
	// PENDING, clearing reviewer, reason and linked transaction, guarded on
	// the current status being REJECTED.
	ResubmitFundRequestIfRejected(ctx context.Context, request domain.FundRequest) error

	// DeleteFundRequestIfNotApproved deletes the row unless it is APPROVED.
	DeleteFundRequestIfNotApproved(ctx context.Context, fundRequestID string) error
}

// FundRequestRepositoryFacade combines all fund-request repository interfaces
type FundRequestRepositoryFacade interface {
	FundRequestReader
	FundRequestWriter
}
