package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskforce-tools/op_funds_app/internal/apperrors"
	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	portsrepo "github.com/taskforce-tools/op_funds_app/internal/core/ports/repositories"
	"github.com/taskforce-tools/op_funds_app/internal/models"
	"github.com/taskforce-tools/op_funds_app/internal/utils/mapping"
	"github.com/taskforce-tools/op_funds_app/internal/utils/pagination"
)

type PgxFundRequestRepository struct {
	BaseRepository
}

// newPgxFundRequestRepository creates a new repository for fund request data.
func newPgxFundRequestRepository(pool *pgxpool.Pool) portsrepo.FundRequestRepositoryFacade {
	return &PgxFundRequestRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.FundRequestRepositoryFacade = (*PgxFundRequestRepository)(nil)

var FULL_FUND_REQUEST_SELECT_QUERY = `
SELECT
	f.fund_request_id, f.agent_id, f.book_id, f.amount, f.case_number, f.purpose,
	f.signature_ref, f.status, f.reviewed_by, f.reviewed_at, f.reject_reason, f.transaction_id,
	f.created_at, f.created_by, f.last_updated_at, f.last_updated_by
FROM fund_requests f
`

func (r *PgxFundRequestRepository) getFundRequests(ctx context.Context, filterQuery string, args ...any) ([]domain.FundRequest, error) {
	query := FULL_FUND_REQUEST_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query fund requests", err)
	}
	defer rows.Close()
	modelRequests, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.FundRequest])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.FundRequest{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect fund request rows", err)
	}
	return mapping.ToDomainFundRequestSlice(modelRequests), nil
}

func (r *PgxFundRequestRepository) FindFundRequestByID(ctx context.Context, fundRequestID string) (*domain.FundRequest, error) {
	requests, err := r.getFundRequests(ctx, `WHERE f.fund_request_id = $1`, fundRequestID)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &requests[0], nil
}

func (r *PgxFundRequestRepository) ListFundRequests(ctx context.Context, bookID string, filter portsrepo.ApprovalFilter, limit int, nextToken *string) ([]domain.FundRequest, *string, error) {
	filterQuery := `WHERE f.book_id = $1`
	args := []any{bookID}

	if filter.AgentID != nil {
		args = append(args, *filter.AgentID)
		filterQuery += ` AND f.agent_id = $` + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		filterQuery += ` AND f.status = $` + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		cursorTime, cursorID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursorTime, cursorID)
		n := len(args)
		filterQuery += fmt.Sprintf(` AND (f.created_at, f.fund_request_id) < ($%d, $%d)`, n-1, n)
	}

	args = append(args, limit+1)
	filterQuery += fmt.Sprintf(` ORDER BY f.created_at DESC, f.fund_request_id DESC LIMIT $%d`, len(args))

	requests, err := r.getFundRequests(ctx, filterQuery, args...)
	if err != nil {
		return nil, nil, err
	}

	var newToken *string
	if len(requests) > limit {
		requests = requests[:limit]
		last := requests[len(requests)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.FundRequestID)
		newToken = &token
	}
	return requests, newToken, nil
}

func (r *PgxFundRequestRepository) SaveFundRequest(ctx context.Context, request domain.FundRequest) error {
	model := mapping.ToModelFundRequest(request)
	query := `
		INSERT INTO fund_requests (
			fund_request_id, agent_id, book_id, amount, case_number, purpose,
			signature_ref, status, reviewed_by, reviewed_at, reject_reason, transaction_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.FundRequestID,
		model.AgentID,
		model.BookID,
		model.Amount,
		model.CaseNumber,
		model.Purpose,
		model.SignatureRef,
		model.Status,
		model.ReviewedBy,
		model.ReviewedAt,
		model.RejectReason,
		model.TransactionID,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save fund request "+request.FundRequestID, err)
	}
	return nil
}

// ApproveFundRequest runs the whole approval as one database transaction: the
// guarded status flip, the linked issuance insert, and the linkage stamp. A
// replayed approval loses the guard and leaves no second transaction behind.
func (r *PgxFundRequestRepository) ApproveFundRequest(ctx context.Context, fundRequestID string, reviewerID string, linkedTxn domain.Transaction, reviewedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction for fund request approval", err)
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE fund_requests
		SET status = 'APPROVED', reviewed_by = $2, reviewed_at = $3, reject_reason = '',
		    last_updated_at = $3, last_updated_by = $2
		WHERE fund_request_id = $1 AND status = 'PENDING';
	`
	cmdTag, err := tx.Exec(ctx, query, fundRequestID, reviewerID, reviewedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to approve fund request "+fundRequestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyGuardFailure(ctx, fundRequestID)
	}

	if err := insertTransactionTx(ctx, tx, mapping.ToModelTransaction(linkedTxn)); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `UPDATE fund_requests SET transaction_id = $2 WHERE fund_request_id = $1;`, fundRequestID, linkedTxn.TransactionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to link transaction to fund request "+fundRequestID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit fund request approval", err)
	}
	return nil
}

func (r *PgxFundRequestRepository) RejectFundRequestIfPending(ctx context.Context, fundRequestID string, reviewerID string, reason string, reviewedAt time.Time) error {
	query := `
		UPDATE fund_requests
		SET status = 'REJECTED', reviewed_by = $2, reviewed_at = $3, reject_reason = $4,
		    last_updated_at = $3, last_updated_by = $2
		WHERE fund_request_id = $1 AND status = 'PENDING';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, fundRequestID, reviewerID, reviewedAt, reason)
	if err != nil {
		return apperrors.NewAppError(500, "failed to reject fund request "+fundRequestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyGuardFailure(ctx, fundRequestID)
	}
	return nil
}

func (r *PgxFundRequestRepository) ResubmitFundRequestIfRejected(ctx context.Context, request domain.FundRequest) error {
	model := mapping.ToModelFundRequest(request)
	query := `
		UPDATE fund_requests
		SET amount = $2, case_number = $3, purpose = $4, signature_ref = $5,
		    status = 'PENDING', reviewed_by = NULL, reviewed_at = NULL, reject_reason = '', transaction_id = NULL,
		    last_updated_at = $6, last_updated_by = $7
		WHERE fund_request_id = $1 AND status = 'REJECTED';
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		model.FundRequestID,
		model.Amount,
		model.CaseNumber,
		model.Purpose,
		model.SignatureRef,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to resubmit fund request "+request.FundRequestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyGuardFailure(ctx, request.FundRequestID)
	}
	return nil
}

func (r *PgxFundRequestRepository) DeleteFundRequestIfNotApproved(ctx context.Context, fundRequestID string) error {
	query := `DELETE FROM fund_requests WHERE fund_request_id = $1 AND status <> 'APPROVED';`
	cmdTag, err := r.Pool.Exec(ctx, query, fundRequestID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete fund request "+fundRequestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyGuardFailure(ctx, fundRequestID)
	}
	return nil
}

func (r *PgxFundRequestRepository) classifyGuardFailure(ctx context.Context, fundRequestID string) error {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM fund_requests WHERE fund_request_id = $1)`, fundRequestID).Scan(&exists)
	if err != nil {
		return apperrors.NewAppError(500, "failed to classify guard failure for "+fundRequestID, err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrConflict
}
