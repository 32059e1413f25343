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

type PgxCIPaymentRepository struct {
	BaseRepository
}

// newPgxCIPaymentRepository creates a new repository for CI payment data.
func newPgxCIPaymentRepository(pool *pgxpool.Pool) portsrepo.CIPaymentRepositoryFacade {
	return &PgxCIPaymentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CIPaymentRepositoryFacade = (*PgxCIPaymentRepository)(nil)

var FULL_CI_PAYMENT_SELECT_QUERY = `
SELECT
	c.ci_payment_id, c.agent_id, c.book_id, c.amount, c.case_number, c.purpose, c.informant_ref,
	c.payer_signature_ref, c.payer_printed_name, c.informant_signature_ref, c.informant_printed_name,
	c.witness_signature_ref, c.witness_printed_name, c.approver_signature_ref, c.approver_printed_name,
	c.status, c.reviewed_by, c.reviewed_at, c.reject_reason, c.transaction_id,
	c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
FROM ci_payments c
`

func (r *PgxCIPaymentRepository) getCIPayments(ctx context.Context, filterQuery string, args ...any) ([]domain.CIPayment, error) {
	query := FULL_CI_PAYMENT_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query CI payments", err)
	}
	defer rows.Close()
	modelPayments, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.CIPayment])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.CIPayment{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect CI payment rows", err)
	}
	return mapping.ToDomainCIPaymentSlice(modelPayments), nil
}

func (r *PgxCIPaymentRepository) FindCIPaymentByID(ctx context.Context, ciPaymentID string) (*domain.CIPayment, error) {
	payments, err := r.getCIPayments(ctx, `WHERE c.ci_payment_id = $1`, ciPaymentID)
	if err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &payments[0], nil
}

func (r *PgxCIPaymentRepository) ListCIPayments(ctx context.Context, bookID string, filter portsrepo.ApprovalFilter, limit int, nextToken *string) ([]domain.CIPayment, *string, error) {
	filterQuery := `WHERE c.book_id = $1`
	args := []any{bookID}

	if filter.AgentID != nil {
		args = append(args, *filter.AgentID)
		filterQuery += ` AND c.agent_id = $` + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		filterQuery += ` AND c.status = $` + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		cursorTime, cursorID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursorTime, cursorID)
		n := len(args)
		filterQuery += fmt.Sprintf(` AND (c.created_at, c.ci_payment_id) < ($%d, $%d)`, n-1, n)
	}

	args = append(args, limit+1)
	filterQuery += fmt.Sprintf(` ORDER BY c.created_at DESC, c.ci_payment_id DESC LIMIT $%d`, len(args))

	payments, err := r.getCIPayments(ctx, filterQuery, args...)
	if err != nil {
		return nil, nil, err
	}

	var newToken *string
	if len(payments) > limit {
		payments = payments[:limit]
		last := payments[len(payments)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.CIPaymentID)
		newToken = &token
	}
	return payments, newToken, nil
}

func (r *PgxCIPaymentRepository) SaveCIPayment(ctx context.Context, payment domain.CIPayment) error {
	model := mapping.ToModelCIPayment(payment)
	query := `
		INSERT INTO ci_payments (
			ci_payment_id, agent_id, book_id, amount, case_number, purpose, informant_ref,
			payer_signature_ref, payer_printed_name, informant_signature_ref, informant_printed_name,
			witness_signature_ref, witness_printed_name, approver_signature_ref, approver_printed_name,
			status, reviewed_by, reviewed_at, reject_reason, transaction_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.CIPaymentID,
		model.AgentID,
		model.BookID,
		model.Amount,
		model.CaseNumber,
		model.Purpose,
		model.InformantRef,
		model.PayerSignatureRef,
		model.PayerPrintedName,
		model.InformantSignatureRef,
		model.InformantPrintedName,
		model.WitnessSignatureRef,
		model.WitnessPrintedName,
		model.ApproverSignatureRef,
		model.ApproverPrintedName,
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
		return apperrors.NewAppError(500, "failed to save CI payment "+payment.CIPaymentID, err)
	}
	return nil
}

// ApproveCIPayment runs the approval as one database transaction: the guarded
// status flip with the approver signature, the linked spending insert, and
// the linkage stamp.
func (r *PgxCIPaymentRepository) ApproveCIPayment(ctx context.Context, ciPaymentID string, reviewerID string, approverSignatureRef string, approverPrintedName string, linkedTxn domain.Transaction, reviewedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction for CI payment approval", err)
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE ci_payments
		SET status = 'APPROVED', reviewed_by = $2, reviewed_at = $3, reject_reason = '',
		    approver_signature_ref = $4, approver_printed_name = $5,
		    last_updated_at = $3, last_updated_by = $2
		WHERE ci_payment_id = $1 AND status = 'PENDING';
	`
	cmdTag, err := tx.Exec(ctx, query, ciPaymentID, reviewerID, reviewedAt, approverSignatureRef, approverPrintedName)
	if err != nil {
		return apperrors.NewAppError(500, "failed to approve CI payment "+ciPaymentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyGuardFailure(ctx, ciPaymentID)
	}

	if err := insertTransactionTx(ctx, tx, mapping.ToModelTransaction(linkedTxn)); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `UPDATE ci_payments SET transaction_id = $2 WHERE ci_payment_id = $1;`, ciPaymentID, linkedTxn.TransactionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to link transaction to CI payment "+ciPaymentID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit CI payment approval", err)
	}
	return nil
}

// RejectCIPaymentIfPending rejects the payment and wipes any approver
// signature so it cannot validate a later resubmission.
func (r *PgxCIPaymentRepository) RejectCIPaymentIfPending(ctx context.Context, ciPaymentID string, reviewerID string, reason string, reviewedAt time.Time) error {
	query := `
		UPDATE ci_payments
		SET status = 'REJECTED', reviewed_by = $2, reviewed_at = $3, reject_reason = $4,
		    approver_signature_ref = '', approver_printed_name = '',
		    last_updated_at = $3, last_updated_by = $2
		WHERE ci_payment_id = $1 AND status = 'PENDING';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, ciPaymentID, reviewerID, reviewedAt, reason)
	if err != nil {
		return apperrors.NewAppError(500, "failed to reject CI payment "+ciPaymentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyGuardFailure(ctx, ciPaymentID)
	}
	return nil
}

func (r *PgxCIPaymentRepository) ResubmitCIPaymentIfRejected(ctx context.Context, payment domain.CIPayment) error {
	model := mapping.ToModelCIPayment(payment)
	query := `
		UPDATE ci_payments
		SET amount = $2, case_number = $3, purpose = $4, informant_ref = $5,
		    payer_signature_ref = $6, payer_printed_name = $7,
		    informant_signature_ref = $8, informant_printed_name = $9,
		    witness_signature_ref = $10, witness_printed_name = $11,
		    status = 'PENDING', reviewed_by = NULL, reviewed_at = NULL, reject_reason = '',
		    approver_signature_ref = '', approver_printed_name = '', transaction_id = NULL,
		    last_updated_at = $12, last_updated_by = $13
		WHERE ci_payment_id = $1 AND status = 'REJECTED';
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		model.CIPaymentID,
		model.Amount,
		model.CaseNumber,
		model.Purpose,
		model.InformantRef,
		model.PayerSignatureRef,
		model.PayerPrintedName,
		model.InformantSignatureRef,
		model.InformantPrintedName,
		model.WitnessSignatureRef,
		model.WitnessPrintedName,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to resubmit CI payment "+payment.CIPaymentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyGuardFailure(ctx, payment.CIPaymentID)
	}
	return nil
}

func (r *PgxCIPaymentRepository) DeleteCIPaymentIfNotApproved(ctx context.Context, ciPaymentID string) error {
	query := `DELETE FROM ci_payments WHERE ci_payment_id = $1 AND status <> 'APPROVED';`
	cmdTag, err := r.Pool.Exec(ctx, query, ciPaymentID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete CI payment "+ciPaymentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyGuardFailure(ctx, ciPaymentID)
	}
	return nil
}

func (r *PgxCIPaymentRepository) classifyGuardFailure(ctx context.Context, ciPaymentID string) error {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM ci_payments WHERE ci_payment_id = $1)`, ciPaymentID).Scan(&exists)
	if err != nil {
		return apperrors.NewAppError(500, "failed to classify guard failure for "+ciPaymentID, err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrConflict
}
