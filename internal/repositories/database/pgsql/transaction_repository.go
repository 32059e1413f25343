package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskforce-tools/op_funds_app/internal/apperrors"
	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	portsrepo "github.com/taskforce-tools/op_funds_app/internal/core/ports/repositories"
	"github.com/taskforce-tools/op_funds_app/internal/models"
	"github.com/taskforce-tools/op_funds_app/internal/utils/mapping"
	"github.com/taskforce-tools/op_funds_app/internal/utils/pagination"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

var FULL_TRANSACTION_SELECT_QUERY = `
SELECT
	t.transaction_id, t.book_id, t.agent_id, t.type, t.tag, t.amount, t.status,
	t.receipt_no, t.description, t.category, t.document_ref, t.review_notes,
	t.reviewed_by, t.reviewed_at,
	t.created_at, t.created_by, t.last_updated_at, t.last_updated_by
FROM transactions t
`

const insertTransactionQuery = `
	INSERT INTO transactions (
		transaction_id, book_id, agent_id, type, tag, amount, status,
		receipt_no, description, category, document_ref, review_notes,
		reviewed_by, reviewed_at,
		created_at, created_by, last_updated_at, last_updated_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
`

// insertTransactionTx inserts a transaction row within an existing database
// transaction. Shared with the book, fund request and CI payment repositories
// so linked transactions commit atomically with their parent record.
func insertTransactionTx(ctx context.Context, tx pgx.Tx, txn models.Transaction) error {
	_, err := tx.Exec(ctx, insertTransactionQuery,
		txn.TransactionID,
		txn.BookID,
		txn.AgentID,
		txn.Type,
		txn.Tag,
		txn.Amount,
		txn.Status,
		txn.ReceiptNo,
		txn.Description,
		txn.Category,
		txn.DocumentRef,
		txn.ReviewNotes,
		txn.ReviewedBy,
		txn.ReviewedAt,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: receipt number %s", apperrors.ErrDuplicate, txn.ReceiptNo)
		}
		return apperrors.NewAppError(500, "failed to insert transaction "+txn.TransactionID, err)
	}
	return nil
}

func (r *PgxTransactionRepository) getTransactions(ctx context.Context, filterQuery string, args ...any) ([]domain.Transaction, error) {
	query := FULL_TRANSACTION_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	defer rows.Close()
	modelTxns, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Transaction{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect transaction rows", err)
	}
	return mapping.ToDomainTransactionSlice(modelTxns), nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txns, err := r.getTransactions(ctx, `WHERE t.transaction_id = $1`, transactionID)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &txns[0], nil
}

func (r *PgxTransactionRepository) FindTransactionsByBookID(ctx context.Context, bookID string) ([]domain.Transaction, error) {
	return r.getTransactions(ctx, `WHERE t.book_id = $1`, bookID)
}

// ListTransactions pages through a book's transactions newest first, using a
// (created_at, transaction_id) cursor token so inserts between pages never
// shift results.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, bookID string, filter portsrepo.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	filterQuery := `WHERE t.book_id = $1`
	args := []any{bookID}

	if filter.AgentID != nil {
		args = append(args, *filter.AgentID)
		filterQuery += ` AND t.agent_id = $` + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		filterQuery += ` AND t.status = $` + strconv.Itoa(len(args))
	}
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		filterQuery += ` AND t.type = $` + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		cursorTime, cursorID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursorTime, cursorID)
		n := len(args)
		filterQuery += fmt.Sprintf(` AND (t.created_at, t.transaction_id) < ($%d, $%d)`, n-1, n)
	}

	args = append(args, limit+1)
	filterQuery += fmt.Sprintf(` ORDER BY t.created_at DESC, t.transaction_id DESC LIMIT $%d`, len(args))

	txns, err := r.getTransactions(ctx, filterQuery, args...)
	if err != nil {
		return nil, nil, err
	}

	var newToken *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		newToken = &token
	}
	return txns, newToken, nil
}

func (r *PgxTransactionRepository) ReceiptNoExists(ctx context.Context, receiptNo string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM transactions WHERE receipt_no = $1)`, receiptNo).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check receipt number", err)
	}
	return exists, nil
}

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction for save", err)
	}
	defer r.Rollback(ctx, tx)

	if err := insertTransactionTx(ctx, tx, mapping.ToModelTransaction(txn)); err != nil {
		return err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction save", err)
	}
	return nil
}

// UpdateTransactionStatusIfPending performs the optimistic status transition.
// The WHERE clause carries the expected status, so of two concurrent reviews
// exactly one matches a row.
func (r *PgxTransactionRepository) UpdateTransactionStatusIfPending(ctx context.Context, transactionID string, status domain.RecordStatus, reviewerID string, reviewNotes string, reviewedAt time.Time) error {
	query := `
		UPDATE transactions
		SET status = $2, reviewed_by = $3, review_notes = $4, reviewed_at = $5,
		    last_updated_at = $5, last_updated_by = $3
		WHERE transaction_id = $1 AND status = 'PENDING';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, transactionID, string(status), reviewerID, reviewNotes, reviewedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update transaction status "+transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyGuardFailure(ctx, transactionID)
	}
	return nil
}

// ResubmitTransactionIfRejected rewrites the edited transaction back to
// PENDING, guarded on the row still being REJECTED.
func (r *PgxTransactionRepository) ResubmitTransactionIfRejected(ctx context.Context, txn domain.Transaction) error {
	model := mapping.ToModelTransaction(txn)
	query := `
		UPDATE transactions
		SET amount = $2, description = $3, category = $4, document_ref = $5,
		    status = 'PENDING', review_notes = '', reviewed_by = NULL, reviewed_at = NULL,
		    last_updated_at = $6, last_updated_by = $7
		WHERE transaction_id = $1 AND status = 'REJECTED';
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		model.TransactionID,
		model.Amount,
		model.Description,
		model.Category,
		model.DocumentRef,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to resubmit transaction "+txn.TransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyGuardFailure(ctx, txn.TransactionID)
	}
	return nil
}

// DeleteTransactionIfNotApproved deletes the row unless it is approved.
func (r *PgxTransactionRepository) DeleteTransactionIfNotApproved(ctx context.Context, transactionID string) error {
	query := `DELETE FROM transactions WHERE transaction_id = $1 AND status <> 'APPROVED';`
	cmdTag, err := r.Pool.Exec(ctx, query, transactionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete transaction "+transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyGuardFailure(ctx, transactionID)
	}
	return nil
}

// classifyGuardFailure distinguishes a missing row from one whose status
// moved on since the caller last read it.
func (r *PgxTransactionRepository) classifyGuardFailure(ctx context.Context, transactionID string) error {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM transactions WHERE transaction_id = $1)`, transactionID).Scan(&exists)
	if err != nil {
		return apperrors.NewAppError(500, "failed to classify guard failure for "+transactionID, err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrConflict
}
