package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskforce-tools/op_funds_app/internal/apperrors"
	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	portsrepo "github.com/taskforce-tools/op_funds_app/internal/core/ports/repositories"
	"github.com/taskforce-tools/op_funds_app/internal/models"
	"github.com/taskforce-tools/op_funds_app/internal/utils/mapping"
)

type PgxBookRepository struct {
	BaseRepository
}

// newPgxBookRepository creates a new repository for book data.
func newPgxBookRepository(pool *pgxpool.Pool) portsrepo.BookRepositoryFacade {
	return &PgxBookRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.BookRepositoryFacade = (*PgxBookRepository)(nil)

var FULL_BOOK_SELECT_QUERY = `
SELECT
	b.book_id, b.fiscal_year, b.starting_amount, b.is_active, b.is_closed, b.closed_at,
	b.created_at, b.created_by, b.last_updated_at, b.last_updated_by
FROM books b
`

func (r *PgxBookRepository) getBooks(ctx context.Context, filterQuery string, args ...any) ([]domain.Book, error) {
	query := FULL_BOOK_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query books", err)
	}
	defer rows.Close()
	modelBooks, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Book])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Book{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect book rows", err)
	}
	return mapping.ToDomainBookSlice(modelBooks), nil
}

func (r *PgxBookRepository) FindBookByID(ctx context.Context, bookID string) (*domain.Book, error) {
	books, err := r.getBooks(ctx, `WHERE b.book_id = $1`, bookID)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &books[0], nil
}

func (r *PgxBookRepository) FindBookByFiscalYear(ctx context.Context, fiscalYear int) (*domain.Book, error) {
	books, err := r.getBooks(ctx, `WHERE b.fiscal_year = $1`, fiscalYear)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &books[0], nil
}

func (r *PgxBookRepository) FindActiveBook(ctx context.Context) (*domain.Book, error) {
	books, err := r.getBooks(ctx, `WHERE b.is_active = TRUE`)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &books[0], nil
}

func (r *PgxBookRepository) ListBooks(ctx context.Context, limit int, offset int) ([]domain.Book, error) {
	return r.getBooks(ctx, `ORDER BY b.fiscal_year DESC LIMIT $1 OFFSET $2`, limit, offset)
}

// SaveBook inserts the book row and, when the book activates on creation, the
// initial-funding transaction within the same database transaction.
func (r *PgxBookRepository) SaveBook(ctx context.Context, book domain.Book, seedTransaction *domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction for book save", err)
	}
	defer r.Rollback(ctx, tx)

	model := mapping.ToModelBook(book)
	query := `
		INSERT INTO books (
			book_id, fiscal_year, starting_amount, is_active, is_closed, closed_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, query,
		model.BookID,
		model.FiscalYear,
		model.StartingAmount,
		model.IsActive,
		model.IsClosed,
		model.ClosedAt,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: book for fiscal year %d", apperrors.ErrDuplicate, book.FiscalYear)
		}
		return apperrors.NewAppError(500, "failed to save book "+book.BookID, err)
	}

	if seedTransaction != nil {
		if err := insertTransactionTx(ctx, tx, mapping.ToModelTransaction(*seedTransaction)); err != nil {
			return err
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit book save", err)
	}
	return nil
}

// ActivateBook flips the book to active, guarded in SQL against another book
// already being active so two concurrent activations cannot both win.
func (r *PgxBookRepository) ActivateBook(ctx context.Context, bookID string, seedTransaction *domain.Transaction, updatedBy string, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction for book activation", err)
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE books
		SET is_active = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE book_id = $1
		  AND is_closed = FALSE
		  AND NOT EXISTS (SELECT 1 FROM books b2 WHERE b2.is_active = TRUE AND b2.book_id <> $1);
	`
	cmdTag, err := tx.Exec(ctx, query, bookID, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to activate book "+bookID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyActivationFailure(ctx, bookID)
	}

	if seedTransaction != nil {
		if err := insertTransactionTx(ctx, tx, mapping.ToModelTransaction(*seedTransaction)); err != nil {
			return err
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit book activation", err)
	}
	return nil
}

// classifyActivationFailure figures out why the guarded update matched nothing.
func (r *PgxBookRepository) classifyActivationFailure(ctx context.Context, bookID string) error {
	book, err := r.FindBookByID(ctx, bookID)
	if err != nil {
		return err
	}
	if book.IsClosed {
		return fmt.Errorf("%w: book %s is closed", apperrors.ErrValidation, bookID)
	}
	if book.IsActive {
		return nil
	}
	return fmt.Errorf("%w: another book is already active", apperrors.ErrConflict)
}

// CloseBook marks the book closed and inactive. COALESCE keeps the original
// closed_at on a repeated close, making the operation a no-op re-write.
func (r *PgxBookRepository) CloseBook(ctx context.Context, bookID string, closedBy string, closedAt time.Time) error {
	query := `
		UPDATE books
		SET is_active = FALSE, is_closed = TRUE, closed_at = COALESCE(closed_at, $2),
		    last_updated_at = $2, last_updated_by = $3
		WHERE book_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, bookID, closedAt, closedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to close book "+bookID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
