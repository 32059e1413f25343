package repositories

import (
	"context"
	"time"

	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
)

// BookReader defines read operations for book data
type BookReader interface {
	// FindBookByID retrieves a specific book by its unique identifier.
	FindBookByID(ctx context.Context, bookID string) (*domain.Book, error)

	// FindBookByFiscalYear retrieves the book for a fiscal year, if any.
	FindBookByFiscalYear(ctx context.Context, fiscalYear int) (*domain.Book, error)

	// FindActiveBook retrieves the single currently active book.
	// Returns apperrors.ErrNotFound when no book is active.
	FindActiveBook(ctx context.Context) (*domain.Book, error)

	// ListBooks retrieves books ordered by fiscal year descending.
	ListBooks(ctx context.Context, limit int, offset int) ([]domain.Book, error)
}

// BookWriter defines write operations for book data
type BookWriter interface {
	// SaveBook persists a new book. When seedTransaction is non-nil the book
	// is being activated on creation and the initial-funding transaction is
	// inserted within the same database transaction.
	SaveBook(ctx context.Context, book domain.Book, seedTransaction *domain.Transaction) error

	// ActivateBook atomically flips the book to active, guarded against any
	// other book already being active (apperrors.ErrConflict) and against
	// closed books (apperrors.ErrValidation). When seedTransaction is
	// non-nil it is inserted in the same database transaction.
	ActivateBook(ctx context.Context, bookID string, seedTransaction *domain.Transaction, updatedBy string, updatedAt time.Time) error

	// CloseBook marks the book closed and inactive. Closing an already
	// closed book is a no-op re-write, not an error.
	CloseBook(ctx context.Context, bookID string, closedBy string, closedAt time.Time) error
}

// BookRepositoryFacade combines all book-related repository interfaces
type BookRepositoryFacade interface {
	BookReader
	BookWriter
}
