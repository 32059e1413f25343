package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	"github.com/taskforce-tools/op_funds_app/internal/dto"
)

// BookReaderSvc defines read operations for book data
type BookReaderSvc interface {
	// GetBookByID retrieves a book by ID.
	GetBookByID(ctx context.Context, bookID string) (*domain.Book, error)

	// GetActiveBook retrieves the single currently active book.
	GetActiveBook(ctx context.Context) (*domain.Book, error)

	// ListBooks retrieves a paginated list of books.
	ListBooks(ctx context.Context, params dto.ListBooksParams, actorID string) ([]domain.Book, error)
}

// BookWriterSvc defines lifecycle operations for books
type BookWriterSvc interface {
	// CreateBook opens a new fiscal-year book. The first book (or any book
	// created while no other is active) auto-activates and seeds the
	// initial-funding transaction.
	CreateBook(ctx context.Context, req dto.CreateBookRequest, actorID string) (*domain.Book, error)

	// ActivateBook activates an inactive, unclosed book, seeding the
	// initial-funding transaction if the book has none yet.
	ActivateBook(ctx context.Context, bookID string, actorID string) (*domain.Book, error)

	// CloseBook marks a book closed and inactive. Re-closing is a no-op.
	CloseBook(ctx context.Context, bookID string, actorID string) (*domain.Book, error)

	// AddFunds tops up the pool of an active book with an auto-approved
	// pool-level issuance.
	AddFunds(ctx context.Context, bookID string, amount decimal.Decimal, description string, actorID string) (*domain.Transaction, error)
}

// BookSvcFacade combines all book-related service interfaces
type BookSvcFacade interface {
	BookReaderSvc
	BookWriterSvc
}
