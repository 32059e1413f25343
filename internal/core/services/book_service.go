package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taskforce-tools/op_funds_app/internal/apperrors"
	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	portsrepo "github.com/taskforce-tools/op_funds_app/internal/core/ports/repositories"
	portssvc "github.com/taskforce-tools/op_funds_app/internal/core/ports/services"
	"github.com/taskforce-tools/op_funds_app/internal/dto"
	"github.com/taskforce-tools/op_funds_app/internal/utils/accounting"
)

type bookService struct {
	BaseService
	bookRepo  portsrepo.BookRepositoryFacade
	txnRepo   portsrepo.TransactionRepositoryFacade
	allocator ReceiptAllocator
}

var _ portssvc.BookSvcFacade = (*bookService)(nil)

// NewBookService creates a new book service instance.
func NewBookService(bookRepo portsrepo.BookRepositoryFacade, txnRepo portsrepo.TransactionRepositoryFacade, agentRepo portsrepo.AgentReader, allocator ReceiptAllocator) portssvc.BookSvcFacade {
	return &bookService{
		BaseService: BaseService{AgentRepo: agentRepo},
		bookRepo:    bookRepo,
		txnRepo:     txnRepo,
		allocator:   allocator,
	}
}

// CreateBook opens a new fiscal-year book. At most one book exists per fiscal
// year. If no other book is currently active the new book activates
// immediately and its starting amount is seeded into the pool as an approved
// initial-funding transaction, inserted atomically with the book row.
func (s *bookService) CreateBook(ctx context.Context, req dto.CreateBookRequest, actorID string) (*domain.Book, error) {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if req.StartingAmount.IsNegative() {
		return nil, fmt.Errorf("%w: starting amount cannot be negative", apperrors.ErrValidation)
	}

	existing, err := s.bookRepo.FindBookByFiscalYear(ctx, req.FiscalYear)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "failed to check fiscal year uniqueness", "fiscalYear", req.FiscalYear)
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: a book for fiscal year %d already exists", apperrors.ErrDuplicate, req.FiscalYear)
	}

	activate := false
	if _, err := s.bookRepo.FindActiveBook(ctx); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		activate = true
	}

	now := time.Now()
	book := domain.Book{
		BookID:         uuid.NewString(),
		FiscalYear:     req.FiscalYear,
		StartingAmount: req.StartingAmount,
		IsActive:       activate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.AgentID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.AgentID,
		},
	}

	var seed *domain.Transaction
	if activate && req.StartingAmount.IsPositive() {
		seed, err = s.buildSeedTransaction(ctx, &book, actor.AgentID, now)
		if err != nil {
			return nil, err
		}
	}

	if err := s.bookRepo.SaveBook(ctx, book, seed); err != nil {
		s.LogError(ctx, err, "failed to save book", "fiscalYear", req.FiscalYear)
		return nil, err
	}

	s.LogInfo(ctx, "book created", "bookID", book.BookID, "fiscalYear", book.FiscalYear, "active", activate)
	return &book, nil
}

// ActivateBook activates an inactive book. Only one book may be active at a
// time; the repository enforces that atomically. If the book has never been
// seeded (no pool funding transaction exists) the initial-funding transaction
// is created as part of the activation.
func (s *bookService) ActivateBook(ctx context.Context, bookID string, actorID string) (*domain.Book, error) {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	book, err := s.bookRepo.FindBookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.IsClosed {
		return nil, ErrBookClosed
	}
	if book.IsActive {
		return book, nil
	}

	now := time.Now()
	var seed *domain.Transaction
	if book.StartingAmount.IsPositive() {
		txns, err := s.txnRepo.FindTransactionsByBookID(ctx, bookID)
		if err != nil {
			return nil, err
		}
		if accounting.InitialFunding(txns) == nil {
			seed, err = s.buildSeedTransaction(ctx, book, actor.AgentID, now)
			if err != nil {
				return nil, err
			}
		}
	}

	if err := s.bookRepo.ActivateBook(ctx, bookID, seed, actor.AgentID, now); err != nil {
		s.LogError(ctx, err, "failed to activate book", "bookID", bookID)
		return nil, err
	}

	s.LogInfo(ctx, "book activated", "bookID", bookID, "seeded", seed != nil)
	return s.bookRepo.FindBookByID(ctx, bookID)
}

// CloseBook marks a book closed and inactive. Its history stays readable but
// no new records may target it. Closing an already closed book is a no-op.
func (s *bookService) CloseBook(ctx context.Context, bookID string, actorID string) (*domain.Book, error) {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	book, err := s.bookRepo.FindBookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.IsClosed {
		return book, nil
	}

	if err := s.bookRepo.CloseBook(ctx, bookID, actor.AgentID, time.Now()); err != nil {
		s.LogError(ctx, err, "failed to close book", "bookID", bookID)
		return nil, err
	}

	s.LogInfo(ctx, "book closed", "bookID", bookID)
	return s.bookRepo.FindBookByID(ctx, bookID)
}

// AddFunds tops up the pool of an active book. The top-up is recorded as an
// approved pool-level issuance tagged TOP_UP so reporting can distinguish it
// from the initial funding.
func (s *bookService) AddFunds(ctx context.Context, bookID string, amount decimal.Decimal, description string, actorID string) (*domain.Transaction, error) {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}

	book, err := s.bookRepo.FindBookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.IsClosed {
		return nil, ErrBookClosed
	}
	if !book.IsActive {
		return nil, ErrBookInactive
	}

	receiptNo, err := s.allocator.Allocate(ctx, domain.Issuance, domain.TagTopUp, book.FiscalYear)
	if err != nil {
		return nil, err
	}
	if description == "" {
		description = fmt.Sprintf("Pool top-up for fiscal year %d", book.FiscalYear)
	}

	now := time.Now()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		BookID:        book.BookID,
		AgentID:       nil,
		Type:          domain.Issuance,
		Tag:           domain.TagTopUp,
		Amount:        amount,
		Status:        domain.StatusApproved,
		ReceiptNo:     receiptNo,
		Description:   description,
		ReviewedBy:    &actor.AgentID,
		ReviewedAt:    &now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.AgentID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.AgentID,
		},
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "failed to save top-up transaction", "bookID", bookID)
		return nil, err
	}

	s.LogInfo(ctx, "pool topped up", "bookID", bookID, "amount", amount.String(), "receiptNo", receiptNo)
	return &txn, nil
}

// GetBookByID retrieves a book by ID.
func (s *bookService) GetBookByID(ctx context.Context, bookID string) (*domain.Book, error) {
	return s.bookRepo.FindBookByID(ctx, bookID)
}

// GetActiveBook retrieves the single currently active book.
func (s *bookService) GetActiveBook(ctx context.Context) (*domain.Book, error) {
	return s.bookRepo.FindActiveBook(ctx)
}

// ListBooks retrieves a paginated list of books, newest fiscal year first.
func (s *bookService) ListBooks(ctx context.Context, params dto.ListBooksParams, actorID string) ([]domain.Book, error) {
	if _, err := s.ResolveActor(ctx, actorID); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	return s.bookRepo.ListBooks(ctx, limit, offset)
}

func (s *bookService) buildSeedTransaction(ctx context.Context, book *domain.Book, actorID string, now time.Time) (*domain.Transaction, error) {
	receiptNo, err := s.allocator.Allocate(ctx, domain.Issuance, domain.TagInitialFunding, book.FiscalYear)
	if err != nil {
		return nil, err
	}
	return &domain.Transaction{
		TransactionID: uuid.NewString(),
		BookID:        book.BookID,
		AgentID:       nil,
		Type:          domain.Issuance,
		Tag:           domain.TagInitialFunding,
		Amount:        book.StartingAmount,
		Status:        domain.StatusApproved,
		ReceiptNo:     receiptNo,
		Description:   fmt.Sprintf("Initial funding for fiscal year %d", book.FiscalYear),
		ReviewedBy:    &actorID,
		ReviewedAt:    &now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}, nil
}
