package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskforce-tools/op_funds_app/internal/apperrors"
	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	portsrepo "github.com/taskforce-tools/op_funds_app/internal/core/ports/repositories"
	portssvc "github.com/taskforce-tools/op_funds_app/internal/core/ports/services"
	"github.com/taskforce-tools/op_funds_app/internal/dto"
)

type transactionService struct {
	BaseService
	txnRepo   portsrepo.TransactionRepositoryFacade
	bookRepo  portsrepo.BookReader
	allocator ReceiptAllocator
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// NewTransactionService creates a new transaction service instance.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryFacade, bookRepo portsrepo.BookReader, agentRepo portsrepo.AgentReader, allocator ReceiptAllocator) portssvc.TransactionSvcFacade {
	return &transactionService{
		BaseService: BaseService{AgentRepo: agentRepo},
		txnRepo:     txnRepo,
		bookRepo:    bookRepo,
		allocator:   allocator,
	}
}

// CreateTransaction records a fund movement against an active book.
//
// Agents may only create SPENDING and RETURN records for themselves; those
// start PENDING and await admin review. Admins may create any movement,
// including pool-level ones (nil agent), and their records are approved
// immediately.
func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, actorID string) (*domain.Transaction, error) {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}

	book, err := s.bookRepo.FindBookByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	if book.IsClosed {
		return nil, ErrBookClosed
	}
	if !book.IsActive {
		return nil, ErrBookInactive
	}

	subjectID, err := s.resolveSubject(ctx, actor, req)
	if err != nil {
		return nil, err
	}

	receiptNo, err := s.allocator.Allocate(ctx, req.Type, domain.TagRegular, book.FiscalYear)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		BookID:        book.BookID,
		AgentID:       subjectID,
		Type:          req.Type,
		Tag:           domain.TagRegular,
		Amount:        req.Amount,
		Status:        domain.StatusPending,
		ReceiptNo:     receiptNo,
		Description:   req.Description,
		Category:      req.Category,
		DocumentRef:   req.DocumentRef,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.AgentID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.AgentID,
		},
	}
	if actor.IsAdmin() {
		txn.Status = domain.StatusApproved
		txn.ReviewedBy = &actor.AgentID
		txn.ReviewedAt = &now
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "failed to save transaction", "bookID", req.BookID, "type", req.Type)
		return nil, err
	}

	s.LogInfo(ctx, "transaction created",
		"transactionID", txn.TransactionID, "type", txn.Type, "status", txn.Status, "receiptNo", receiptNo)
	return &txn, nil
}

// ApproveTransaction moves a pending transaction to APPROVED. The status
// transition is a conditional update in the store, so two concurrent reviews
// can never both succeed.
func (s *transactionService) ApproveTransaction(ctx context.Context, transactionID string, reviewNotes string, actorID string) (*domain.Transaction, error) {
	return s.review(ctx, transactionID, domain.StatusApproved, reviewNotes, actorID)
}

// RejectTransaction moves a pending transaction to REJECTED with a reason.
func (s *transactionService) RejectTransaction(ctx context.Context, transactionID string, reason string, actorID string) (*domain.Transaction, error) {
	return s.review(ctx, transactionID, domain.StatusRejected, reason, actorID)
}

func (s *transactionService) review(ctx context.Context, transactionID string, status domain.RecordStatus, notes string, actorID string) (*domain.Transaction, error) {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status != domain.StatusPending {
		return nil, ErrAlreadyProcessed
	}

	// Approval puts money on the ledger, so the owning book must still be
	// open and active. Rejection moves no money and stays unguarded.
	if status == domain.StatusApproved {
		book, err := s.bookRepo.FindBookByID(ctx, txn.BookID)
		if err != nil {
			return nil, err
		}
		if book.IsClosed {
			return nil, ErrBookClosed
		}
		if !book.IsActive {
			return nil, ErrBookInactive
		}
	}

	now := time.Now()
	if err := s.txnRepo.UpdateTransactionStatusIfPending(ctx, transactionID, status, actor.AgentID, notes, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Lost the race against another reviewer.
			return nil, ErrAlreadyProcessed
		}
		s.LogError(ctx, err, "failed to update transaction status", "transactionID", transactionID, "status", status)
		return nil, err
	}

	s.LogInfo(ctx, "transaction reviewed", "transactionID", transactionID, "status", status, "reviewer", actor.AgentID)
	return s.txnRepo.FindTransactionByID(ctx, transactionID)
}

// ResubmitTransaction applies edits to a rejected transaction and resets it
// to PENDING for another review round. Only the owning agent may resubmit.
func (s *transactionService) ResubmitTransaction(ctx context.Context, transactionID string, req dto.ResubmitTransactionRequest, actorID string) (*domain.Transaction, error) {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, OpResubmit, RecordRef{SubjectAgentID: txn.AgentID, Status: txn.Status}); err != nil {
		return nil, err
	}
	if txn.Status != domain.StatusRejected {
		return nil, ErrNotRejected
	}

	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, ErrAmountNotPositive
		}
		txn.Amount = *req.Amount
	}
	if req.Description != nil {
		txn.Description = *req.Description
	}
	if req.Category != nil {
		txn.Category = *req.Category
	}
	if req.DocumentRef != nil {
		txn.DocumentRef = *req.DocumentRef
	}

	txn.Status = domain.StatusPending
	txn.ReviewNotes = ""
	txn.ReviewedBy = nil
	txn.ReviewedAt = nil
	txn.LastUpdatedAt = time.Now()
	txn.LastUpdatedBy = actor.AgentID

	if err := s.txnRepo.ResubmitTransactionIfRejected(ctx, *txn); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrNotRejected
		}
		s.LogError(ctx, err, "failed to resubmit transaction", "transactionID", transactionID)
		return nil, err
	}

	s.LogInfo(ctx, "transaction resubmitted", "transactionID", transactionID)
	return txn, nil
}

// DeleteTransaction removes a pending or rejected transaction. Approved
// transactions are part of the ledger history and can never be deleted,
// regardless of who asks.
func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID string, actorID string) error {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return err
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if txn.Status == domain.StatusApproved {
		return fmt.Errorf("%w: approved transactions cannot be deleted", apperrors.ErrForbidden)
	}
	if err := authorize(actor, OpDelete, RecordRef{SubjectAgentID: txn.AgentID, Status: txn.Status}); err != nil {
		return err
	}

	if err := s.txnRepo.DeleteTransactionIfNotApproved(ctx, transactionID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Approved between our read and the delete.
			return fmt.Errorf("%w: approved transactions cannot be deleted", apperrors.ErrForbidden)
		}
		s.LogError(ctx, err, "failed to delete transaction", "transactionID", transactionID)
		return err
	}

	s.LogInfo(ctx, "transaction deleted", "transactionID", transactionID, "deletedBy", actor.AgentID)
	return nil
}

// GetTransactionByID retrieves a transaction. Non-admin actors can only read
// their own records; pool-level records are admin-only.
func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string, actorID string) (*domain.Transaction, error) {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, OpRead, RecordRef{SubjectAgentID: txn.AgentID, Status: txn.Status}); err != nil {
		return nil, err
	}
	return txn, nil
}

// ListTransactions retrieves a filtered, token-paginated page of a book's
// transactions, newest first. Non-admin actors are pinned to their own
// records whatever filter they send.
func (s *transactionService) ListTransactions(ctx context.Context, bookID string, params dto.ListTransactionsParams, actorID string) (*dto.ListTransactionsResponse, error) {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.bookRepo.FindBookByID(ctx, bookID); err != nil {
		return nil, err
	}

	filter := portsrepo.TransactionFilter{AgentID: params.AgentID}
	if params.Status != nil {
		status := domain.RecordStatus(*params.Status)
		filter.Status = &status
	}
	if params.Type != nil {
		txnType := domain.TransactionType(*params.Type)
		filter.Type = &txnType
	}
	if !actor.IsAdmin() {
		filter.AgentID = &actor.AgentID
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	txns, nextToken, err := s.txnRepo.ListTransactions(ctx, bookID, filter, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "failed to list transactions", "bookID", bookID)
		return nil, err
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// resolveSubject decides whose record this is. Admins may attribute the
// movement to any agent or to the pool; agents always act as themselves and
// may only record spending and returns.
func (s *transactionService) resolveSubject(ctx context.Context, actor *domain.Agent, req dto.CreateTransactionRequest) (*string, error) {
	if actor.IsAdmin() {
		if req.AgentID == nil {
			return nil, nil
		}
		subject, err := s.AgentRepo.FindAgentByID(ctx, *req.AgentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: agent %s does not exist", apperrors.ErrValidation, *req.AgentID)
			}
			return nil, err
		}
		return &subject.AgentID, nil
	}

	if req.Type == domain.Issuance {
		return nil, fmt.Errorf("%w: agents cannot create issuances", apperrors.ErrForbidden)
	}
	if req.AgentID != nil && *req.AgentID != actor.AgentID {
		return nil, fmt.Errorf("%w: agents cannot create records for another agent", apperrors.ErrForbidden)
	}
	return &actor.AgentID, nil
}
