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

type fundRequestService struct {
	BaseService
	requestRepo portsrepo.FundRequestRepositoryFacade
	bookRepo    portsrepo.BookReader
	allocator   ReceiptAllocator
}

var _ portssvc.FundRequestSvcFacade = (*fundRequestService)(nil)

// NewFundRequestService creates a new fund request service instance.
func NewFundRequestService(requestRepo portsrepo.FundRequestRepositoryFacade, bookRepo portsrepo.BookReader, agentRepo portsrepo.AgentReader, allocator ReceiptAllocator) portssvc.FundRequestSvcFacade {
	return &fundRequestService{
		BaseService: BaseService{AgentRepo: agentRepo},
		requestRepo: requestRepo,
		bookRepo:    bookRepo,
		allocator:   allocator,
	}
}

// CreateFundRequest submits a petition for an issuance of funds. The request
// is always filed as the actor; there is no way to petition on another
// agent's behalf.
func (s *fundRequestService) CreateFundRequest(ctx context.Context, req dto.CreateFundRequestRequest, actorID string) (*domain.FundRequest, error) {
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

	now := time.Now()
	request := domain.FundRequest{
		FundRequestID: uuid.NewString(),
		AgentID:       actor.AgentID,
		BookID:        book.BookID,
		Amount:        req.Amount,
		CaseNumber:    req.CaseNumber,
		Purpose:       req.Purpose,
		SignatureRef:  req.SignatureRef,
		Status:        domain.StatusPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.AgentID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.AgentID,
		},
	}

	if err := s.requestRepo.SaveFundRequest(ctx, request); err != nil {
		s.LogError(ctx, err, "failed to save fund request", "bookID", req.BookID)
		return nil, err
	}

	s.LogInfo(ctx, "fund request created", "fundRequestID", request.FundRequestID, "agentID", actor.AgentID)
	return &request, nil
}

// ApproveFundRequest approves a pending request and issues the funds. The
// approval and the linked issuance transaction commit atomically, so a
// replayed approval can never issue the money twice.
func (s *fundRequestService) ApproveFundRequest(ctx context.Context, fundRequestID string, actorID string) (*domain.FundRequest, error) {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	request, err := s.requestRepo.FindFundRequestByID(ctx, fundRequestID)
	if err != nil {
		return nil, err
	}
	if request.Status != domain.StatusPending {
		return nil, ErrAlreadyProcessed
	}

	book, err := s.bookRepo.FindBookByID(ctx, request.BookID)
	if err != nil {
		return nil, err
	}
	if book.IsClosed {
		return nil, ErrBookClosed
	}
	if !book.IsActive {
		return nil, ErrBookInactive
	}

	receiptNo, err := s.allocator.Allocate(ctx, domain.Issuance, domain.TagRegular, book.FiscalYear)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	linkedTxn := domain.Transaction{
		TransactionID: uuid.NewString(),
		BookID:        request.BookID,
		AgentID:       &request.AgentID,
		Type:          domain.Issuance,
		Tag:           domain.TagRegular,
		Amount:        request.Amount,
		Status:        domain.StatusApproved,
		ReceiptNo:     receiptNo,
		Description:   fmt.Sprintf("Fund issuance for request %s", request.FundRequestID),
		Category:      request.CaseNumber,
		ReviewedBy:    &actor.AgentID,
		ReviewedAt:    &now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.AgentID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.AgentID,
		},
	}

	if err := s.requestRepo.ApproveFundRequest(ctx, fundRequestID, actor.AgentID, linkedTxn, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrAlreadyProcessed
		}
		s.LogError(ctx, err, "failed to approve fund request", "fundRequestID", fundRequestID)
		return nil, err
	}

	s.LogInfo(ctx, "fund request approved",
		"fundRequestID", fundRequestID, "transactionID", linkedTxn.TransactionID, "amount", request.Amount.String())
	return s.requestRepo.FindFundRequestByID(ctx, fundRequestID)
}

// RejectFundRequest rejects a pending request with a reason. No transaction
// is created; the ledger never sees a rejected petition.
func (s *fundRequestService) RejectFundRequest(ctx context.Context, fundRequestID string, reason string, actorID string) (*domain.FundRequest, error) {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	request, err := s.requestRepo.FindFundRequestByID(ctx, fundRequestID)
	if err != nil {
		return nil, err
	}
	if request.Status != domain.StatusPending {
		return nil, ErrAlreadyProcessed
	}

	if err := s.requestRepo.RejectFundRequestIfPending(ctx, fundRequestID, actor.AgentID, reason, time.Now()); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrAlreadyProcessed
		}
		s.LogError(ctx, err, "failed to reject fund request", "fundRequestID", fundRequestID)
		return nil, err
	}

	s.LogInfo(ctx, "fund request rejected", "fundRequestID", fundRequestID, "reviewer", actor.AgentID)
	return s.requestRepo.FindFundRequestByID(ctx, fundRequestID)
}

// ResubmitFundRequest edits a rejected request and sends it back to review.
func (s *fundRequestService) ResubmitFundRequest(ctx context.Context, fundRequestID string, req dto.ResubmitFundRequestRequest, actorID string) (*domain.FundRequest, error) {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	request, err := s.requestRepo.FindFundRequestByID(ctx, fundRequestID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, OpResubmit, RecordRef{SubjectAgentID: &request.AgentID, Status: request.Status}); err != nil {
		return nil, err
	}
	if request.Status != domain.StatusRejected {
		return nil, ErrNotRejected
	}

	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, ErrAmountNotPositive
		}
		request.Amount = *req.Amount
	}
	if req.CaseNumber != nil {
		request.CaseNumber = *req.CaseNumber
	}
	if req.Purpose != nil {
		request.Purpose = *req.Purpose
	}
	if req.SignatureRef != nil {
		request.SignatureRef = *req.SignatureRef
	}

	request.Status = domain.StatusPending
	request.ReviewedBy = nil
	request.ReviewedAt = nil
	request.RejectReason = ""
	request.TransactionID = nil
	request.LastUpdatedAt = time.Now()
	request.LastUpdatedBy = actor.AgentID

	if err := s.requestRepo.ResubmitFundRequestIfRejected(ctx, *request); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrNotRejected
		}
		s.LogError(ctx, err, "failed to resubmit fund request", "fundRequestID", fundRequestID)
		return nil, err
	}

	s.LogInfo(ctx, "fund request resubmitted", "fundRequestID", fundRequestID)
	return request, nil
}

// DeleteFundRequest removes a pending or rejected request. Approved requests
// have issued money and can never be deleted.
func (s *fundRequestService) DeleteFundRequest(ctx context.Context, fundRequestID string, actorID string) error {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return err
	}

	request, err := s.requestRepo.FindFundRequestByID(ctx, fundRequestID)
	if err != nil {
		return err
	}
	if request.Status == domain.StatusApproved {
		return fmt.Errorf("%w: approved fund requests cannot be deleted", apperrors.ErrForbidden)
	}
	if err := authorize(actor, OpDelete, RecordRef{SubjectAgentID: &request.AgentID, Status: request.Status}); err != nil {
		return err
	}

	if err := s.requestRepo.DeleteFundRequestIfNotApproved(ctx, fundRequestID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("%w: approved fund requests cannot be deleted", apperrors.ErrForbidden)
		}
		s.LogError(ctx, err, "failed to delete fund request", "fundRequestID", fundRequestID)
		return err
	}

	s.LogInfo(ctx, "fund request deleted", "fundRequestID", fundRequestID, "deletedBy", actor.AgentID)
	return nil
}

// GetFundRequestByID retrieves a fund request, owner or admin only.
func (s *fundRequestService) GetFundRequestByID(ctx context.Context, fundRequestID string, actorID string) (*domain.FundRequest, error) {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	request, err := s.requestRepo.FindFundRequestByID(ctx, fundRequestID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, OpRead, RecordRef{SubjectAgentID: &request.AgentID, Status: request.Status}); err != nil {
		return nil, err
	}
	return request, nil
}

// ListFundRequests retrieves a filtered, token-paginated page of a book's
// fund requests. Non-admin actors are pinned to their own requests.
func (s *fundRequestService) ListFundRequests(ctx context.Context, params dto.ListFundRequestsParams, actorID string) (*dto.ListFundRequestsResponse, error) {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.bookRepo.FindBookByID(ctx, params.BookID); err != nil {
		return nil, err
	}

	filter := portsrepo.ApprovalFilter{AgentID: params.AgentID}
	if params.Status != nil {
		status := domain.RecordStatus(*params.Status)
		filter.Status = &status
	}
	if !actor.IsAdmin() {
		filter.AgentID = &actor.AgentID
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	requests, nextToken, err := s.requestRepo.ListFundRequests(ctx, params.BookID, filter, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "failed to list fund requests", "bookID", params.BookID)
		return nil, err
	}

	return &dto.ListFundRequestsResponse{
		FundRequests: dto.ToFundRequestResponses(requests),
		NextToken:    nextToken,
	}, nil
}
