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

type ciPaymentService struct {
	BaseService
	paymentRepo portsrepo.CIPaymentRepositoryFacade
	bookRepo    portsrepo.BookReader
	allocator   ReceiptAllocator
}

var _ portssvc.CIPaymentSvcFacade = (*ciPaymentService)(nil)

// NewCIPaymentService creates a new CI payment service instance.
func NewCIPaymentService(paymentRepo portsrepo.CIPaymentRepositoryFacade, bookRepo portsrepo.BookReader, agentRepo portsrepo.AgentReader, allocator ReceiptAllocator) portssvc.CIPaymentSvcFacade {
	return &ciPaymentService{
		BaseService: BaseService{AgentRepo: agentRepo},
		paymentRepo: paymentRepo,
		bookRepo:    bookRepo,
		allocator:   allocator,
	}
}

// CreateCIPayment submits an informant payment for review. The paying agent
// is always the actor; payer and informant signatures must already be
// captured at submission time.
func (s *ciPaymentService) CreateCIPayment(ctx context.Context, req dto.CreateCIPaymentRequest, actorID string) (*domain.CIPayment, error) {
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
	payment := domain.CIPayment{
		CIPaymentID:  uuid.NewString(),
		AgentID:      actor.AgentID,
		BookID:       book.BookID,
		Amount:       req.Amount,
		CaseNumber:   req.CaseNumber,
		Purpose:      req.Purpose,
		InformantRef: req.InformantRef,

		PayerSignatureRef:     req.PayerSignatureRef,
		PayerPrintedName:      req.PayerPrintedName,
		InformantSignatureRef: req.InformantSignatureRef,
		InformantPrintedName:  req.InformantPrintedName,
		WitnessSignatureRef:   req.WitnessSignatureRef,
		WitnessPrintedName:    req.WitnessPrintedName,

		Status: domain.StatusPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.AgentID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.AgentID,
		},
	}

	if err := s.paymentRepo.SaveCIPayment(ctx, payment); err != nil {
		s.LogError(ctx, err, "failed to save CI payment", "bookID", req.BookID)
		return nil, err
	}

	s.LogInfo(ctx, "CI payment created", "ciPaymentID", payment.CIPaymentID, "agentID", actor.AgentID)
	return &payment, nil
}

// ApproveCIPayment approves a pending payment. The commander's signature is
// mandatory; without it the approval is invalid. The approval and the linked
// spending transaction commit atomically.
func (s *ciPaymentService) ApproveCIPayment(ctx context.Context, ciPaymentID string, req dto.ApproveCIPaymentRequest, actorID string) (*domain.CIPayment, error) {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if req.ApproverSignatureRef == "" {
		return nil, fmt.Errorf("%w: approver signature is required", apperrors.ErrValidation)
	}

	payment, err := s.paymentRepo.FindCIPaymentByID(ctx, ciPaymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.StatusPending {
		return nil, ErrAlreadyProcessed
	}

	book, err := s.bookRepo.FindBookByID(ctx, payment.BookID)
	if err != nil {
		return nil, err
	}
	if book.IsClosed {
		return nil, ErrBookClosed
	}
	if !book.IsActive {
		return nil, ErrBookInactive
	}

	receiptNo, err := s.allocator.Allocate(ctx, domain.Spending, domain.TagRegular, book.FiscalYear)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	linkedTxn := domain.Transaction{
		TransactionID: uuid.NewString(),
		BookID:        payment.BookID,
		AgentID:       &payment.AgentID,
		Type:          domain.Spending,
		Tag:           domain.TagRegular,
		Amount:        payment.Amount,
		Status:        domain.StatusApproved,
		ReceiptNo:     receiptNo,
		Description:   fmt.Sprintf("CI payment %s", payment.CIPaymentID),
		Category:      payment.CaseNumber,
		ReviewedBy:    &actor.AgentID,
		ReviewedAt:    &now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.AgentID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.AgentID,
		},
	}

	if err := s.paymentRepo.ApproveCIPayment(ctx, ciPaymentID, actor.AgentID, req.ApproverSignatureRef, req.ApproverPrintedName, linkedTxn, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrAlreadyProcessed
		}
		s.LogError(ctx, err, "failed to approve CI payment", "ciPaymentID", ciPaymentID)
		return nil, err
	}

	s.LogInfo(ctx, "CI payment approved",
		"ciPaymentID", ciPaymentID, "transactionID", linkedTxn.TransactionID, "amount", payment.Amount.String())
	return s.paymentRepo.FindCIPaymentByID(ctx, ciPaymentID)
}

// RejectCIPayment rejects a pending payment. Any approver signature captured
// earlier is cleared so a stale signature can never validate a later copy.
func (s *ciPaymentService) RejectCIPayment(ctx context.Context, ciPaymentID string, reason string, actorID string) (*domain.CIPayment, error) {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.FindCIPaymentByID(ctx, ciPaymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.StatusPending {
		return nil, ErrAlreadyProcessed
	}

	if err := s.paymentRepo.RejectCIPaymentIfPending(ctx, ciPaymentID, actor.AgentID, reason, time.Now()); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrAlreadyProcessed
		}
		s.LogError(ctx, err, "failed to reject CI payment", "ciPaymentID", ciPaymentID)
		return nil, err
	}

	s.LogInfo(ctx, "CI payment rejected", "ciPaymentID", ciPaymentID, "reviewer", actor.AgentID)
	return s.paymentRepo.FindCIPaymentByID(ctx, ciPaymentID)
}

// ResubmitCIPayment edits a rejected payment and sends it back to review.
func (s *ciPaymentService) ResubmitCIPayment(ctx context.Context, ciPaymentID string, req dto.ResubmitCIPaymentRequest, actorID string) (*domain.CIPayment, error) {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.FindCIPaymentByID(ctx, ciPaymentID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, OpResubmit, RecordRef{SubjectAgentID: &payment.AgentID, Status: payment.Status}); err != nil {
		return nil, err
	}
	if payment.Status != domain.StatusRejected {
		return nil, ErrNotRejected
	}

	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, ErrAmountNotPositive
		}
		payment.Amount = *req.Amount
	}
	if req.CaseNumber != nil {
		payment.CaseNumber = *req.CaseNumber
	}
	if req.Purpose != nil {
		payment.Purpose = *req.Purpose
	}
	if req.InformantRef != nil {
		payment.InformantRef = *req.InformantRef
	}
	if req.PayerSignatureRef != nil {
		payment.PayerSignatureRef = *req.PayerSignatureRef
	}
	if req.PayerPrintedName != nil {
		payment.PayerPrintedName = *req.PayerPrintedName
	}
	if req.InformantSignatureRef != nil {
		payment.InformantSignatureRef = *req.InformantSignatureRef
	}
	if req.InformantPrintedName != nil {
		payment.InformantPrintedName = *req.InformantPrintedName
	}
	if req.WitnessSignatureRef != nil {
		payment.WitnessSignatureRef = *req.WitnessSignatureRef
	}
	if req.WitnessPrintedName != nil {
		payment.WitnessPrintedName = *req.WitnessPrintedName
	}

	payment.Status = domain.StatusPending
	payment.ReviewedBy = nil
	payment.ReviewedAt = nil
	payment.RejectReason = ""
	payment.ApproverSignatureRef = ""
	payment.ApproverPrintedName = ""
	payment.TransactionID = nil
	payment.LastUpdatedAt = time.Now()
	payment.LastUpdatedBy = actor.AgentID

	if err := s.paymentRepo.ResubmitCIPaymentIfRejected(ctx, *payment); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrNotRejected
		}
		s.LogError(ctx, err, "failed to resubmit CI payment", "ciPaymentID", ciPaymentID)
		return nil, err
	}

	s.LogInfo(ctx, "CI payment resubmitted", "ciPaymentID", ciPaymentID)
	return payment, nil
}

// DeleteCIPayment removes a pending or rejected payment. Approved payments
// have spent money and can never be deleted.
func (s *ciPaymentService) DeleteCIPayment(ctx context.Context, ciPaymentID string, actorID string) error {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return err
	}

	payment, err := s.paymentRepo.FindCIPaymentByID(ctx, ciPaymentID)
	if err != nil {
		return err
	}
	if payment.Status == domain.StatusApproved {
		return fmt.Errorf("%w: approved CI payments cannot be deleted", apperrors.ErrForbidden)
	}
	if err := authorize(actor, OpDelete, RecordRef{SubjectAgentID: &payment.AgentID, Status: payment.Status}); err != nil {
		return err
	}

	if err := s.paymentRepo.DeleteCIPaymentIfNotApproved(ctx, ciPaymentID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("%w: approved CI payments cannot be deleted", apperrors.ErrForbidden)
		}
		s.LogError(ctx, err, "failed to delete CI payment", "ciPaymentID", ciPaymentID)
		return err
	}

	s.LogInfo(ctx, "CI payment deleted", "ciPaymentID", ciPaymentID, "deletedBy", actor.AgentID)
	return nil
}

// GetCIPaymentByID retrieves a CI payment, owner or admin only.
func (s *ciPaymentService) GetCIPaymentByID(ctx context.Context, ciPaymentID string, actorID string) (*domain.CIPayment, error) {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.FindCIPaymentByID(ctx, ciPaymentID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, OpRead, RecordRef{SubjectAgentID: &payment.AgentID, Status: payment.Status}); err != nil {
		return nil, err
	}
	return payment, nil
}

// ListCIPayments retrieves a filtered, token-paginated page of a book's CI
// payments. Non-admin actors are pinned to their own payments.
func (s *ciPaymentService) ListCIPayments(ctx context.Context, params dto.ListCIPaymentsParams, actorID string) (*dto.ListCIPaymentsResponse, error) {
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

	payments, nextToken, err := s.paymentRepo.ListCIPayments(ctx, params.BookID, filter, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "failed to list CI payments", "bookID", params.BookID)
		return nil, err
	}

	return &dto.ListCIPaymentsResponse{
		CIPayments: dto.ToCIPaymentResponses(payments),
		NextToken:  nextToken,
	}, nil
}
