package services

import (
	"context"

	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	"github.com/taskforce-tools/op_funds_app/internal/dto"
)

// CIPaymentSvcFacade defines the CI payment workflow operations.
type CIPaymentSvcFacade interface {
	// CreateCIPayment submits a new informant payment as the actor.
	CreateCIPayment(ctx context.Context, req dto.CreateCIPaymentRequest, actorID string) (*domain.CIPayment, error)

	// GetCIPaymentByID retrieves a CI payment, subject to ownership rules.
	GetCIPaymentByID(ctx context.Context, ciPaymentID string, actorID string) (*domain.CIPayment, error)

	// ListCIPayments retrieves a filtered, token-paginated page.
	// Non-admin actors only see their own payments.
	ListCIPayments(ctx context.Context, params dto.ListCIPaymentsParams, actorID string) (*dto.ListCIPaymentsResponse, error)

	// ApproveCIPayment approves a pending payment (admin only). The approver
	// signature is mandatory; approval creates exactly one linked spending
	// transaction.
	ApproveCIPayment(ctx context.Context, ciPaymentID string, req dto.ApproveCIPaymentRequest, actorID string) (*domain.CIPayment, error)

	// RejectCIPayment rejects a pending payment (admin only), clearing any
	// previously captured approver signature.
	RejectCIPayment(ctx context.Context, ciPaymentID string, reason string, actorID string) (*domain.CIPayment, error)

	// ResubmitCIPayment edits a rejected payment and resets it to PENDING
	// (owner only).
	ResubmitCIPayment(ctx context.Context, ciPaymentID string, req dto.ResubmitCIPaymentRequest, actorID string) (*domain.CIPayment, error)

	// DeleteCIPayment removes a non-approved payment, subject to ownership
	// rules. Approved payments can never be deleted.
	DeleteCIPayment(ctx context.Context, ciPaymentID string, actorID string) error
}
