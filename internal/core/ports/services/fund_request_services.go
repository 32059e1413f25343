package services

import (
	"context"

	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	"github.com/taskforce-tools/op_funds_app/internal/dto"
)

// FundRequestSvcFacade defines the fund request workflow operations.
type FundRequestSvcFacade interface {
	// CreateFundRequest submits a new issuance petition as the actor.
	CreateFundRequest(ctx context.Context, req dto.CreateFundRequestRequest, actorID string) (*domain.FundRequest, error)

	// GetFundRequestByID retrieves a fund request, subject to ownership rules.
	GetFundRequestByID(ctx context.Context, fundRequestID string, actorID string) (*domain.FundRequest, error)

	// ListFundRequests retrieves a filtered, token-paginated page.
	// Non-admin actors only see their own requests.
	ListFundRequests(ctx context.Context, params dto.ListFundRequestsParams, actorID string) (*dto.ListFundRequestsResponse, error)

	// ApproveFundRequest approves a pending request (admin only), creating
	// exactly one linked issuance transaction.
	ApproveFundRequest(ctx context.Context, fundRequestID string, actorID string) (*domain.FundRequest, error)

	// RejectFundRequest rejects a pending request (admin only) with a reason.
	RejectFundRequest(ctx context.Context, fundRequestID string, reason string, actorID string) (*domain.FundRequest, error)

	// ResubmitFundRequest edits a rejected request and resets it to PENDING
	// (owner only), clearing reviewer, reason and linked transaction.
	ResubmitFundRequest(ctx context.Context, fundRequestID string, req dto.ResubmitFundRequestRequest, actorID string) (*domain.FundRequest, error)

	// DeleteFundRequest removes a non-approved request, subject to
	// ownership rules. Approved requests can never be deleted.
	DeleteFundRequest(ctx context.Context, fundRequestID string, actorID string) error
}
