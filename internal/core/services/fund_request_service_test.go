package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/taskforce-tools/op_funds_app/internal/apperrors"
	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	portssvc "github.com/taskforce-tools/op_funds_app/internal/core/ports/services"
	"github.com/taskforce-tools/op_funds_app/internal/core/services"
	"github.com/taskforce-tools/op_funds_app/internal/dto"
)

type FundRequestServiceTestSuite struct {
	suite.Suite
	mockRequestRepo *MockFundRequestRepository
	mockBookRepo    *MockBookRepository
	mockAgentRepo   *MockAgentRepository
	mockAllocator   *MockReceiptAllocator
	service         portssvc.FundRequestSvcFacade

	admin *domain.Agent
	agent *domain.Agent
	book  *domain.Book
}

func (suite *FundRequestServiceTestSuite) SetupTest() {
	suite.mockRequestRepo = new(MockFundRequestRepository)
	suite.mockBookRepo = new(MockBookRepository)
	suite.mockAgentRepo = new(MockAgentRepository)
	suite.mockAllocator = new(MockReceiptAllocator)
	suite.service = services.NewFundRequestService(suite.mockRequestRepo, suite.mockBookRepo, suite.mockAgentRepo, suite.mockAllocator)

	suite.admin = newTestAdmin()
	suite.agent = newTestAgent()
	suite.book = newActiveBook()
}

func (suite *FundRequestServiceTestSuite) pendingRequest() *domain.FundRequest {
	return &domain.FundRequest{
		FundRequestID: uuid.NewString(),
		AgentID:       suite.agent.AgentID,
		BookID:        suite.book.BookID,
		Amount:        decimal.NewFromInt(800),
		CaseNumber:    "TF-2026-017",
		Purpose:       "Buy money for controlled purchase",
		Status:        domain.StatusPending,
	}
}

func (suite *FundRequestServiceTestSuite) TestCreateFundRequest_FiledAsActor() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.agent)
	suite.mockBookRepo.On("FindBookByID", ctx, suite.book.BookID).Return(suite.book, nil).Once()
	suite.mockRequestRepo.On("SaveFundRequest", ctx, mock.AnythingOfType("domain.FundRequest")).Return(nil).Once()

	req := dto.CreateFundRequestRequest{
		BookID:  suite.book.BookID,
		Amount:  decimal.NewFromInt(800),
		Purpose: "Buy money for controlled purchase",
	}

	request, err := suite.service.CreateFundRequest(ctx, req, suite.agent.AgentID)

	suite.Require().NoError(err)
	suite.Equal(suite.agent.AgentID, request.AgentID, "request is always filed as the actor")
	suite.Equal(domain.StatusPending, request.Status)
	suite.Nil(request.TransactionID)
}

func (suite *FundRequestServiceTestSuite) TestApproveFundRequest_CreatesLinkedIssuance() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.admin)

	request := suite.pendingRequest()
	approved := *request
	approved.Status = domain.StatusApproved

	suite.mockRequestRepo.On("FindFundRequestByID", ctx, request.FundRequestID).Return(request, nil).Once()
	suite.mockBookRepo.On("FindBookByID", ctx, suite.book.BookID).Return(suite.book, nil).Once()
	suite.mockAllocator.On("Allocate", ctx, domain.Issuance, domain.TagRegular, suite.book.FiscalYear).
		Return("ISS-2026-8XZQ2F", nil).Once()
	suite.mockRequestRepo.On("ApproveFundRequest", ctx, request.FundRequestID, suite.admin.AgentID, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			txn := args.Get(3).(domain.Transaction)
			suite.Equal(domain.Issuance, txn.Type)
			suite.Equal(domain.StatusApproved, txn.Status)
			suite.Require().NotNil(txn.AgentID)
			suite.Equal(request.AgentID, *txn.AgentID, "issuance goes to the requesting agent")
			suite.True(request.Amount.Equal(txn.Amount))
			suite.Equal(request.CaseNumber, txn.Category)
		}).Return(nil).Once()
	suite.mockRequestRepo.On("FindFundRequestByID", ctx, request.FundRequestID).Return(&approved, nil).Once()

	got, err := suite.service.ApproveFundRequest(ctx, request.FundRequestID, suite.admin.AgentID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, got.Status)
	suite.mockRequestRepo.AssertExpectations(suite.T())
}

func (suite *FundRequestServiceTestSuite) TestApproveFundRequest_ReplayCannotIssueTwice() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.admin)

	approved := suite.pendingRequest()
	approved.Status = domain.StatusApproved
	suite.mockRequestRepo.On("FindFundRequestByID", ctx, approved.FundRequestID).Return(approved, nil).Once()

	_, err := suite.service.ApproveFundRequest(ctx, approved.FundRequestID, suite.admin.AgentID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.mockRequestRepo.AssertNotCalled(suite.T(), "ApproveFundRequest",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FundRequestServiceTestSuite) TestApproveFundRequest_LosesRaceAtomically() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.admin)

	request := suite.pendingRequest()
	suite.mockRequestRepo.On("FindFundRequestByID", ctx, request.FundRequestID).Return(request, nil).Once()
	suite.mockBookRepo.On("FindBookByID", ctx, suite.book.BookID).Return(suite.book, nil).Once()
	suite.mockAllocator.On("Allocate", ctx, domain.Issuance, domain.TagRegular, suite.book.FiscalYear).
		Return("ISS-2026-M2XL7H", nil).Once()
	suite.mockRequestRepo.On("ApproveFundRequest", ctx, request.FundRequestID, suite.admin.AgentID, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("time.Time")).
		Return(apperrors.ErrConflict).Once()

	_, err := suite.service.ApproveFundRequest(ctx, request.FundRequestID, suite.admin.AgentID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
}

func (suite *FundRequestServiceTestSuite) TestApproveFundRequest_InactiveBook() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.admin)

	request := suite.pendingRequest()
	inactive := &domain.Book{BookID: suite.book.BookID, FiscalYear: 2026}
	suite.mockRequestRepo.On("FindFundRequestByID", ctx, request.FundRequestID).Return(request, nil).Once()
	suite.mockBookRepo.On("FindBookByID", ctx, suite.book.BookID).Return(inactive, nil).Once()

	_, err := suite.service.ApproveFundRequest(ctx, request.FundRequestID, suite.admin.AgentID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
}

func (suite *FundRequestServiceTestSuite) TestApproveFundRequest_ForbiddenForAgent() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.agent)

	_, err := suite.service.ApproveFundRequest(ctx, uuid.NewString(), suite.agent.AgentID)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *FundRequestServiceTestSuite) TestRejectFundRequest_NoBookGuard() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.admin)

	request := suite.pendingRequest()
	rejected := *request
	rejected.Status = domain.StatusRejected
	rejected.RejectReason = "amount exceeds case budget"

	suite.mockRequestRepo.On("FindFundRequestByID", ctx, request.FundRequestID).Return(request, nil).Once()
	suite.mockRequestRepo.On("RejectFundRequestIfPending", ctx, request.FundRequestID, suite.admin.AgentID, "amount exceeds case budget", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockRequestRepo.On("FindFundRequestByID", ctx, request.FundRequestID).Return(&rejected, nil).Once()

	got, err := suite.service.RejectFundRequest(ctx, request.FundRequestID, "amount exceeds case budget", suite.admin.AgentID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusRejected, got.Status)
	// Rejection needs no book lookup; a pending request in a closing book
	// can still be cleared.
	suite.mockBookRepo.AssertNotCalled(suite.T(), "FindBookByID", mock.Anything, mock.Anything)
}

func (suite *FundRequestServiceTestSuite) TestResubmitFundRequest_ClearsReviewState() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.agent)

	reviewedAt := time.Now().Add(-time.Hour)
	linkedID := uuid.NewString()
	rejected := suite.pendingRequest()
	rejected.Status = domain.StatusRejected
	rejected.ReviewedBy = &suite.admin.AgentID
	rejected.ReviewedAt = &reviewedAt
	rejected.RejectReason = "missing signature"
	rejected.TransactionID = &linkedID

	suite.mockRequestRepo.On("FindFundRequestByID", ctx, rejected.FundRequestID).Return(rejected, nil).Once()
	suite.mockRequestRepo.On("ResubmitFundRequestIfRejected", ctx, mock.AnythingOfType("domain.FundRequest")).
		Run(func(args mock.Arguments) {
			request := args.Get(1).(domain.FundRequest)
			suite.Equal(domain.StatusPending, request.Status)
			suite.Nil(request.ReviewedBy)
			suite.Nil(request.ReviewedAt)
			suite.Empty(request.RejectReason)
			suite.Nil(request.TransactionID)
			suite.Equal("sig://resubmitted", request.SignatureRef)
		}).Return(nil).Once()

	req := dto.ResubmitFundRequestRequest{SignatureRef: strPtr("sig://resubmitted")}
	got, err := suite.service.ResubmitFundRequest(ctx, rejected.FundRequestID, req, suite.agent.AgentID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPending, got.Status)
	suite.mockRequestRepo.AssertExpectations(suite.T())
}

func (suite *FundRequestServiceTestSuite) TestDeleteFundRequest_ApprovedIsUntouchable() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.admin)

	approved := suite.pendingRequest()
	approved.Status = domain.StatusApproved
	suite.mockRequestRepo.On("FindFundRequestByID", ctx, approved.FundRequestID).Return(approved, nil).Once()

	err := suite.service.DeleteFundRequest(ctx, approved.FundRequestID, suite.admin.AgentID)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRequestRepo.AssertNotCalled(suite.T(), "DeleteFundRequestIfNotApproved", mock.Anything, mock.Anything)
}

func (suite *FundRequestServiceTestSuite) TestGetFundRequestByID_OtherAgentDenied() {
	ctx := context.Background()
	other := newTestAgent()
	expectActor(suite.mockAgentRepo, other)

	request := suite.pendingRequest()
	suite.mockRequestRepo.On("FindFundRequestByID", ctx, request.FundRequestID).Return(request, nil).Once()

	_, err := suite.service.GetFundRequestByID(ctx, request.FundRequestID, other.AgentID)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func TestFundRequestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FundRequestServiceTestSuite))
}
