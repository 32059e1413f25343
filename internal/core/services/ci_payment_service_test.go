package services_test

import (
	"context"
	"testing"

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

type CIPaymentServiceTestSuite struct {
	suite.Suite
	mockPaymentRepo *MockCIPaymentRepository
	mockBookRepo    *MockBookRepository
	mockAgentRepo   *MockAgentRepository
	mockAllocator   *MockReceiptAllocator
	service         portssvc.CIPaymentSvcFacade

	admin *domain.Agent
	agent *domain.Agent
	book  *domain.Book
}

func (suite *CIPaymentServiceTestSuite) SetupTest() {
	suite.mockPaymentRepo = new(MockCIPaymentRepository)
	suite.mockBookRepo = new(MockBookRepository)
	suite.mockAgentRepo = new(MockAgentRepository)
	suite.mockAllocator = new(MockReceiptAllocator)
	suite.service = services.NewCIPaymentService(suite.mockPaymentRepo, suite.mockBookRepo, suite.mockAgentRepo, suite.mockAllocator)

	suite.admin = newTestAdmin()
	suite.agent = newTestAgent()
	suite.book = newActiveBook()
}

func (suite *CIPaymentServiceTestSuite) pendingPayment() *domain.CIPayment {
	return &domain.CIPayment{
		CIPaymentID:  uuid.NewString(),
		AgentID:      suite.agent.AgentID,
		BookID:       suite.book.BookID,
		Amount:       decimal.NewFromInt(350),
		CaseNumber:   "TF-2026-009",
		Purpose:      "Tip on stash house location",
		InformantRef: "CI-0042",

		PayerSignatureRef:     "sig://payer",
		PayerPrintedName:      "Agent Reyes",
		InformantSignatureRef: "sig://informant",
		InformantPrintedName:  "CI-0042",

		Status: domain.StatusPending,
	}
}

func (suite *CIPaymentServiceTestSuite) TestCreateCIPayment_FiledAsActor() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.agent)
	suite.mockBookRepo.On("FindBookByID", ctx, suite.book.BookID).Return(suite.book, nil).Once()
	suite.mockPaymentRepo.On("SaveCIPayment", ctx, mock.AnythingOfType("domain.CIPayment")).
		Run(func(args mock.Arguments) {
			payment := args.Get(1).(domain.CIPayment)
			suite.Equal(suite.agent.AgentID, payment.AgentID)
			suite.Equal(domain.StatusPending, payment.Status)
			suite.Empty(payment.ApproverSignatureRef, "approver signature is only captured on approval")
		}).Return(nil).Once()

	req := dto.CreateCIPaymentRequest{
		BookID:                suite.book.BookID,
		Amount:                decimal.NewFromInt(350),
		Purpose:               "Tip on stash house location",
		InformantRef:          "CI-0042",
		PayerSignatureRef:     "sig://payer",
		PayerPrintedName:      "Agent Reyes",
		InformantSignatureRef: "sig://informant",
		InformantPrintedName:  "CI-0042",
	}

	payment, err := suite.service.CreateCIPayment(ctx, req, suite.agent.AgentID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPending, payment.Status)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *CIPaymentServiceTestSuite) TestApproveCIPayment_RequiresSignature() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.admin)

	req := dto.ApproveCIPaymentRequest{ApproverPrintedName: "Commander Vale"}
	_, err := suite.service.ApproveCIPayment(ctx, uuid.NewString(), req, suite.admin.AgentID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "FindCIPaymentByID", mock.Anything, mock.Anything)
}

func (suite *CIPaymentServiceTestSuite) TestApproveCIPayment_CreatesLinkedSpending() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.admin)

	payment := suite.pendingPayment()
	approved := *payment
	approved.Status = domain.StatusApproved
	approved.ApproverSignatureRef = "sig://approver"

	suite.mockPaymentRepo.On("FindCIPaymentByID", ctx, payment.CIPaymentID).Return(payment, nil).Once()
	suite.mockBookRepo.On("FindBookByID", ctx, suite.book.BookID).Return(suite.book, nil).Once()
	suite.mockAllocator.On("Allocate", ctx, domain.Spending, domain.TagRegular, suite.book.FiscalYear).
		Return("EXP-2026-Q3BN8D", nil).Once()
	suite.mockPaymentRepo.On("ApproveCIPayment", ctx, payment.CIPaymentID, suite.admin.AgentID, "sig://approver", "Commander Vale", mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			txn := args.Get(5).(domain.Transaction)
			suite.Equal(domain.Spending, txn.Type, "CI payment spends from the agent's buy money")
			suite.Equal(domain.StatusApproved, txn.Status)
			suite.Require().NotNil(txn.AgentID)
			suite.Equal(payment.AgentID, *txn.AgentID)
			suite.True(payment.Amount.Equal(txn.Amount))
		}).Return(nil).Once()
	suite.mockPaymentRepo.On("FindCIPaymentByID", ctx, payment.CIPaymentID).Return(&approved, nil).Once()

	req := dto.ApproveCIPaymentRequest{ApproverSignatureRef: "sig://approver", ApproverPrintedName: "Commander Vale"}
	got, err := suite.service.ApproveCIPayment(ctx, payment.CIPaymentID, req, suite.admin.AgentID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, got.Status)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *CIPaymentServiceTestSuite) TestApproveCIPayment_ReplayCannotSpendTwice() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.admin)

	approved := suite.pendingPayment()
	approved.Status = domain.StatusApproved
	suite.mockPaymentRepo.On("FindCIPaymentByID", ctx, approved.CIPaymentID).Return(approved, nil).Once()

	req := dto.ApproveCIPaymentRequest{ApproverSignatureRef: "sig://approver", ApproverPrintedName: "Commander Vale"}
	_, err := suite.service.ApproveCIPayment(ctx, approved.CIPaymentID, req, suite.admin.AgentID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "ApproveCIPayment",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CIPaymentServiceTestSuite) TestRejectCIPayment_Success() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.admin)

	payment := suite.pendingPayment()
	rejected := *payment
	rejected.Status = domain.StatusRejected
	rejected.RejectReason = "witness signature missing"

	suite.mockPaymentRepo.On("FindCIPaymentByID", ctx, payment.CIPaymentID).Return(payment, nil).Once()
	suite.mockPaymentRepo.On("RejectCIPaymentIfPending", ctx, payment.CIPaymentID, suite.admin.AgentID, "witness signature missing", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockPaymentRepo.On("FindCIPaymentByID", ctx, payment.CIPaymentID).Return(&rejected, nil).Once()

	got, err := suite.service.RejectCIPayment(ctx, payment.CIPaymentID, "witness signature missing", suite.admin.AgentID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusRejected, got.Status)
	suite.Empty(got.ApproverSignatureRef, "a stale approver signature must never survive rejection")
}

func (suite *CIPaymentServiceTestSuite) TestResubmitCIPayment_ClearsApproverSignature() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.agent)

	rejected := suite.pendingPayment()
	rejected.Status = domain.StatusRejected
	rejected.RejectReason = "witness signature missing"
	rejected.ReviewedBy = &suite.admin.AgentID

	suite.mockPaymentRepo.On("FindCIPaymentByID", ctx, rejected.CIPaymentID).Return(rejected, nil).Once()
	suite.mockPaymentRepo.On("ResubmitCIPaymentIfRejected", ctx, mock.AnythingOfType("domain.CIPayment")).
		Run(func(args mock.Arguments) {
			payment := args.Get(1).(domain.CIPayment)
			suite.Equal(domain.StatusPending, payment.Status)
			suite.Nil(payment.ReviewedBy)
			suite.Empty(payment.RejectReason)
			suite.Empty(payment.ApproverSignatureRef)
			suite.Empty(payment.ApproverPrintedName)
			suite.Nil(payment.TransactionID)
			suite.Equal("sig://witness", payment.WitnessSignatureRef)
		}).Return(nil).Once()

	req := dto.ResubmitCIPaymentRequest{
		WitnessSignatureRef: strPtr("sig://witness"),
		WitnessPrintedName:  strPtr("Sgt. Okafor"),
	}
	got, err := suite.service.ResubmitCIPayment(ctx, rejected.CIPaymentID, req, suite.agent.AgentID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPending, got.Status)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *CIPaymentServiceTestSuite) TestDeleteCIPayment_ApprovedIsUntouchable() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.agent)

	approved := suite.pendingPayment()
	approved.Status = domain.StatusApproved
	suite.mockPaymentRepo.On("FindCIPaymentByID", ctx, approved.CIPaymentID).Return(approved, nil).Once()

	err := suite.service.DeleteCIPayment(ctx, approved.CIPaymentID, suite.agent.AgentID)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "DeleteCIPaymentIfNotApproved", mock.Anything, mock.Anything)
}

func TestCIPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CIPaymentServiceTestSuite))
}
