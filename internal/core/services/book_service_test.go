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

type BookServiceTestSuite struct {
	suite.Suite
	mockBookRepo  *MockBookRepository
	mockTxnRepo   *MockTransactionRepository
	mockAgentRepo *MockAgentRepository
	mockAllocator *MockReceiptAllocator
	service       portssvc.BookSvcFacade

	admin *domain.Agent
	agent *domain.Agent
}

func (suite *BookServiceTestSuite) SetupTest() {
	suite.mockBookRepo = new(MockBookRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAgentRepo = new(MockAgentRepository)
	suite.mockAllocator = new(MockReceiptAllocator)
	suite.service = services.NewBookService(suite.mockBookRepo, suite.mockTxnRepo, suite.mockAgentRepo, suite.mockAllocator)

	suite.admin = newTestAdmin()
	suite.agent = newTestAgent()
}

func (suite *BookServiceTestSuite) TestCreateBook_AutoActivatesAndSeeds() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.admin)

	req := dto.CreateBookRequest{FiscalYear: 2026, StartingAmount: decimal.NewFromInt(10000)}

	suite.mockBookRepo.On("FindBookByFiscalYear", ctx, 2026).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockBookRepo.On("FindActiveBook", ctx).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAllocator.On("Allocate", ctx, domain.Issuance, domain.TagInitialFunding, 2026).
		Return("INI-2026-7KQ4MC", nil).Once()
	suite.mockBookRepo.On("SaveBook", ctx, mock.AnythingOfType("domain.Book"), mock.AnythingOfType("*domain.Transaction")).
		Run(func(args mock.Arguments) {
			seed := args.Get(2).(*domain.Transaction)
			suite.Require().NotNil(seed)
			suite.Equal(domain.Issuance, seed.Type)
			suite.Equal(domain.TagInitialFunding, seed.Tag)
			suite.Equal(domain.StatusApproved, seed.Status)
			suite.Nil(seed.AgentID)
			suite.True(req.StartingAmount.Equal(seed.Amount))
		}).Return(nil).Once()

	book, err := suite.service.CreateBook(ctx, req, suite.admin.AgentID)

	suite.Require().NoError(err)
	suite.Require().NotNil(book)
	suite.True(book.IsActive, "first book should activate immediately")
	suite.Equal(2026, book.FiscalYear)
	suite.mockBookRepo.AssertExpectations(suite.T())
	suite.mockAllocator.AssertExpectations(suite.T())
}

func (suite *BookServiceTestSuite) TestCreateBook_InactiveWhenAnotherBookIsActive() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.admin)

	suite.mockBookRepo.On("FindBookByFiscalYear", ctx, 2027).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockBookRepo.On("FindActiveBook", ctx).Return(newActiveBook(), nil).Once()
	suite.mockBookRepo.On("SaveBook", ctx, mock.AnythingOfType("domain.Book"), (*domain.Transaction)(nil)).Return(nil).Once()

	book, err := suite.service.CreateBook(ctx, dto.CreateBookRequest{FiscalYear: 2027, StartingAmount: decimal.NewFromInt(5000)}, suite.admin.AgentID)

	suite.Require().NoError(err)
	suite.False(book.IsActive)
	suite.mockBookRepo.AssertExpectations(suite.T())
	suite.mockAllocator.AssertNotCalled(suite.T(), "Allocate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BookServiceTestSuite) TestCreateBook_ZeroStartingAmountSkipsSeed() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.admin)

	suite.mockBookRepo.On("FindBookByFiscalYear", ctx, 2026).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockBookRepo.On("FindActiveBook", ctx).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockBookRepo.On("SaveBook", ctx, mock.AnythingOfType("domain.Book"), (*domain.Transaction)(nil)).Return(nil).Once()

	book, err := suite.service.CreateBook(ctx, dto.CreateBookRequest{FiscalYear: 2026, StartingAmount: decimal.Zero}, suite.admin.AgentID)

	suite.Require().NoError(err)
	suite.True(book.IsActive)
	suite.mockAllocator.AssertNotCalled(suite.T(), "Allocate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BookServiceTestSuite) TestCreateBook_DuplicateFiscalYear() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.admin)

	existing := newActiveBook()
	suite.mockBookRepo.On("FindBookByFiscalYear", ctx, 2026).Return(existing, nil).Once()

	_, err := suite.service.CreateBook(ctx, dto.CreateBookRequest{FiscalYear: 2026, StartingAmount: decimal.NewFromInt(100)}, suite.admin.AgentID)

	suite.Require().ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockBookRepo.AssertNotCalled(suite.T(), "SaveBook", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BookServiceTestSuite) TestCreateBook_NegativeStartingAmount() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.admin)

	_, err := suite.service.CreateBook(ctx, dto.CreateBookRequest{FiscalYear: 2026, StartingAmount: decimal.NewFromInt(-1)}, suite.admin.AgentID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BookServiceTestSuite) TestCreateBook_ForbiddenForNonAdmin() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.agent)

	_, err := suite.service.CreateBook(ctx, dto.CreateBookRequest{FiscalYear: 2026, StartingAmount: decimal.NewFromInt(100)}, suite.agent.AgentID)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *BookServiceTestSuite) TestActivateBook_ClosedBook() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.admin)

	closedAt := time.Now()
	closed := &domain.Book{BookID: uuid.NewString(), FiscalYear: 2024, IsClosed: true, ClosedAt: &closedAt}
	suite.mockBookRepo.On("FindBookByID", ctx, closed.BookID).Return(closed, nil).Once()

	_, err := suite.service.ActivateBook(ctx, closed.BookID, suite.admin.AgentID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.mockBookRepo.AssertNotCalled(suite.T(), "ActivateBook", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BookServiceTestSuite) TestActivateBook_AlreadyActiveIsNoOp() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.admin)

	book := newActiveBook()
	suite.mockBookRepo.On("FindBookByID", ctx, book.BookID).Return(book, nil).Once()

	got, err := suite.service.ActivateBook(ctx, book.BookID, suite.admin.AgentID)

	suite.Require().NoError(err)
	suite.Equal(book.BookID, got.BookID)
	suite.mockBookRepo.AssertNotCalled(suite.T(), "ActivateBook", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BookServiceTestSuite) TestActivateBook_SeedsWhenBookHasNoFunding() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.admin)

	book := &domain.Book{BookID: uuid.NewString(), FiscalYear: 2027, StartingAmount: decimal.NewFromInt(3000)}
	suite.mockBookRepo.On("FindBookByID", ctx, book.BookID).Return(book, nil)
	suite.mockTxnRepo.On("FindTransactionsByBookID", ctx, book.BookID).Return([]domain.Transaction{}, nil).Once()
	suite.mockAllocator.On("Allocate", ctx, domain.Issuance, domain.TagInitialFunding, 2027).
		Return("INI-2027-N4WPRT", nil).Once()
	suite.mockBookRepo.On("ActivateBook", ctx, book.BookID, mock.AnythingOfType("*domain.Transaction"), suite.admin.AgentID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, err := suite.service.ActivateBook(ctx, book.BookID, suite.admin.AgentID)

	suite.Require().NoError(err)
	suite.mockBookRepo.AssertExpectations(suite.T())
}

func (suite *BookServiceTestSuite) TestActivateBook_SkipsSeedWhenAlreadyFunded() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.admin)

	book := &domain.Book{BookID: uuid.NewString(), FiscalYear: 2027, StartingAmount: decimal.NewFromInt(3000)}
	existingSeed := domain.Transaction{
		Type:   domain.Issuance,
		Tag:    domain.TagInitialFunding,
		Amount: book.StartingAmount,
		Status: domain.StatusApproved,
	}
	suite.mockBookRepo.On("FindBookByID", ctx, book.BookID).Return(book, nil)
	suite.mockTxnRepo.On("FindTransactionsByBookID", ctx, book.BookID).Return([]domain.Transaction{existingSeed}, nil).Once()
	suite.mockBookRepo.On("ActivateBook", ctx, book.BookID, (*domain.Transaction)(nil), suite.admin.AgentID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, err := suite.service.ActivateBook(ctx, book.BookID, suite.admin.AgentID)

	suite.Require().NoError(err)
	suite.mockAllocator.AssertNotCalled(suite.T(), "Allocate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BookServiceTestSuite) TestCloseBook_AlreadyClosedIsNoOp() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.admin)

	closedAt := time.Now()
	closed := &domain.Book{BookID: uuid.NewString(), FiscalYear: 2024, IsClosed: true, ClosedAt: &closedAt}
	suite.mockBookRepo.On("FindBookByID", ctx, closed.BookID).Return(closed, nil).Once()

	got, err := suite.service.CloseBook(ctx, closed.BookID, suite.admin.AgentID)

	suite.Require().NoError(err)
	suite.True(got.IsClosed)
	suite.mockBookRepo.AssertNotCalled(suite.T(), "CloseBook", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BookServiceTestSuite) TestAddFunds_RecordsApprovedTopUp() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.admin)

	book := newActiveBook()
	suite.mockBookRepo.On("FindBookByID", ctx, book.BookID).Return(book, nil).Once()
	suite.mockAllocator.On("Allocate", ctx, domain.Issuance, domain.TagTopUp, book.FiscalYear).
		Return("TOP-2026-8XZQ2F", nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).
		Run(func(args mock.Arguments) {
			txn := args.Get(1).(domain.Transaction)
			suite.Equal(domain.Issuance, txn.Type)
			suite.Equal(domain.TagTopUp, txn.Tag)
			suite.Equal(domain.StatusApproved, txn.Status)
			suite.Nil(txn.AgentID, "top-up is a pool-level movement")
			suite.Equal("TOP-2026-8XZQ2F", txn.ReceiptNo)
			suite.NotEmpty(txn.Description)
		}).Return(nil).Once()

	txn, err := suite.service.AddFunds(ctx, book.BookID, decimal.NewFromInt(2500), "", suite.admin.AgentID)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.True(decimal.NewFromInt(2500).Equal(txn.Amount))
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *BookServiceTestSuite) TestAddFunds_InactiveBook() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.admin)

	book := &domain.Book{BookID: uuid.NewString(), FiscalYear: 2025}
	suite.mockBookRepo.On("FindBookByID", ctx, book.BookID).Return(book, nil).Once()

	_, err := suite.service.AddFunds(ctx, book.BookID, decimal.NewFromInt(100), "", suite.admin.AgentID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *BookServiceTestSuite) TestAddFunds_NonPositiveAmount() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.admin)

	_, err := suite.service.AddFunds(ctx, uuid.NewString(), decimal.Zero, "", suite.admin.AgentID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BookServiceTestSuite) TestListBooks_ClampsLimit() {
	ctx := context.Background()
	expectActor(suite.mockAgentRepo, suite.agent)

	suite.mockBookRepo.On("ListBooks", ctx, 20, 0).Return([]domain.Book{}, nil).Once()

	_, err := suite.service.ListBooks(ctx, dto.ListBooksParams{Limit: 5000, Offset: -3}, suite.agent.AgentID)

	suite.Require().NoError(err)
	suite.mockBookRepo.AssertExpectations(suite.T())
}

func TestBookServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BookServiceTestSuite))
}
