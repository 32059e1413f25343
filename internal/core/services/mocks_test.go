package services_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	portsrepo "github.com/taskforce-tools/op_funds_app/internal/core/ports/repositories"
)

// MockAgentRepository is a mock type for the AgentRepositoryFacade interface
type MockAgentRepository struct {
	mock.Mock
}

func (m *MockAgentRepository) FindAgentByID(ctx context.Context, agentID string) (*domain.Agent, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agent), args.Error(1)
}

func (m *MockAgentRepository) FindAgentByBadgeNumber(ctx context.Context, badgeNumber string) (*domain.Agent, error) {
	args := m.Called(ctx, badgeNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agent), args.Error(1)
}

func (m *MockAgentRepository) FindAgentCredentialsByBadge(ctx context.Context, badgeNumber string) (*domain.AgentCredentials, error) {
	args := m.Called(ctx, badgeNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AgentCredentials), args.Error(1)
}

func (m *MockAgentRepository) ListAgents(ctx context.Context, limit int, offset int) ([]domain.Agent, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Agent), args.Error(1)
}

func (m *MockAgentRepository) SaveAgent(ctx context.Context, agent domain.Agent, passwordHash string) error {
	args := m.Called(ctx, agent, passwordHash)
	return args.Error(0)
}

func (m *MockAgentRepository) UpdateAgent(ctx context.Context, agent domain.Agent) error {
	args := m.Called(ctx, agent)
	return args.Error(0)
}

// MockBookRepository is a mock type for the BookRepositoryFacade interface
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) FindBookByID(ctx context.Context, bookID string) (*domain.Book, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *MockBookRepository) FindBookByFiscalYear(ctx context.Context, fiscalYear int) (*domain.Book, error) {
	args := m.Called(ctx, fiscalYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *MockBookRepository) FindActiveBook(ctx context.Context) (*domain.Book, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *MockBookRepository) ListBooks(ctx context.Context, limit int, offset int) ([]domain.Book, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Book), args.Error(1)
}

func (m *MockBookRepository) SaveBook(ctx context.Context, book domain.Book, seedTransaction *domain.Transaction) error {
	args := m.Called(ctx, book, seedTransaction)
	return args.Error(0)
}

func (m *MockBookRepository) ActivateBook(ctx context.Context, bookID string, seedTransaction *domain.Transaction, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, bookID, seedTransaction, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockBookRepository) CloseBook(ctx context.Context, bookID string, closedBy string, closedAt time.Time) error {
	args := m.Called(ctx, bookID, closedBy, closedAt)
	return args.Error(0)
}

// MockTransactionRepository is a mock type for the TransactionRepositoryFacade interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionsByBookID(ctx context.Context, bookID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, bookID string, filter portsrepo.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, bookID, filter, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

func (m *MockTransactionRepository) ReceiptNoExists(ctx context.Context, receiptNo string) (bool, error) {
	args := m.Called(ctx, receiptNo)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransactionStatusIfPending(ctx context.Context, transactionID string, status domain.RecordStatus, reviewerID string, reviewNotes string, reviewedAt time.Time) error {
	args := m.Called(ctx, transactionID, status, reviewerID, reviewNotes, reviewedAt)
	return args.Error(0)
}

func (m *MockTransactionRepository) ResubmitTransactionIfRejected(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransactionIfNotApproved(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

// MockFundRequestRepository is a mock type for the FundRequestRepositoryFacade interface
type MockFundRequestRepository struct {
	mock.Mock
}

func (m *MockFundRequestRepository) FindFundRequestByID(ctx context.Context, fundRequestID string) (*domain.FundRequest, error) {
	args := m.Called(ctx, fundRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FundRequest), args.Error(1)
}

func (m *MockFundRequestRepository) ListFundRequests(ctx context.Context, bookID string, filter portsrepo.ApprovalFilter, limit int, nextToken *string) ([]domain.FundRequest, *string, error) {
	args := m.Called(ctx, bookID, filter, limit, nextToken)
	var requests []domain.FundRequest
	if args.Get(0) != nil {
		requests = args.Get(0).([]domain.FundRequest)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return requests, token, args.Error(2)
}

func (m *MockFundRequestRepository) SaveFundRequest(ctx context.Context, request domain.FundRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockFundRequestRepository) ApproveFundRequest(ctx context.Context, fundRequestID string, reviewerID string, linkedTxn domain.Transaction, reviewedAt time.Time) error {
	args := m.Called(ctx, fundRequestID, reviewerID, linkedTxn, reviewedAt)
	return args.Error(0)
}

func (m *MockFundRequestRepository) RejectFundRequestIfPending(ctx context.Context, fundRequestID string, reviewerID string, reason string, reviewedAt time.Time) error {
	args := m.Called(ctx, fundRequestID, reviewerID, reason, reviewedAt)
	return args.Error(0)
}

func (m *MockFundRequestRepository) ResubmitFundRequestIfRejected(ctx context.Context, request domain.FundRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockFundRequestRepository) DeleteFundRequestIfNotApproved(ctx context.Context, fundRequestID string) error {
	args := m.Called(ctx, fundRequestID)
	return args.Error(0)
}

// MockCIPaymentRepository is a mock type for the CIPaymentRepositoryFacade interface
type MockCIPaymentRepository struct {
	mock.Mock
}

func (m *MockCIPaymentRepository) FindCIPaymentByID(ctx context.Context, ciPaymentID string) (*domain.CIPayment, error) {
	args := m.Called(ctx, ciPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CIPayment), args.Error(1)
}

func (m *MockCIPaymentRepository) ListCIPayments(ctx context.Context, bookID string, filter portsrepo.ApprovalFilter, limit int, nextToken *string) ([]domain.CIPayment, *string, error) {
	args := m.Called(ctx, bookID, filter, limit, nextToken)
	var payments []domain.CIPayment
	if args.Get(0) != nil {
		payments = args.Get(0).([]domain.CIPayment)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return payments, token, args.Error(2)
}

func (m *MockCIPaymentRepository) SaveCIPayment(ctx context.Context, payment domain.CIPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockCIPaymentRepository) ApproveCIPayment(ctx context.Context, ciPaymentID string, reviewerID string, approverSignatureRef string, approverPrintedName string, linkedTxn domain.Transaction, reviewedAt time.Time) error {
	args := m.Called(ctx, ciPaymentID, reviewerID, approverSignatureRef, approverPrintedName, linkedTxn, reviewedAt)
	return args.Error(0)
}

func (m *MockCIPaymentRepository) RejectCIPaymentIfPending(ctx context.Context, ciPaymentID string, reviewerID string, reason string, reviewedAt time.Time) error {
	args := m.Called(ctx, ciPaymentID, reviewerID, reason, reviewedAt)
	return args.Error(0)
}

func (m *MockCIPaymentRepository) ResubmitCIPaymentIfRejected(ctx context.Context, payment domain.CIPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockCIPaymentRepository) DeleteCIPaymentIfNotApproved(ctx context.Context, ciPaymentID string) error {
	args := m.Called(ctx, ciPaymentID)
	return args.Error(0)
}

// MockReceiptAllocator is a mock type for the ReceiptAllocator interface
type MockReceiptAllocator struct {
	mock.Mock
}

func (m *MockReceiptAllocator) Allocate(ctx context.Context, txnType domain.TransactionType, tag domain.TransactionTag, fiscalYear int) (string, error) {
	args := m.Called(ctx, txnType, tag, fiscalYear)
	return args.String(0), args.Error(1)
}

// --- Shared test fixtures ---

func strPtr(s string) *string { return &s }

func newTestAdmin() *domain.Agent {
	return &domain.Agent{
		AgentID:     uuid.NewString(),
		Name:        "Commander Vale",
		BadgeNumber: "CMD-001",
		Role:        domain.RoleAdmin,
		IsActive:    true,
	}
}

func newTestAgent() *domain.Agent {
	return &domain.Agent{
		AgentID:     uuid.NewString(),
		Name:        "Agent Reyes",
		BadgeNumber: "TF-104",
		Role:        domain.RoleAgent,
		IsActive:    true,
	}
}

func newActiveBook() *domain.Book {
	return &domain.Book{
		BookID:         uuid.NewString(),
		FiscalYear:     2026,
		StartingAmount: decimal.NewFromInt(10000),
		IsActive:       true,
	}
}

// expectActor wires the FindAgentByID lookup every service call performs to
// resolve its actor.
func expectActor(repo *MockAgentRepository, agent *domain.Agent) {
	repo.On("FindAgentByID", mock.Anything, agent.AgentID).Return(agent, nil)
}
