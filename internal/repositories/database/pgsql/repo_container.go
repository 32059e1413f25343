package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/taskforce-tools/op_funds_app/internal/core/ports/repositories"
)

// NewRepositoryProvider initializes all pgsql repositories against one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	bookRepo := newPgxBookRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool)
	fundRequestRepo := newPgxFundRequestRepository(dbPool)
	ciPaymentRepo := newPgxCIPaymentRepository(dbPool)
	agentRepo := newPgxAgentRepository(dbPool)

	return portsrepo.RepositoryProvider{
		BookRepo:        bookRepo,
		TransactionRepo: transactionRepo,
		FundRequestRepo: fundRequestRepo,
		CIPaymentRepo:   ciPaymentRepo,
		AgentRepo:       agentRepo,
	}
}
