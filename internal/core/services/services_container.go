package services

import (
	portsrepo "github.com/taskforce-tools/op_funds_app/internal/core/ports/repositories"
	portssvc "github.com/taskforce-tools/op_funds_app/internal/core/ports/services"
)

// NewServiceContainer wires all services against the given repositories.
// The receipt allocator is shared so every record kind draws from the same
// receipt number space.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	allocator := NewReceiptAllocator(repos.TransactionRepo)

	return &portssvc.ServiceContainer{
		Book:        NewBookService(repos.BookRepo, repos.TransactionRepo, repos.AgentRepo, allocator),
		Ledger:      NewLedgerService(repos.BookRepo, repos.TransactionRepo, repos.AgentRepo),
		Transaction: NewTransactionService(repos.TransactionRepo, repos.BookRepo, repos.AgentRepo, allocator),
		FundRequest: NewFundRequestService(repos.FundRequestRepo, repos.BookRepo, repos.AgentRepo, allocator),
		CIPayment:   NewCIPaymentService(repos.CIPaymentRepo, repos.BookRepo, repos.AgentRepo, allocator),
		Agent:       NewAgentService(repos.AgentRepo),
	}
}
