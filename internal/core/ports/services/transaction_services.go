package services

import (
	"context"

	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	"github.com/taskforce-tools/op_funds_app/internal/dto"
)

// TransactionReaderSvc defines read operations for transactions
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a transaction, subject to ownership rules.
	GetTransactionByID(ctx context.Context, transactionID string, actorID string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered, token-paginated page of a
	// book's transactions. Non-admin actors only see their own.
	ListTransactions(ctx context.Context, bookID string, params dto.ListTransactionsParams, actorID string) (*dto.ListTransactionsResponse, error)
}

// TransactionWriterSvc defines create and workflow operations for transactions
type TransactionWriterSvc interface {
	// CreateTransaction records a fund movement. Agent-created spending and
	// returns start PENDING; admin-created transactions are auto-approved.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, actorID string) (*domain.Transaction, error)

	// ApproveTransaction moves a pending transaction to APPROVED (admin only).
	ApproveTransaction(ctx context.Context, transactionID string, reviewNotes string, actorID string) (*domain.Transaction, error)

	// RejectTransaction moves a pending transaction to REJECTED (admin only).
	RejectTransaction(ctx context.Context, transactionID string, reason string, actorID string) (*domain.Transaction, error)

	// ResubmitTransaction edits a rejected transaction and resets it to
	// PENDING (owner only).
	ResubmitTransaction(ctx context.Context, transactionID string, req dto.ResubmitTransactionRequest, actorID string) (*domain.Transaction, error)

	// DeleteTransaction removes a non-approved transaction, subject to
	// ownership rules. Approved transactions can never be deleted.
	DeleteTransaction(ctx context.Context, transactionID string, actorID string) error
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
