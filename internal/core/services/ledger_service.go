package services

import (
	"context"
	"sort"
	"time"

	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	portsrepo "github.com/taskforce-tools/op_funds_app/internal/core/ports/repositories"
	portssvc "github.com/taskforce-tools/op_funds_app/internal/core/ports/services"
	"github.com/taskforce-tools/op_funds_app/internal/dto"
	"github.com/taskforce-tools/op_funds_app/internal/utils/accounting"
)

type ledgerService struct {
	BaseService
	bookRepo portsrepo.BookReader
	txnRepo  portsrepo.TransactionReader
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// NewLedgerService creates a new ledger service instance.
func NewLedgerService(bookRepo portsrepo.BookReader, txnRepo portsrepo.TransactionReader, agentRepo portsrepo.AgentReader) portssvc.LedgerSvcFacade {
	return &ledgerService{
		BaseService: BaseService{AgentRepo: agentRepo},
		bookRepo:    bookRepo,
		txnRepo:     txnRepo,
	}
}

// GetBookBalances recomputes the book's balance figures from its full
// transaction set. Balances are always derived on read; nothing in the
// database stores a running total.
func (s *ledgerService) GetBookBalances(ctx context.Context, bookID string, actorID string) (*dto.BookBalancesResponse, error) {
	if _, err := s.ResolveActor(ctx, actorID); err != nil {
		return nil, err
	}

	book, err := s.bookRepo.FindBookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	txns, err := s.txnRepo.FindTransactionsByBookID(ctx, bookID)
	if err != nil {
		s.LogError(ctx, err, "failed to load transactions for balance computation", "bookID", bookID)
		return nil, err
	}

	balances := accounting.ComputeBalances(txns)
	resp := toBalancesResponse(book, balances)
	return &resp, nil
}

// GetBookReport recomputes balances over an optional [from, to] window and
// adds the aggregate totals the monthly report prints.
func (s *ledgerService) GetBookReport(ctx context.Context, bookID string, params dto.BookReportParams, actorID string) (*dto.BookReportResponse, error) {
	if _, err := s.ResolveActor(ctx, actorID); err != nil {
		return nil, err
	}

	book, err := s.bookRepo.FindBookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	txns, err := s.txnRepo.FindTransactionsByBookID(ctx, bookID)
	if err != nil {
		s.LogError(ctx, err, "failed to load transactions for report", "bookID", bookID)
		return nil, err
	}

	var from, to time.Time
	if params.From != nil {
		from = *params.From
	}
	if params.To != nil {
		// Include the whole end day when only a date was given.
		to = params.To.Add(24*time.Hour - time.Nanosecond)
	}

	windowed := accounting.FilterWindow(txns, from, to)
	balances := accounting.ComputeBalances(windowed)

	resp := &dto.BookReportResponse{
		BookBalancesResponse: toBalancesResponse(book, balances),
		PeriodFrom:           params.From,
		PeriodTo:             params.To,
		TotalSpent:           accounting.TotalMatching(windowed, domain.Spending, nil),
		TotalReturned:        accounting.TotalMatching(windowed, domain.Return, nil),
		TotalIssued: accounting.TotalMatching(windowed, domain.Issuance, func(t *domain.Transaction) bool {
			return !t.IsPoolLevel()
		}),
		TotalTopUps: accounting.TotalMatching(windowed, domain.Issuance, func(t *domain.Transaction) bool {
			return t.IsPoolLevel() && t.Tag == domain.TagTopUp
		}),
	}
	return resp, nil
}

func toBalancesResponse(book *domain.Book, balances accounting.BookBalances) dto.BookBalancesResponse {
	entries := make([]dto.AgentCashEntry, 0, len(balances.AgentCash))
	for agentID, cash := range balances.AgentCash {
		entries = append(entries, dto.AgentCashEntry{AgentID: agentID, CashOnHand: cash})
	}
	// Map iteration order is random; sort for a stable response body.
	sort.Slice(entries, func(i, j int) bool { return entries[i].AgentID < entries[j].AgentID })

	return dto.BookBalancesResponse{
		BookID:         book.BookID,
		FiscalYear:     book.FiscalYear,
		StartingAmount: book.StartingAmount,
		PoolBalance:    balances.PoolBalance,
		SafeCash:       balances.SafeCash,
		AgentCash:      entries,
	}
}

