package services

import (
	"context"

	"github.com/taskforce-tools/op_funds_app/internal/dto"
)

// LedgerSvcFacade exposes the derived balance views. Every presentation
// surface goes through these methods; no caller re-derives sums locally.
type LedgerSvcFacade interface {
	// GetBookBalances recomputes pool balance, safe cash and per-agent
	// cash-on-hand from the book's full transaction set.
	GetBookBalances(ctx context.Context, bookID string, actorID string) (*dto.BookBalancesResponse, error)

	// GetBookReport recomputes balances over an optional date window and
	// adds aggregate totals, for monthly-report style views.
	GetBookReport(ctx context.Context, bookID string, params dto.BookReportParams, actorID string) (*dto.BookReportResponse, error)
}
