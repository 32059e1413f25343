package accounting

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
)

// BookBalances holds the derived balance figures for one book. All figures
// are recomputed from the full transaction set on every read; there is no
// incrementally maintained running total.
type BookBalances struct {
	// PoolBalance is the sum of approved pool-level issuances (initial
	// funding and top-ups) minus the sum of all approved spending. Returns
	// never change the pool balance: spending already removed the cash from
	// the pool total, a return only moves it from an agent's hand back into
	// the safe.
	PoolBalance decimal.Decimal
	// SafeCash is the portion of the pool not currently checked out to any
	// agent: PoolBalance minus the sum of all agents' cash on hand.
	SafeCash decimal.Decimal
	// AgentCash maps agent ID to that agent's current cash on hand.
	AgentCash map[string]decimal.Decimal
}

// ComputeBalances folds the given transaction set into balance figures.
// Only approved transactions contribute; pending and rejected ones are
// ignored. The fold is a commutative sum, so the result is independent of
// transaction order.
func ComputeBalances(transactions []domain.Transaction) BookBalances {
	pool := decimal.Zero
	agentCash := make(map[string]decimal.Decimal)

	for _, txn := range transactions {
		if txn.Status != domain.StatusApproved {
			continue
		}

		switch txn.Type {
		case domain.Issuance:
			if txn.IsPoolLevel() {
				pool = pool.Add(txn.Amount)
			} else {
				agentID := *txn.AgentID
				agentCash[agentID] = agentCash[agentID].Add(txn.Amount)
			}
		case domain.Spending:
			// Spending reduces the pool regardless of which agent performed
			// it; the cash has left custody entirely.
			pool = pool.Sub(txn.Amount)
			if !txn.IsPoolLevel() {
				agentID := *txn.AgentID
				agentCash[agentID] = agentCash[agentID].Sub(txn.Amount)
			}
		case domain.Return:
			if !txn.IsPoolLevel() {
				agentID := *txn.AgentID
				agentCash[agentID] = agentCash[agentID].Sub(txn.Amount)
			}
		}
	}

	held := decimal.Zero
	for _, cash := range agentCash {
		held = held.Add(cash)
	}

	return BookBalances{
		PoolBalance: pool,
		SafeCash:    pool.Sub(held),
		AgentCash:   agentCash,
	}
}

// ComputeBalancesAsOf recomputes balances from the subset of transactions
// whose creation time falls within [from, to]. A zero bound disables that
// side of the range. Used for monthly-report style views.
func ComputeBalancesAsOf(transactions []domain.Transaction, from, to time.Time) BookBalances {
	return ComputeBalances(FilterWindow(transactions, from, to))
}

// FilterWindow returns the transactions whose creation time falls within
// [from, to]. A zero bound disables that side of the range.
func FilterWindow(transactions []domain.Transaction, from, to time.Time) []domain.Transaction {
	if from.IsZero() && to.IsZero() {
		return transactions
	}
	filtered := make([]domain.Transaction, 0, len(transactions))
	for _, txn := range transactions {
		if !from.IsZero() && txn.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && txn.CreatedAt.After(to) {
			continue
		}
		filtered = append(filtered, txn)
	}
	return filtered
}

// InitialFunding returns the transaction that seeded the book's pool, or nil
// if the book has none yet. Transactions tagged INITIAL_FUNDING win; for
// records imported without tags the earliest approved pool-level issuance is
// the documented fallback rule. Description text is never consulted.
func InitialFunding(transactions []domain.Transaction) *domain.Transaction {
	var earliest *domain.Transaction
	for i := range transactions {
		txn := &transactions[i]
		if txn.Status != domain.StatusApproved || txn.Type != domain.Issuance || !txn.IsPoolLevel() {
			continue
		}
		if txn.Tag == domain.TagInitialFunding {
			return txn
		}
		if earliest == nil || txn.CreatedAt.Before(earliest.CreatedAt) {
			earliest = txn
		}
	}
	return earliest
}

// TotalByType sums the approved transactions of one type, optionally scoped
// to a single agent (nil agentID means pool-level only).
func TotalByType(transactions []domain.Transaction, txnType domain.TransactionType, agentID *string) decimal.Decimal {
	return TotalMatching(transactions, txnType, func(txn *domain.Transaction) bool {
		if agentID == nil {
			return txn.IsPoolLevel()
		}
		return !txn.IsPoolLevel() && *txn.AgentID == *agentID
	})
}

// TotalMatching sums the approved transactions of one type that satisfy the
// given predicate. A nil predicate includes every transaction of that type.
func TotalMatching(transactions []domain.Transaction, txnType domain.TransactionType, match func(*domain.Transaction) bool) decimal.Decimal {
	total := decimal.Zero
	for i := range transactions {
		txn := &transactions[i]
		if txn.Status != domain.StatusApproved || txn.Type != txnType {
			continue
		}
		if match != nil && !match(txn) {
			continue
		}
		total = total.Add(txn.Amount)
	}
	return total
}
