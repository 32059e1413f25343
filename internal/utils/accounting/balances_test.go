package accounting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
)

func strPtr(s string) *string { return &s }

func approvedTxn(txnType domain.TransactionType, tag domain.TransactionTag, amount int64, agentID *string, createdAt time.Time) domain.Transaction {
	return domain.Transaction{
		Type:        txnType,
		Tag:         tag,
		Amount:      decimal.NewFromInt(amount),
		Status:      domain.StatusApproved,
		AgentID:     agentID,
		AuditFields: domain.AuditFields{CreatedAt: createdAt},
	}
}

func TestComputeBalances(t *testing.T) {
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	agentA := strPtr("agent-a")
	agentB := strPtr("agent-b")

	txns := []domain.Transaction{
		approvedTxn(domain.Issuance, domain.TagInitialFunding, 1000, nil, base),
		approvedTxn(domain.Issuance, domain.TagTopUp, 500, nil, base.Add(time.Hour)),
		approvedTxn(domain.Issuance, domain.TagRegular, 200, agentA, base.Add(2*time.Hour)),
		approvedTxn(domain.Spending, domain.TagRegular, 50, agentA, base.Add(3*time.Hour)),
		approvedTxn(domain.Return, domain.TagRegular, 100, agentA, base.Add(4*time.Hour)),
		approvedTxn(domain.Issuance, domain.TagRegular, 300, agentB, base.Add(5*time.Hour)),
	}
	// Pending and rejected records must not contribute.
	pending := approvedTxn(domain.Spending, domain.TagRegular, 9999, agentB, base.Add(6*time.Hour))
	pending.Status = domain.StatusPending
	rejected := approvedTxn(domain.Issuance, domain.TagRegular, 8888, agentB, base.Add(7*time.Hour))
	rejected.Status = domain.StatusRejected
	txns = append(txns, pending, rejected)

	balances := ComputeBalances(txns)

	// Pool: 1000 + 500 (pool issuances) - 50 (spending). Returns never
	// change the pool total.
	assert.True(t, decimal.NewFromInt(1450).Equal(balances.PoolBalance), "pool = %s", balances.PoolBalance)

	// Agent A: +200 issued, -50 spent, -100 returned.
	assert.True(t, decimal.NewFromInt(50).Equal(balances.AgentCash["agent-a"]))
	assert.True(t, decimal.NewFromInt(300).Equal(balances.AgentCash["agent-b"]))

	// Safe: pool minus everything checked out (50 + 300).
	assert.True(t, decimal.NewFromInt(1100).Equal(balances.SafeCash), "safe = %s", balances.SafeCash)
}

func TestComputeBalancesOrderIndependent(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	agentA := strPtr("agent-a")
	txns := []domain.Transaction{
		approvedTxn(domain.Issuance, domain.TagInitialFunding, 700, nil, base),
		approvedTxn(domain.Issuance, domain.TagRegular, 250, agentA, base.Add(time.Hour)),
		approvedTxn(domain.Spending, domain.TagRegular, 75, agentA, base.Add(2*time.Hour)),
		approvedTxn(domain.Return, domain.TagRegular, 25, agentA, base.Add(3*time.Hour)),
	}

	forward := ComputeBalances(txns)

	reversed := make([]domain.Transaction, 0, len(txns))
	for i := len(txns) - 1; i >= 0; i-- {
		reversed = append(reversed, txns[i])
	}
	backward := ComputeBalances(reversed)

	assert.True(t, forward.PoolBalance.Equal(backward.PoolBalance))
	assert.True(t, forward.SafeCash.Equal(backward.SafeCash))
	assert.True(t, forward.AgentCash["agent-a"].Equal(backward.AgentCash["agent-a"]))
}

func TestComputeBalancesReturnsOnlyMoveCash(t *testing.T) {
	base := time.Now()
	agentA := strPtr("agent-a")
	txns := []domain.Transaction{
		approvedTxn(domain.Issuance, domain.TagInitialFunding, 1000, nil, base),
		approvedTxn(domain.Issuance, domain.TagRegular, 400, agentA, base),
	}
	before := ComputeBalances(txns)

	txns = append(txns, approvedTxn(domain.Return, domain.TagRegular, 400, agentA, base))
	after := ComputeBalances(txns)

	// The return moves the cash from the agent's hand back to the safe
	// without touching the pool total.
	assert.True(t, before.PoolBalance.Equal(after.PoolBalance))
	assert.True(t, after.AgentCash["agent-a"].IsZero())
	assert.True(t, after.SafeCash.Equal(after.PoolBalance))
}

func TestComputeBalancesAsOf(t *testing.T) {
	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	agentA := strPtr("agent-a")

	txns := []domain.Transaction{
		approvedTxn(domain.Issuance, domain.TagInitialFunding, 1000, nil, jan),
		approvedTxn(domain.Spending, domain.TagRegular, 100, agentA, feb),
		approvedTxn(domain.Spending, domain.TagRegular, 200, agentA, mar),
	}

	// Only the February spending falls inside the window.
	windowed := ComputeBalancesAsOf(txns, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC))
	assert.True(t, decimal.NewFromInt(-100).Equal(windowed.PoolBalance))

	// Zero bounds disable the respective side of the range.
	all := ComputeBalancesAsOf(txns, time.Time{}, time.Time{})
	assert.True(t, decimal.NewFromInt(700).Equal(all.PoolBalance))

	upTo := ComputeBalancesAsOf(txns, time.Time{}, feb)
	assert.True(t, decimal.NewFromInt(900).Equal(upTo.PoolBalance))
}

func TestInitialFunding(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	agentA := strPtr("agent-a")

	t.Run("tagged transaction wins regardless of order", func(t *testing.T) {
		topUp := approvedTxn(domain.Issuance, domain.TagTopUp, 500, nil, base)
		seed := approvedTxn(domain.Issuance, domain.TagInitialFunding, 1000, nil, base.Add(time.Hour))
		got := InitialFunding([]domain.Transaction{topUp, seed})
		assert.NotNil(t, got)
		assert.Equal(t, domain.TagInitialFunding, got.Tag)
	})

	t.Run("fallback to earliest approved pool issuance", func(t *testing.T) {
		later := approvedTxn(domain.Issuance, domain.TagRegular, 500, nil, base.Add(time.Hour))
		earliest := approvedTxn(domain.Issuance, domain.TagRegular, 1000, nil, base)
		agentIssuance := approvedTxn(domain.Issuance, domain.TagRegular, 42, agentA, base.Add(-time.Hour))
		got := InitialFunding([]domain.Transaction{later, agentIssuance, earliest})
		assert.NotNil(t, got)
		assert.True(t, decimal.NewFromInt(1000).Equal(got.Amount))
	})

	t.Run("no pool issuance means no seed", func(t *testing.T) {
		spending := approvedTxn(domain.Spending, domain.TagRegular, 50, agentA, base)
		assert.Nil(t, InitialFunding([]domain.Transaction{spending}))
	})
}

func TestTotalByType(t *testing.T) {
	base := time.Now()
	agentA := strPtr("agent-a")
	agentB := strPtr("agent-b")

	txns := []domain.Transaction{
		approvedTxn(domain.Issuance, domain.TagInitialFunding, 1000, nil, base),
		approvedTxn(domain.Issuance, domain.TagRegular, 200, agentA, base),
		approvedTxn(domain.Spending, domain.TagRegular, 50, agentA, base),
		approvedTxn(domain.Spending, domain.TagRegular, 70, agentB, base),
	}

	// Pool scope only counts pool-level rows.
	assert.True(t, decimal.NewFromInt(1000).Equal(TotalByType(txns, domain.Issuance, nil)))

	// Agent scope only counts that agent's rows.
	assert.True(t, decimal.NewFromInt(50).Equal(TotalByType(txns, domain.Spending, agentA)))
	assert.True(t, decimal.NewFromInt(70).Equal(TotalByType(txns, domain.Spending, agentB)))
}

func TestTotalMatching(t *testing.T) {
	base := time.Now()
	agentA := strPtr("agent-a")

	txns := []domain.Transaction{
		approvedTxn(domain.Issuance, domain.TagInitialFunding, 1000, nil, base),
		approvedTxn(domain.Issuance, domain.TagTopUp, 400, nil, base),
		approvedTxn(domain.Issuance, domain.TagRegular, 200, agentA, base),
		approvedTxn(domain.Spending, domain.TagRegular, 50, agentA, base),
	}
	pending := approvedTxn(domain.Spending, domain.TagRegular, 999, agentA, base)
	pending.Status = domain.StatusPending
	txns = append(txns, pending)

	// Nil predicate counts every approved row of the type.
	assert.True(t, decimal.NewFromInt(1600).Equal(TotalMatching(txns, domain.Issuance, nil)))
	assert.True(t, decimal.NewFromInt(50).Equal(TotalMatching(txns, domain.Spending, nil)))

	// Predicate narrows within the type: pool-level top-ups only.
	topUps := TotalMatching(txns, domain.Issuance, func(txn *domain.Transaction) bool {
		return txn.IsPoolLevel() && txn.Tag == domain.TagTopUp
	})
	assert.True(t, decimal.NewFromInt(400).Equal(topUps))
}

func TestFilterWindow(t *testing.T) {
	base := time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)
	early := approvedTxn(domain.Issuance, domain.TagInitialFunding, 1000, nil, base.AddDate(0, -1, 0))
	inside := approvedTxn(domain.Spending, domain.TagRegular, 50, strPtr("agent-a"), base)
	late := approvedTxn(domain.Spending, domain.TagRegular, 70, strPtr("agent-a"), base.AddDate(0, 1, 0))
	txns := []domain.Transaction{early, inside, late}

	from := base.AddDate(0, 0, -7)
	to := base.AddDate(0, 0, 7)

	windowed := FilterWindow(txns, from, to)
	if assert.Len(t, windowed, 1) {
		assert.True(t, inside.Amount.Equal(windowed[0].Amount))
	}

	// Zero bounds disable that side of the range.
	assert.Len(t, FilterWindow(txns, time.Time{}, to), 2)
	assert.Len(t, FilterWindow(txns, from, time.Time{}), 2)
	assert.Len(t, FilterWindow(txns, time.Time{}, time.Time{}), 3)
}
