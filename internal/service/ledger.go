// Package service provides the business logic layer (use cases).
// LedgerService handles all tracker operations: accounts, categories,
// expenses, incomes, transfers, limits, reports.
package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/walletly/walletly-api/internal/domain"
	"github.com/walletly/walletly-api/internal/infra/observability"
	"github.com/walletly/walletly-api/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var ledgerTracer = otel.Tracer("service/ledger")

// LedgerService orchestrates all tracker operations via the Supabase store.
// Balance-affecting operations serialize per account, so two concurrent
// writes against the same account never interleave their read-check-write
// sequences.
type LedgerService struct {
	store    port.LedgerStore
	catCache port.Cache[[]domain.Category]
	metrics  *observability.Metrics
	logger   *zap.Logger

	accountLocks sync.Map // accountID -> *sync.Mutex
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(store port.LedgerStore, catCache port.Cache[[]domain.Category], metrics *observability.Metrics, logger *zap.Logger) *LedgerService {
	return &LedgerService{store: store, catCache: catCache, metrics: metrics, logger: logger}
}

// lockAccount acquires the per-account mutex and returns its release func.
func (s *LedgerService) lockAccount(accountID string) func() {
	v, _ := s.accountLocks.LoadOrStore(accountID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// lockAccounts acquires the mutexes of all given accounts in lexicographic
// ID order, which keeps concurrent operations over overlapping account sets
// deadlock-free. Duplicate IDs are locked once.
func (s *LedgerService) lockAccounts(ids ...string) func() {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	sort.Strings(unique)

	unlocks := make([]func(), 0, len(unique))
	for _, id := range unique {
		unlocks = append(unlocks, s.lockAccount(id))
	}
	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}

// nextBalance returns the balance after applying a signed delta.
// A result below zero is rejected, which makes every debit path
// sufficiency-checked through the same gate.
func nextBalance(balance, delta float64) (float64, error) {
	next := balance + delta
	if next < 0 {
		return 0, &domain.ErrInsufficientFunds{Available: balance, Required: -delta}
	}
	return next, nil
}

// applyBalanceDelta computes and persists the account's new balance.
// On success the in-memory account reflects the stored value.
func (s *LedgerService) applyBalanceDelta(ctx context.Context, account *domain.Account, delta float64) error {
	next, err := nextBalance(account.Balance, delta)
	if err != nil {
		return err
	}
	if err := s.store.SetAccountBalance(ctx, account.ID, next); err != nil {
		return err
	}
	account.Balance = next
	return nil
}

// applyLimitDelta adjusts currentExpense on the limit covering the category
// and the period the transaction date falls in. Spending in a category with
// no limit for that period is legal and simply untracked.
func (s *LedgerService) applyLimitDelta(ctx context.Context, categoryID string, date time.Time, delta float64) error {
	if delta == 0 {
		return nil
	}
	limit, err := s.store.FindLimit(ctx, categoryID, int(date.Month()), date.Year())
	if err != nil {
		return err
	}
	if limit == nil {
		return nil
	}
	limit.CurrentExpense += delta
	return s.store.UpdateLimit(ctx, limit)
}

// samePeriod reports whether two dates fall in the same limit period.
func samePeriod(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// monthRange returns the [from, to) bounds of a calendar month in UTC.
func monthRange(month, year int) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}
