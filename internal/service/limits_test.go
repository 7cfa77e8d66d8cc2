package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/walletly/walletly-api/internal/domain"
)

func TestCreateLimit_CurrentMonthAndZeroExpense(t *testing.T) {
	store := newMemStore()
	store.seedCategory(domain.CategoryExpense, "cat-1", "user-1", "Groceries")

	svc := newTestService(store)

	limit, err := svc.CreateLimit(context.Background(), "user-1", &domain.CreateLimitRequest{
		CategoryID: "cat-1",
		Limit:      fptr(800),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	now := time.Now().UTC()
	if limit.Month != int(now.Month()) || limit.Year != now.Year() {
		t.Errorf("expected current period, got %d/%d", limit.Month, limit.Year)
	}
	if limit.CurrentExpense != 0 {
		t.Errorf("currentExpense must start at zero, got %.2f", limit.CurrentExpense)
	}
}

func TestCreateLimit_DuplicatePeriodRejected(t *testing.T) {
	store := newMemStore()
	store.seedCategory(domain.CategoryExpense, "cat-1", "user-1", "Groceries")
	now := time.Now().UTC()
	store.seedLimit("lim-1", "cat-1", 500, 0, int(now.Month()), now.Year())

	svc := newTestService(store)

	_, err := svc.CreateLimit(context.Background(), "user-1", &domain.CreateLimitRequest{
		CategoryID: "cat-1",
		Limit:      fptr(800),
	})
	var conflict *domain.ErrConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCreateLimit_ForeignCategoryHidden(t *testing.T) {
	store := newMemStore()
	store.seedCategory(domain.CategoryExpense, "cat-1", "user-1", "Groceries")

	svc := newTestService(store)

	_, err := svc.CreateLimit(context.Background(), "user-2", &domain.CreateLimitRequest{
		CategoryID: "cat-1",
		Limit:      fptr(800),
	})
	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListLimits_OnlyRequestedPeriod(t *testing.T) {
	store := newMemStore()
	store.seedCategory(domain.CategoryExpense, "cat-1", "user-1", "Groceries")
	store.seedCategory(domain.CategoryExpense, "cat-2", "user-1", "Transport")
	store.seedLimit("lim-1", "cat-1", 800, 100, 3, 2025)
	store.seedLimit("lim-2", "cat-2", 200, 0, 3, 2025)
	store.seedLimit("lim-3", "cat-1", 800, 0, 4, 2025)

	svc := newTestService(store)

	limits, err := svc.ListLimits(context.Background(), "user-1", 3, 2025)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(limits) != 2 {
		t.Fatalf("expected 2 limits for 3/2025, got %d", len(limits))
	}
}

func TestListLimits_InvalidPeriod(t *testing.T) {
	svc := newTestService(newMemStore())

	_, err := svc.ListLimits(context.Background(), "user-1", 13, 2025)
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation for month 13, got %v", err)
	}
}

func TestUpdateLimit_MovePeriodKeepsCurrentExpense(t *testing.T) {
	store := newMemStore()
	store.seedCategory(domain.CategoryExpense, "cat-1", "user-1", "Groceries")
	store.seedLimit("lim-1", "cat-1", 800, 150, 3, 2025)

	svc := newTestService(store)

	month, year := 4, 2025
	updated, err := svc.UpdateLimit(context.Background(), "user-1", "lim-1", &domain.UpdateLimitRequest{
		Month: &month,
		Year:  &year,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Month != 4 || updated.Year != 2025 {
		t.Errorf("expected period 4/2025, got %d/%d", updated.Month, updated.Year)
	}
	if updated.CurrentExpense != 150 {
		t.Errorf("currentExpense must be untouched by updates, got %.2f", updated.CurrentExpense)
	}
}

func TestUpdateLimit_CollidingPeriodRejected(t *testing.T) {
	store := newMemStore()
	store.seedCategory(domain.CategoryExpense, "cat-1", "user-1", "Groceries")
	store.seedLimit("lim-1", "cat-1", 800, 0, 3, 2025)
	store.seedLimit("lim-2", "cat-1", 500, 0, 4, 2025)

	svc := newTestService(store)

	month := 4
	_, err := svc.UpdateLimit(context.Background(), "user-1", "lim-1", &domain.UpdateLimitRequest{
		Month: &month,
	})
	var conflict *domain.ErrConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestDeleteLimit_OrphanedCategoryStillDeletable(t *testing.T) {
	store := newMemStore()
	store.seedLimit("lim-1", "cat-gone", 800, 0, 3, 2025)

	svc := newTestService(store)

	if err := svc.DeleteLimit(context.Background(), "user-1", "lim-1"); err != nil {
		t.Fatalf("a limit on a deleted category must be cleanable, got %v", err)
	}
}

func TestExpenseOverLimitCeilingStillAccepted(t *testing.T) {
	store := newMemStore()
	store.seedAccount("acc-1", "user-1", "Checking", 5000)
	store.seedCategory(domain.CategoryExpense, "cat-1", "user-1", "Groceries")
	now := time.Now().UTC()
	store.seedLimit("lim-1", "cat-1", 100, 0, int(now.Month()), now.Year())

	svc := newTestService(store)

	// The ceiling is advisory; spending past it is tracked, not blocked.
	if _, err := svc.CreateExpense(context.Background(), "user-1", &domain.CreateExpenseRequest{
		CategoryID: "cat-1", AccountID: "acc-1", Amount: fptr(300),
	}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := store.limitCurrent("lim-1"); got != 300 {
		t.Errorf("expected currentExpense 300 past the ceiling, got %.2f", got)
	}
}
