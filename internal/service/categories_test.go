package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/walletly/walletly-api/internal/domain"
)

func TestCreateCategory_SameNameAllowedAcrossKinds(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	if _, err := svc.CreateCategory(context.Background(), domain.CategoryExpense, "user-1", &domain.CategoryRequest{Name: "Misc"}); err != nil {
		t.Fatalf("expense create: %v", err)
	}
	if _, err := svc.CreateCategory(context.Background(), domain.CategoryIncome, "user-1", &domain.CategoryRequest{Name: "Misc"}); err != nil {
		t.Fatalf("the same name on the other kind must be allowed, got %v", err)
	}

	_, err := svc.CreateCategory(context.Background(), domain.CategoryExpense, "user-1", &domain.CategoryRequest{Name: "misc"})
	var conflict *domain.ErrConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ErrConflict on duplicate within a kind, got %v", err)
	}
}

func TestListCategories_ServedFromCacheAfterFirstRead(t *testing.T) {
	store := newMemStore()
	store.seedCategory(domain.CategoryExpense, "cat-1", "user-1", "Groceries")

	svc := newTestService(store)

	first, err := svc.ListCategories(context.Background(), domain.CategoryExpense, "user-1")
	if err != nil {
		t.Fatalf("first list: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 category, got %d", len(first))
	}

	// A write behind the cache's back is invisible until invalidation.
	store.seedCategory(domain.CategoryExpense, "cat-2", "user-1", "Transport")
	second, err := svc.ListCategories(context.Background(), domain.CategoryExpense, "user-1")
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if len(second) != 1 {
		t.Errorf("expected the cached listing, got %d categories", len(second))
	}

	// Creating through the service invalidates, so the next read is fresh.
	if _, err := svc.CreateCategory(context.Background(), domain.CategoryExpense, "user-1", &domain.CategoryRequest{Name: "Health"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	third, err := svc.ListCategories(context.Background(), domain.CategoryExpense, "user-1")
	if err != nil {
		t.Fatalf("third list: %v", err)
	}
	if len(third) != 3 {
		t.Errorf("expected 3 categories after invalidation, got %d", len(third))
	}
}

func TestRenameCategory_ForeignCategoryHidden(t *testing.T) {
	store := newMemStore()
	store.seedCategory(domain.CategoryExpense, "cat-1", "user-1", "Groceries")

	svc := newTestService(store)

	_, err := svc.RenameCategory(context.Background(), domain.CategoryExpense, "user-2", "cat-1", &domain.CategoryRequest{Name: "Stolen"})
	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCategory_ResolvesKindByID(t *testing.T) {
	store := newMemStore()
	store.seedCategory(domain.CategoryExpense, "cat-e", "user-1", "Groceries")
	store.seedCategory(domain.CategoryIncome, "cat-i", "user-1", "Salary")

	svc := newTestService(store)

	deleted, err := svc.DeleteCategory(context.Background(), "user-1", "cat-i")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.Type != domain.CategoryIncome {
		t.Errorf("expected income kind, got %s", deleted.Type)
	}

	deleted, err = svc.DeleteCategory(context.Background(), "user-1", "cat-e")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.Type != domain.CategoryExpense {
		t.Errorf("expected expense kind, got %s", deleted.Type)
	}
}

func TestDeleteCategory_BlockedByCurrentMonthUsage(t *testing.T) {
	store := newMemStore()
	store.seedAccount("acc-1", "user-1", "Checking", 1000)
	store.seedCategory(domain.CategoryExpense, "cat-1", "user-1", "Groceries")

	svc := newTestService(store)
	if _, err := svc.CreateExpense(context.Background(), "user-1", &domain.CreateExpenseRequest{
		CategoryID: "cat-1", AccountID: "acc-1", Amount: fptr(50),
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	_, err := svc.DeleteCategory(context.Background(), "user-1", "cat-1")
	var conflict *domain.ErrConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestDeleteCategory_OldTransactionsDoNotBlock(t *testing.T) {
	store := newMemStore()
	store.seedAccount("acc-1", "user-1", "Checking", 1000)
	store.seedCategory(domain.CategoryExpense, "cat-1", "user-1", "Groceries")

	svc := newTestService(store)
	if _, err := svc.CreateExpense(context.Background(), "user-1", &domain.CreateExpenseRequest{
		CategoryID: "cat-1", AccountID: "acc-1", Amount: fptr(50), Date: "2024-06-15",
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	if _, err := svc.DeleteCategory(context.Background(), "user-1", "cat-1"); err != nil {
		t.Fatalf("a category with only historical usage must be deletable, got %v", err)
	}
}
