package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/walletly/walletly-api/internal/domain"
)

func TestCreateExpense_DebitsAccountAndTracksLimit(t *testing.T) {
	store := newMemStore()
	store.seedAccount("acc-1", "user-1", "Checking", 2000)
	store.seedCategory(domain.CategoryExpense, "cat-1", "user-1", "Groceries")
	now := time.Now().UTC()
	store.seedLimit("lim-1", "cat-1", 800, 0, int(now.Month()), now.Year())

	svc := newTestService(store)

	expense, err := svc.CreateExpense(context.Background(), "user-1", &domain.CreateExpenseRequest{
		CategoryID: "cat-1",
		AccountID:  "acc-1",
		Amount:     fptr(500),
		Note:       "weekly shopping",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if expense.ID == "" {
		t.Error("expected a generated expense id")
	}
	if got := store.balance("acc-1"); got != 1500 {
		t.Errorf("expected balance 1500, got %.2f", got)
	}
	if got := store.limitCurrent("lim-1"); got != 500 {
		t.Errorf("expected currentExpense 500, got %.2f", got)
	}
}

func TestCreateExpense_InsufficientFunds(t *testing.T) {
	store := newMemStore()
	store.seedAccount("acc-1", "user-1", "Checking", 100)
	store.seedCategory(domain.CategoryExpense, "cat-1", "user-1", "Groceries")

	svc := newTestService(store)

	_, err := svc.CreateExpense(context.Background(), "user-1", &domain.CreateExpenseRequest{
		CategoryID: "cat-1",
		AccountID:  "acc-1",
		Amount:     fptr(500),
	})

	var insufficient *domain.ErrInsufficientFunds
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if insufficient.Available != 100 || insufficient.Required != 500 {
		t.Errorf("expected available=100 required=500, got %+v", insufficient)
	}
	if got := store.balance("acc-1"); got != 100 {
		t.Errorf("balance must be unchanged after rejection, got %.2f", got)
	}
}

func TestCreateExpense_UnknownCategory(t *testing.T) {
	store := newMemStore()
	store.seedAccount("acc-1", "user-1", "Checking", 2000)

	svc := newTestService(store)

	_, err := svc.CreateExpense(context.Background(), "user-1", &domain.CreateExpenseRequest{
		CategoryID: "no-such-cat",
		AccountID:  "acc-1",
		Amount:     fptr(10),
	})

	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := store.balance("acc-1"); got != 2000 {
		t.Errorf("balance must be unchanged, got %.2f", got)
	}
}

func TestCreateExpense_DateValidation(t *testing.T) {
	store := newMemStore()
	store.seedAccount("acc-1", "user-1", "Checking", 2000)
	store.seedCategory(domain.CategoryExpense, "cat-1", "user-1", "Groceries")

	svc := newTestService(store)

	cases := []struct {
		name string
		date string
	}{
		{"future date", time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")},
		{"too old", "2019-05-01"},
		{"garbage", "not-a-date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateExpense(context.Background(), "user-1", &domain.CreateExpenseRequest{
				CategoryID: "cat-1",
				AccountID:  "acc-1",
				Amount:     fptr(10),
				Date:       tc.date,
			})
			var validation *domain.ErrValidation
			if !errors.As(err, &validation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateExpense_NegativeAmount(t *testing.T) {
	store := newMemStore()
	store.seedAccount("acc-1", "user-1", "Checking", 2000)
	store.seedCategory(domain.CategoryExpense, "cat-1", "user-1", "Groceries")

	svc := newTestService(store)

	_, err := svc.CreateExpense(context.Background(), "user-1", &domain.CreateExpenseRequest{
		CategoryID: "cat-1",
		AccountID:  "acc-1",
		Amount:     fptr(-5),
	})
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreateExpense_LimitMatchedByTransactionDate(t *testing.T) {
	store := newMemStore()
	store.seedAccount("acc-1", "user-1", "Checking", 2000)
	store.seedCategory(domain.CategoryExpense, "cat-1", "user-1", "Groceries")
	store.seedLimit("lim-march", "cat-1", 800, 0, 3, 2025)
	store.seedLimit("lim-april", "cat-1", 800, 0, 4, 2025)

	svc := newTestService(store)

	_, err := svc.CreateExpense(context.Background(), "user-1", &domain.CreateExpenseRequest{
		CategoryID: "cat-1",
		AccountID:  "acc-1",
		Amount:     fptr(120),
		Date:       "2025-03-10",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := store.limitCurrent("lim-march"); got != 120 {
		t.Errorf("march limit should track the expense, got %.2f", got)
	}
	if got := store.limitCurrent("lim-april"); got != 0 {
		t.Errorf("april limit must stay untouched, got %.2f", got)
	}
}

func TestCreateExpense_NoLimitIsNoop(t *testing.T) {
	store := newMemStore()
	store.seedAccount("acc-1", "user-1", "Checking", 2000)
	store.seedCategory(domain.CategoryExpense, "cat-1", "user-1", "Groceries")

	svc := newTestService(store)

	if _, err := svc.CreateExpense(context.Background(), "user-1", &domain.CreateExpenseRequest{
		CategoryID: "cat-1",
		AccountID:  "acc-1",
		Amount:     fptr(300),
	}); err != nil {
		t.Fatalf("expected no error without a limit, got %v", err)
	}
	if got := store.balance("acc-1"); got != 1700 {
		t.Errorf("expected balance 1700, got %.2f", got)
	}
}

func TestUpdateExpense_SameAccountAdjustsByDelta(t *testing.T) {
	store := newMemStore()
	store.seedAccount("acc-1", "user-1", "Checking", 2000)
	store.seedCategory(domain.CategoryExpense, "cat-1", "user-1", "Groceries")
	now := time.Now().UTC()
	store.seedLimit("lim-1", "cat-1", 800, 0, int(now.Month()), now.Year())

	svc := newTestService(store)
	exp, err := svc.CreateExpense(context.Background(), "user-1", &domain.CreateExpenseRequest{
		CategoryID: "cat-1", AccountID: "acc-1", Amount: fptr(500),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.UpdateExpense(context.Background(), "user-1", exp.ID, &domain.UpdateExpenseRequest{
		Amount: fptr(300),
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if got := store.balance("acc-1"); got != 1700 {
		t.Errorf("expected balance 1700 after shrink, got %.2f", got)
	}
	if got := store.limitCurrent("lim-1"); got != 300 {
		t.Errorf("expected currentExpense 300, got %.2f", got)
	}
}

func TestUpdateExpense_MoveBetweenAccounts(t *testing.T) {
	store := newMemStore()
	store.seedAccount("acc-a", "user-1", "Checking", 1000)
	store.seedAccount("acc-b", "user-1", "Savings", 600)
	store.seedCategory(domain.CategoryExpense, "cat-1", "user-1", "Groceries")

	svc := newTestService(store)
	exp, err := svc.CreateExpense(context.Background(), "user-1", &domain.CreateExpenseRequest{
		CategoryID: "cat-1", AccountID: "acc-a", Amount: fptr(200),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.UpdateExpense(context.Background(), "user-1", exp.ID, &domain.UpdateExpenseRequest{
		AccountID: "acc-b",
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if got := store.balance("acc-a"); got != 1000 {
		t.Errorf("old account should get a full refund, got %.2f", got)
	}
	if got := store.balance("acc-b"); got != 400 {
		t.Errorf("new account should be debited, got %.2f", got)
	}
}

func TestUpdateExpense_MoveRejectedWhenTargetCannotCover(t *testing.T) {
	store := newMemStore()
	store.seedAccount("acc-a", "user-1", "Checking", 1000)
	store.seedAccount("acc-b", "user-1", "Savings", 50)
	store.seedCategory(domain.CategoryExpense, "cat-1", "user-1", "Groceries")

	svc := newTestService(store)
	exp, err := svc.CreateExpense(context.Background(), "user-1", &domain.CreateExpenseRequest{
		CategoryID: "cat-1", AccountID: "acc-a", Amount: fptr(200),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.UpdateExpense(context.Background(), "user-1", exp.ID, &domain.UpdateExpenseRequest{
		AccountID: "acc-b",
	})
	var insufficient *domain.ErrInsufficientFunds
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := store.balance("acc-a"); got != 800 {
		t.Errorf("old account must be unchanged after rejection, got %.2f", got)
	}
	if got := store.balance("acc-b"); got != 50 {
		t.Errorf("target account must be unchanged, got %.2f", got)
	}
}

func TestUpdateExpense_OtherUsersExpenseIsHidden(t *testing.T) {
	store := newMemStore()
	store.seedAccount("acc-1", "user-1", "Checking", 1000)
	store.seedCategory(domain.CategoryExpense, "cat-1", "user-1", "Groceries")

	svc := newTestService(store)
	exp, err := svc.CreateExpense(context.Background(), "user-1", &domain.CreateExpenseRequest{
		CategoryID: "cat-1", AccountID: "acc-1", Amount: fptr(100),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.UpdateExpense(context.Background(), "user-2", exp.ID, &domain.UpdateExpenseRequest{
		Amount: fptr(1),
	})
	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound for foreign expense, got %v", err)
	}
}

func TestDeleteExpense_RefundsAndUnwindsLimit(t *testing.T) {
	store := newMemStore()
	store.seedAccount("acc-1", "user-1", "Checking", 2000)
	store.seedCategory(domain.CategoryExpense, "cat-1", "user-1", "Groceries")
	now := time.Now().UTC()
	store.seedLimit("lim-1", "cat-1", 800, 0, int(now.Month()), now.Year())

	svc := newTestService(store)
	exp, err := svc.CreateExpense(context.Background(), "user-1", &domain.CreateExpenseRequest{
		CategoryID: "cat-1", AccountID: "acc-1", Amount: fptr(500),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteExpense(context.Background(), "user-1", exp.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if got := store.balance("acc-1"); got != 2000 {
		t.Errorf("expected full refund to 2000, got %.2f", got)
	}
	if got := store.limitCurrent("lim-1"); got != 0 {
		t.Errorf("expected currentExpense back to 0, got %.2f", got)
	}
	if _, err := store.GetExpense(context.Background(), exp.ID); err == nil {
		t.Error("expense record should be gone")
	}
}

func TestDeleteExpense_SkipsRefundForDeletedAccount(t *testing.T) {
	store := newMemStore()
	store.seedAccount("acc-1", "user-1", "Checking", 2000)
	store.seedCategory(domain.CategoryExpense, "cat-1", "user-1", "Groceries")

	svc := newTestService(store)
	exp, err := svc.CreateExpense(context.Background(), "user-1", &domain.CreateExpenseRequest{
		CategoryID: "cat-1", AccountID: "acc-1", Amount: fptr(500),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.DeleteAccount(context.Background(), "acc-1"); err != nil {
		t.Fatalf("delete account: %v", err)
	}

	if err := svc.DeleteExpense(context.Background(), "user-1", exp.ID); err != nil {
		t.Fatalf("delete should tolerate the missing account, got %v", err)
	}
	if _, err := store.GetExpense(context.Background(), exp.ID); err == nil {
		t.Error("expense record should be gone")
	}
}
