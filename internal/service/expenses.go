package service

import (
	"context"
	"errors"
	"time"

	"github.com/walletly/walletly-api/internal/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Expenses — create, update, delete
// ============================================================

// CreateExpense debits the account, tracks the matching category limit
// and persists the expense record, in that order.
func (s *LedgerService) CreateExpense(ctx context.Context, userID string, req *domain.CreateExpenseRequest) (*domain.Expense, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.CreateExpense")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("expense_create", time.Since(start)) }()

	if err := requireField("categoryId", req.CategoryID); err != nil {
		return nil, err
	}
	if err := requireField("account", req.AccountID); err != nil {
		return nil, err
	}
	amount, err := validateAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	date, err := resolveDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetCategory(ctx, domain.CategoryExpense, req.CategoryID); err != nil {
		return nil, err
	}

	unlock := s.lockAccount(req.AccountID)
	defer unlock()

	account, err := s.store.GetAccount(ctx, userID, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account.Balance < amount {
		return nil, &domain.ErrInsufficientFunds{Available: account.Balance, Required: amount}
	}

	if err := s.applyBalanceDelta(ctx, account, -amount); err != nil {
		return nil, err
	}
	if err := s.applyLimitDelta(ctx, req.CategoryID, date, amount); err != nil {
		return nil, err
	}

	expense := &domain.Expense{
		ID:         uuid.NewString(),
		UserID:     userID,
		CategoryID: req.CategoryID,
		AccountID:  req.AccountID,
		Amount:     amount,
		Date:       date,
		Note:       req.Note,
	}
	created, err := s.store.CreateExpense(ctx, expense)
	if err != nil {
		s.logger.Error("failed to persist expense", zap.Error(err))
		return nil, err
	}

	s.metrics.IncLedgerMutation("expense", "create")
	s.logger.Info("expense created",
		zap.String("user_id", userID),
		zap.String("expense_id", created.ID),
		zap.String("account_id", account.ID),
		zap.Float64("amount", amount),
	)
	return created, nil
}

// UpdateExpense re-points an existing expense. Balance effects depend on
// whether the account changed: same account adjusts by the amount delta,
// a moved expense refunds the old account in full and debits the new one.
func (s *LedgerService) UpdateExpense(ctx context.Context, userID, expenseID string, req *domain.UpdateExpenseRequest) (*domain.Expense, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.UpdateExpense")
	defer span.End()
	span.SetAttributes(attribute.String("expense.id", expenseID))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("expense_update", time.Since(start)) }()

	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.UserID != userID {
		return nil, &domain.ErrNotFound{Resource: "expense", ID: expenseID}
	}

	newAmount := expense.Amount
	if req.Amount != nil {
		if newAmount, err = validateAmount("amount", req.Amount); err != nil {
			return nil, err
		}
	}
	newDate := expense.Date
	if req.Date != "" {
		if newDate, err = parseDate("date", req.Date); err != nil {
			return nil, err
		}
	}
	newCategoryID := expense.CategoryID
	if req.CategoryID != "" && req.CategoryID != expense.CategoryID {
		if _, err := s.store.GetCategory(ctx, domain.CategoryExpense, req.CategoryID); err != nil {
			return nil, err
		}
		newCategoryID = req.CategoryID
	}
	newAccountID := expense.AccountID
	if req.AccountID != "" {
		newAccountID = req.AccountID
	}

	unlock := s.lockAccounts(expense.AccountID, newAccountID)
	defer unlock()

	if newAccountID == expense.AccountID {
		account, err := s.store.GetAccount(ctx, userID, expense.AccountID)
		if err != nil {
			return nil, err
		}
		// Only the delta moves; nextBalance rejects an uncovered increase.
		if delta := newAmount - expense.Amount; delta != 0 {
			if err := s.applyBalanceDelta(ctx, account, -delta); err != nil {
				return nil, err
			}
		}
	} else {
		oldAccount, err := s.store.GetAccount(ctx, userID, expense.AccountID)
		if err != nil {
			return nil, err
		}
		newAccount, err := s.store.GetAccount(ctx, userID, newAccountID)
		if err != nil {
			return nil, err
		}
		if newAccount.Balance < newAmount {
			return nil, &domain.ErrInsufficientFunds{Available: newAccount.Balance, Required: newAmount}
		}
		if err := s.applyBalanceDelta(ctx, oldAccount, expense.Amount); err != nil {
			return nil, err
		}
		if err := s.applyBalanceDelta(ctx, newAccount, -newAmount); err != nil {
			return nil, err
		}
	}

	// Limits: a single adjustment when category and period are unchanged,
	// otherwise reverse against the old limit and apply to the new one.
	if newCategoryID == expense.CategoryID && samePeriod(expense.Date, newDate) {
		if err := s.applyLimitDelta(ctx, newCategoryID, newDate, newAmount-expense.Amount); err != nil {
			return nil, err
		}
	} else {
		if err := s.applyLimitDelta(ctx, expense.CategoryID, expense.Date, -expense.Amount); err != nil {
			return nil, err
		}
		if err := s.applyLimitDelta(ctx, newCategoryID, newDate, newAmount); err != nil {
			return nil, err
		}
	}

	expense.CategoryID = newCategoryID
	expense.AccountID = newAccountID
	expense.Amount = newAmount
	expense.Date = newDate
	if req.Note != nil {
		expense.Note = *req.Note
	}
	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		s.logger.Error("failed to persist expense update", zap.String("expense_id", expenseID), zap.Error(err))
		return nil, err
	}

	s.metrics.IncLedgerMutation("expense", "update")
	s.logger.Info("expense updated",
		zap.String("user_id", userID),
		zap.String("expense_id", expenseID),
		zap.Float64("amount", newAmount),
	)
	return expense, nil
}

// DeleteExpense refunds the account, unwinds the category limit and removes
// the record. A refund against an account that was since deleted is skipped;
// the expense is still removed.
func (s *LedgerService) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.DeleteExpense")
	defer span.End()
	span.SetAttributes(attribute.String("expense.id", expenseID))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("expense_delete", time.Since(start)) }()

	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if expense.UserID != userID {
		return &domain.ErrNotFound{Resource: "expense", ID: expenseID}
	}

	unlock := s.lockAccount(expense.AccountID)
	defer unlock()

	account, err := s.store.GetAccount(ctx, userID, expense.AccountID)
	switch {
	case err == nil:
		if err := s.applyBalanceDelta(ctx, account, expense.Amount); err != nil {
			return err
		}
	case isNotFound(err):
		s.logger.Warn("expense refers to a deleted account, skipping refund",
			zap.String("expense_id", expenseID), zap.String("account_id", expense.AccountID))
	default:
		return err
	}

	if err := s.applyLimitDelta(ctx, expense.CategoryID, expense.Date, -expense.Amount); err != nil {
		return err
	}
	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return err
	}

	s.metrics.IncLedgerMutation("expense", "delete")
	s.logger.Info("expense deleted",
		zap.String("user_id", userID),
		zap.String("expense_id", expenseID),
		zap.Float64("amount", expense.Amount),
	)
	return nil
}

func isNotFound(err error) bool {
	var nf *domain.ErrNotFound
	return errors.As(err, &nf)
}
