package service

import (
	"context"
	"time"

	"github.com/walletly/walletly-api/internal/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Incomes — create, update, delete
// ============================================================

// CreateIncome credits the account and persists the income record.
// Incomes never touch category limits.
func (s *LedgerService) CreateIncome(ctx context.Context, userID string, req *domain.CreateIncomeRequest) (*domain.Income, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.CreateIncome")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("income_create", time.Since(start)) }()

	if err := requireField("categoryId", req.CategoryID); err != nil {
		return nil, err
	}
	if err := requireField("accountId", req.AccountID); err != nil {
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

	if _, err := s.store.GetCategory(ctx, domain.CategoryIncome, req.CategoryID); err != nil {
		return nil, err
	}

	unlock := s.lockAccount(req.AccountID)
	defer unlock()

	account, err := s.store.GetAccount(ctx, userID, req.AccountID)
	if err != nil {
		return nil, err
	}
	if err := s.applyBalanceDelta(ctx, account, amount); err != nil {
		return nil, err
	}

	income := &domain.Income{
		ID:         uuid.NewString(),
		UserID:     userID,
		CategoryID: req.CategoryID,
		AccountID:  req.AccountID,
		Amount:     amount,
		Date:       date,
		Note:       req.Note,
	}
	created, err := s.store.CreateIncome(ctx, income)
	if err != nil {
		s.logger.Error("failed to persist income", zap.Error(err))
		return nil, err
	}

	s.metrics.IncLedgerMutation("income", "create")
	s.logger.Info("income created",
		zap.String("user_id", userID),
		zap.String("income_id", created.ID),
		zap.String("account_id", account.ID),
		zap.Float64("amount", amount),
	)
	return created, nil
}

// UpdateIncome mirrors UpdateExpense with the signs flipped: same account
// adjusts by the amount delta, a moved income is debited from the old
// account in full and credited to the new one.
func (s *LedgerService) UpdateIncome(ctx context.Context, userID, incomeID string, req *domain.UpdateIncomeRequest) (*domain.Income, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.UpdateIncome")
	defer span.End()
	span.SetAttributes(attribute.String("income.id", incomeID))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("income_update", time.Since(start)) }()

	income, err := s.store.GetIncome(ctx, incomeID)
	if err != nil {
		return nil, err
	}
	if income.UserID != userID {
		return nil, &domain.ErrNotFound{Resource: "income", ID: incomeID}
	}

	newAmount := income.Amount
	if req.Amount != nil {
		if newAmount, err = validateAmount("amount", req.Amount); err != nil {
			return nil, err
		}
	}
	newDate := income.Date
	if req.Date != "" {
		if newDate, err = parseDate("date", req.Date); err != nil {
			return nil, err
		}
	}
	newCategoryID := income.CategoryID
	if req.CategoryID != "" && req.CategoryID != income.CategoryID {
		if _, err := s.store.GetCategory(ctx, domain.CategoryIncome, req.CategoryID); err != nil {
			return nil, err
		}
		newCategoryID = req.CategoryID
	}
	newAccountID := income.AccountID
	if req.AccountID != "" {
		newAccountID = req.AccountID
	}

	unlock := s.lockAccounts(income.AccountID, newAccountID)
	defer unlock()

	if newAccountID == income.AccountID {
		account, err := s.store.GetAccount(ctx, userID, income.AccountID)
		if err != nil {
			return nil, err
		}
		// A shrinking income debits the difference; nextBalance
		// rejects the debit if the balance no longer covers it.
		if delta := newAmount - income.Amount; delta != 0 {
			if err := s.applyBalanceDelta(ctx, account, delta); err != nil {
				return nil, err
			}
		}
	} else {
		oldAccount, err := s.store.GetAccount(ctx, userID, income.AccountID)
		if err != nil {
			return nil, err
		}
		newAccount, err := s.store.GetAccount(ctx, userID, newAccountID)
		if err != nil {
			return nil, err
		}
		if oldAccount.Balance < income.Amount {
			return nil, &domain.ErrInsufficientFunds{Available: oldAccount.Balance, Required: income.Amount}
		}
		if err := s.applyBalanceDelta(ctx, oldAccount, -income.Amount); err != nil {
			return nil, err
		}
		if err := s.applyBalanceDelta(ctx, newAccount, newAmount); err != nil {
			return nil, err
		}
	}

	income.CategoryID = newCategoryID
	income.AccountID = newAccountID
	income.Amount = newAmount
	income.Date = newDate
	if req.Note != nil {
		income.Note = *req.Note
	}
	if err := s.store.UpdateIncome(ctx, income); err != nil {
		s.logger.Error("failed to persist income update", zap.String("income_id", incomeID), zap.Error(err))
		return nil, err
	}

	s.metrics.IncLedgerMutation("income", "update")
	s.logger.Info("income updated",
		zap.String("user_id", userID),
		zap.String("income_id", incomeID),
		zap.Float64("amount", newAmount),
	)
	return income, nil
}

// DeleteIncome debits the credited amount back out of the account and
// removes the record. The debit goes through the same sufficiency gate as
// any other, so deleting an income the account has since spent fails
// rather than driving the balance negative.
func (s *LedgerService) DeleteIncome(ctx context.Context, userID, incomeID string) error {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.DeleteIncome")
	defer span.End()
	span.SetAttributes(attribute.String("income.id", incomeID))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("income_delete", time.Since(start)) }()

	income, err := s.store.GetIncome(ctx, incomeID)
	if err != nil {
		return err
	}
	if income.UserID != userID {
		return &domain.ErrNotFound{Resource: "income", ID: incomeID}
	}

	unlock := s.lockAccount(income.AccountID)
	defer unlock()

	account, err := s.store.GetAccount(ctx, userID, income.AccountID)
	switch {
	case err == nil:
		if err := s.applyBalanceDelta(ctx, account, -income.Amount); err != nil {
			return err
		}
	case isNotFound(err):
		s.logger.Warn("income refers to a deleted account, skipping debit",
			zap.String("income_id", incomeID), zap.String("account_id", income.AccountID))
	default:
		return err
	}

	if err := s.store.DeleteIncome(ctx, incomeID); err != nil {
		return err
	}

	s.metrics.IncLedgerMutation("income", "delete")
	s.logger.Info("income deleted",
		zap.String("user_id", userID),
		zap.String("income_id", incomeID),
		zap.Float64("amount", income.Amount),
	)
	return nil
}
