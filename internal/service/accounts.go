package service

import (
	"context"
	"time"

	"github.com/walletly/walletly-api/internal/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// maxAccountsPerUser caps how many accounts one user may hold.
const maxAccountsPerUser = 15

// ============================================================
// Accounts
// ============================================================

func (s *LedgerService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.ListAccounts")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	return s.store.ListAccounts(ctx, userID)
}

// GetAccountBalances returns the id/name/balance projection of every account.
func (s *LedgerService) GetAccountBalances(ctx context.Context, userID string) ([]domain.AccountBalance, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.GetAccountBalances")
	defer span.End()

	accounts, err := s.store.ListAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	balances := make([]domain.AccountBalance, 0, len(accounts))
	for _, a := range accounts {
		balances = append(balances, domain.AccountBalance{ID: a.ID, Name: a.Name, Balance: a.Balance})
	}
	return balances, nil
}

// CreateAccount opens a new account. Names are unique per user
// (case-insensitive) and each user holds at most maxAccountsPerUser.
func (s *LedgerService) CreateAccount(ctx context.Context, userID string, req *domain.CreateAccountRequest) (*domain.Account, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.CreateAccount")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("account_create", time.Since(start)) }()

	if err := requireField("name", req.Name); err != nil {
		return nil, err
	}
	balance := 0.0
	if req.Balance != nil {
		balance = *req.Balance
		if balance < 0 {
			return nil, &domain.ErrValidation{Field: "balance", Message: "balance cannot be negative"}
		}
	}

	count, err := s.store.CountAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= maxAccountsPerUser {
		return nil, &domain.ErrConflict{Message: "account quota reached"}
	}

	existing, err := s.store.GetAccountByName(ctx, userID, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.ErrConflict{Message: "an account with this name already exists"}
	}

	account := &domain.Account{
		ID:      uuid.NewString(),
		Name:    req.Name,
		Balance: balance,
		UserID:  userID,
	}
	created, err := s.store.CreateAccount(ctx, account)
	if err != nil {
		s.logger.Error("failed to create account", zap.Error(err))
		return nil, err
	}

	s.metrics.IncLedgerMutation("account", "create")
	s.logger.Info("account created",
		zap.String("user_id", userID),
		zap.String("account_id", created.ID),
		zap.Float64("balance", balance),
	)
	return created, nil
}

// UpdateAccount renames an account and/or overwrites its balance directly.
// A direct balance write is an owner-level correction and bypasses the
// ledger, but still may not go negative.
func (s *LedgerService) UpdateAccount(ctx context.Context, userID, accountID string, req *domain.UpdateAccountRequest) (*domain.Account, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.UpdateAccount")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("account_update", time.Since(start)) }()

	unlock := s.lockAccount(accountID)
	defer unlock()

	account, err := s.store.GetAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" && req.Name != account.Name {
		existing, err := s.store.GetAccountByName(ctx, userID, req.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != accountID {
			return nil, &domain.ErrConflict{Message: "an account with this name already exists"}
		}
		account.Name = req.Name
	}
	if req.Balance != nil {
		if *req.Balance < 0 {
			return nil, &domain.ErrValidation{Field: "balance", Message: "balance cannot be negative"}
		}
		account.Balance = *req.Balance
	}

	if err := s.store.UpdateAccount(ctx, account); err != nil {
		s.logger.Error("failed to update account", zap.String("account_id", accountID), zap.Error(err))
		return nil, err
	}

	s.metrics.IncLedgerMutation("account", "update")
	s.logger.Info("account updated", zap.String("user_id", userID), zap.String("account_id", accountID))
	return account, nil
}

// DeleteAccount removes the account without touching the transactions that
// reference it. Those records become orphans; the transaction lifecycle
// paths tolerate them.
func (s *LedgerService) DeleteAccount(ctx context.Context, userID, accountID string) error {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.DeleteAccount")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("account_delete", time.Since(start)) }()

	unlock := s.lockAccount(accountID)
	defer unlock()

	if _, err := s.store.GetAccount(ctx, userID, accountID); err != nil {
		return err
	}
	if err := s.store.DeleteAccount(ctx, accountID); err != nil {
		return err
	}

	s.metrics.IncLedgerMutation("account", "delete")
	s.logger.Info("account deleted", zap.String("user_id", userID), zap.String("account_id", accountID))
	return nil
}
