package service

import (
	"context"
	"sort"
	"time"

	"github.com/walletly/walletly-api/internal/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Transfers — create, update, delete
// ============================================================

// CreateTransfer moves an amount between two accounts of the same user:
// debit the source, credit the destination, persist the record.
func (s *LedgerService) CreateTransfer(ctx context.Context, userID string, req *domain.CreateTransferRequest) (*domain.Transfer, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.CreateTransfer")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("transfer_create", time.Since(start)) }()

	if err := requireField("fromAccountId", req.FromAccountID); err != nil {
		return nil, err
	}
	if err := requireField("toAccountId", req.ToAccountID); err != nil {
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
	if req.FromAccountID == req.ToAccountID {
		return nil, &domain.ErrValidation{Field: "toAccountId", Message: "transfer accounts must be distinct"}
	}

	unlock := s.lockAccounts(req.FromAccountID, req.ToAccountID)
	defer unlock()

	from, err := s.store.GetAccount(ctx, userID, req.FromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := s.store.GetAccount(ctx, userID, req.ToAccountID)
	if err != nil {
		return nil, err
	}
	if from.Balance < amount {
		return nil, &domain.ErrInsufficientFunds{Available: from.Balance, Required: amount}
	}

	if err := s.applyBalanceDelta(ctx, from, -amount); err != nil {
		return nil, err
	}
	if err := s.applyBalanceDelta(ctx, to, amount); err != nil {
		return nil, err
	}

	transfer := &domain.Transfer{
		ID:            uuid.NewString(),
		UserID:        userID,
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        amount,
		Date:          date,
	}
	created, err := s.store.CreateTransfer(ctx, transfer)
	if err != nil {
		s.logger.Error("failed to persist transfer", zap.Error(err))
		return nil, err
	}

	s.metrics.IncLedgerMutation("transfer", "create")
	s.logger.Info("transfer created",
		zap.String("user_id", userID),
		zap.String("transfer_id", created.ID),
		zap.String("from_account_id", from.ID),
		zap.String("to_account_id", to.ID),
		zap.Float64("amount", amount),
	)
	return created, nil
}

// UpdateTransfer reshapes an existing transfer. The old movement is
// reversed and the new one applied as one accumulated delta per involved
// account, so an account appearing on both sides nets out. Every resulting
// balance is validated before anything is written.
func (s *LedgerService) UpdateTransfer(ctx context.Context, userID, transferID string, req *domain.UpdateTransferRequest) (*domain.Transfer, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.UpdateTransfer")
	defer span.End()
	span.SetAttributes(attribute.String("transfer.id", transferID))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("transfer_update", time.Since(start)) }()

	transfer, err := s.store.GetTransfer(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer.UserID != userID {
		return nil, &domain.ErrNotFound{Resource: "transfer", ID: transferID}
	}

	newAmount := transfer.Amount
	if req.Amount != nil {
		if newAmount, err = validateAmount("amount", req.Amount); err != nil {
			return nil, err
		}
	}
	newDate := transfer.Date
	if req.Date != "" {
		if newDate, err = parseDate("date", req.Date); err != nil {
			return nil, err
		}
	}
	newFrom := transfer.FromAccountID
	if req.FromAccountID != "" {
		newFrom = req.FromAccountID
	}
	newTo := transfer.ToAccountID
	if req.ToAccountID != "" {
		newTo = req.ToAccountID
	}
	if newFrom == newTo {
		return nil, &domain.ErrValidation{Field: "toAccountId", Message: "transfer accounts must be distinct"}
	}

	unlock := s.lockAccounts(transfer.FromAccountID, transfer.ToAccountID, newFrom, newTo)
	defer unlock()

	// Reverse the old movement, apply the new one.
	deltas := map[string]float64{}
	deltas[transfer.FromAccountID] += transfer.Amount
	deltas[transfer.ToAccountID] -= transfer.Amount
	deltas[newFrom] -= newAmount
	deltas[newTo] += newAmount

	ids := make([]string, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// Check every resulting balance before writing any of them.
	accounts := make(map[string]*domain.Account, len(ids))
	for _, id := range ids {
		account, err := s.store.GetAccount(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		if _, err := nextBalance(account.Balance, deltas[id]); err != nil {
			return nil, err
		}
		accounts[id] = account
	}
	for _, id := range ids {
		if deltas[id] == 0 {
			continue
		}
		if err := s.applyBalanceDelta(ctx, accounts[id], deltas[id]); err != nil {
			return nil, err
		}
	}

	transfer.FromAccountID = newFrom
	transfer.ToAccountID = newTo
	transfer.Amount = newAmount
	transfer.Date = newDate
	if err := s.store.UpdateTransfer(ctx, transfer); err != nil {
		s.logger.Error("failed to persist transfer update", zap.String("transfer_id", transferID), zap.Error(err))
		return nil, err
	}

	s.metrics.IncLedgerMutation("transfer", "update")
	s.logger.Info("transfer updated",
		zap.String("user_id", userID),
		zap.String("transfer_id", transferID),
		zap.Float64("amount", newAmount),
	)
	return transfer, nil
}

// DeleteTransfer reverses the movement and removes the record. Either side
// referring to a deleted account is skipped rather than failing the delete.
func (s *LedgerService) DeleteTransfer(ctx context.Context, userID, transferID string) error {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.DeleteTransfer")
	defer span.End()
	span.SetAttributes(attribute.String("transfer.id", transferID))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("transfer_delete", time.Since(start)) }()

	transfer, err := s.store.GetTransfer(ctx, transferID)
	if err != nil {
		return err
	}
	if transfer.UserID != userID {
		return &domain.ErrNotFound{Resource: "transfer", ID: transferID}
	}

	unlock := s.lockAccounts(transfer.FromAccountID, transfer.ToAccountID)
	defer unlock()

	from, err := s.store.GetAccount(ctx, userID, transfer.FromAccountID)
	switch {
	case err == nil:
		if err := s.applyBalanceDelta(ctx, from, transfer.Amount); err != nil {
			return err
		}
	case isNotFound(err):
		s.logger.Warn("transfer refers to a deleted source account, skipping refund",
			zap.String("transfer_id", transferID), zap.String("account_id", transfer.FromAccountID))
	default:
		return err
	}

	to, err := s.store.GetAccount(ctx, userID, transfer.ToAccountID)
	switch {
	case err == nil:
		if err := s.applyBalanceDelta(ctx, to, -transfer.Amount); err != nil {
			return err
		}
	case isNotFound(err):
		s.logger.Warn("transfer refers to a deleted destination account, skipping debit",
			zap.String("transfer_id", transferID), zap.String("account_id", transfer.ToAccountID))
	default:
		return err
	}

	if err := s.store.DeleteTransfer(ctx, transferID); err != nil {
		return err
	}

	s.metrics.IncLedgerMutation("transfer", "delete")
	s.logger.Info("transfer deleted",
		zap.String("user_id", userID),
		zap.String("transfer_id", transferID),
		zap.Float64("amount", transfer.Amount),
	)
	return nil
}
