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
// Category limits
// ============================================================

// ListLimits returns the limits covering the user's expense categories for
// one month/year period.
func (s *LedgerService) ListLimits(ctx context.Context, userID string, month, year int) ([]domain.CategoryLimit, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.ListLimits")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	if err := validateMonthYear(month, year); err != nil {
		return nil, err
	}
	categories, err := s.ListCategories(ctx, domain.CategoryExpense, userID)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return []domain.CategoryLimit{}, nil
	}
	ids := make([]string, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	return s.store.ListLimitsForCategories(ctx, ids, month, year)
}

// CreateLimit sets a spending ceiling on an expense category for the
// current month. At most one limit exists per category and period;
// currentExpense always starts at zero.
func (s *LedgerService) CreateLimit(ctx context.Context, userID string, req *domain.CreateLimitRequest) (*domain.CategoryLimit, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.CreateLimit")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("limit_create", time.Since(start)) }()

	if err := requireField("categoryId", req.CategoryID); err != nil {
		return nil, err
	}
	ceiling, err := validateAmount("limit", req.Limit)
	if err != nil {
		return nil, err
	}

	category, err := s.store.GetCategory(ctx, domain.CategoryExpense, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return nil, &domain.ErrNotFound{Resource: "expense category", ID: req.CategoryID}
	}

	now := time.Now().UTC()
	month, year := int(now.Month()), now.Year()
	existing, err := s.store.FindLimit(ctx, req.CategoryID, month, year)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.ErrConflict{Message: "a limit for this category already exists for the current month"}
	}

	limit := &domain.CategoryLimit{
		ID:             uuid.NewString(),
		CategoryID:     req.CategoryID,
		Limit:          ceiling,
		CurrentExpense: 0,
		Month:          month,
		Year:           year,
	}
	created, err := s.store.CreateLimit(ctx, limit)
	if err != nil {
		s.logger.Error("failed to create limit", zap.Error(err))
		return nil, err
	}

	s.metrics.IncLedgerMutation("limit", "create")
	s.logger.Info("limit created",
		zap.String("user_id", userID),
		zap.String("limit_id", created.ID),
		zap.String("category_id", req.CategoryID),
		zap.Float64("limit", ceiling),
	)
	return created, nil
}

// UpdateLimit edits the ceiling, category or period of an existing limit.
// currentExpense is never writable through this path.
func (s *LedgerService) UpdateLimit(ctx context.Context, userID, limitID string, req *domain.UpdateLimitRequest) (*domain.CategoryLimit, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.UpdateLimit")
	defer span.End()
	span.SetAttributes(attribute.String("limit.id", limitID))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("limit_update", time.Since(start)) }()

	limit, err := s.store.GetLimit(ctx, limitID)
	if err != nil {
		return nil, err
	}
	if err := s.checkLimitOwnership(ctx, userID, limit); err != nil {
		return nil, err
	}

	if req.CategoryID != "" && req.CategoryID != limit.CategoryID {
		category, err := s.store.GetCategory(ctx, domain.CategoryExpense, req.CategoryID)
		if err != nil {
			return nil, err
		}
		if category.UserID != userID {
			return nil, &domain.ErrNotFound{Resource: "expense category", ID: req.CategoryID}
		}
		limit.CategoryID = req.CategoryID
	}
	if req.Limit != nil {
		ceiling, err := validateAmount("limit", req.Limit)
		if err != nil {
			return nil, err
		}
		limit.Limit = ceiling
	}
	if req.Month != nil {
		limit.Month = *req.Month
	}
	if req.Year != nil {
		limit.Year = *req.Year
	}
	if err := validateMonthYear(limit.Month, limit.Year); err != nil {
		return nil, err
	}

	existing, err := s.store.FindLimit(ctx, limit.CategoryID, limit.Month, limit.Year)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != limitID {
		return nil, &domain.ErrConflict{Message: "a limit for this category already exists for that period"}
	}

	if err := s.store.UpdateLimit(ctx, limit); err != nil {
		s.logger.Error("failed to update limit", zap.String("limit_id", limitID), zap.Error(err))
		return nil, err
	}

	s.metrics.IncLedgerMutation("limit", "update")
	s.logger.Info("limit updated", zap.String("user_id", userID), zap.String("limit_id", limitID))
	return limit, nil
}

// DeleteLimit removes a limit. Expenses already counted against it are
// unaffected; they simply stop being tracked.
func (s *LedgerService) DeleteLimit(ctx context.Context, userID, limitID string) error {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.DeleteLimit")
	defer span.End()
	span.SetAttributes(attribute.String("limit.id", limitID))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("limit_delete", time.Since(start)) }()

	limit, err := s.store.GetLimit(ctx, limitID)
	if err != nil {
		return err
	}
	if err := s.checkLimitOwnership(ctx, userID, limit); err != nil {
		return err
	}

	if err := s.store.DeleteLimit(ctx, limitID); err != nil {
		return err
	}

	s.metrics.IncLedgerMutation("limit", "delete")
	s.logger.Info("limit deleted", zap.String("user_id", userID), zap.String("limit_id", limitID))
	return nil
}

// checkLimitOwnership verifies the limit's category belongs to the caller.
// Limits carry no userId of their own; ownership flows through the category.
// A limit whose category was deleted is treated as the caller's own, so it
// can still be cleaned up.
func (s *LedgerService) checkLimitOwnership(ctx context.Context, userID string, limit *domain.CategoryLimit) error {
	category, err := s.store.GetCategory(ctx, domain.CategoryExpense, limit.CategoryID)
	if isNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if category.UserID != userID {
		return &domain.ErrNotFound{Resource: "limit", ID: limit.ID}
	}
	return nil
}
