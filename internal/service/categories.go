package service

import (
	"context"
	"time"

	"github.com/walletly/walletly-api/internal/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// maxCategoriesPerUser caps how many categories of one kind a user may hold.
const maxCategoriesPerUser = 15

func categoryCacheKey(kind domain.CategoryKind, userID string) string {
	return string(kind) + ":" + userID
}

// ============================================================
// Categories — expense and income share one implementation,
// distinguished by kind.
// ============================================================

// ListCategories returns the user's categories of one kind, served from
// cache when warm.
func (s *LedgerService) ListCategories(ctx context.Context, kind domain.CategoryKind, userID string) ([]domain.Category, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.ListCategories")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID), attribute.String("category.kind", string(kind)))

	key := categoryCacheKey(kind, userID)
	if cached, ok := s.catCache.Get(key); ok {
		s.metrics.IncCacheHit("categories")
		return cached, nil
	}
	s.metrics.IncCacheMiss("categories")

	categories, err := s.store.ListCategories(ctx, kind, userID)
	if err != nil {
		return nil, err
	}
	s.catCache.Set(key, categories)
	return categories, nil
}

// CreateCategory adds a category of the given kind. Names are unique per
// user and kind (case-insensitive); each kind is capped at
// maxCategoriesPerUser.
func (s *LedgerService) CreateCategory(ctx context.Context, kind domain.CategoryKind, userID string, req *domain.CategoryRequest) (*domain.Category, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.CreateCategory")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID), attribute.String("category.kind", string(kind)))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("category_create", time.Since(start)) }()

	if err := requireField("name", req.Name); err != nil {
		return nil, err
	}

	count, err := s.store.CountCategories(ctx, kind, userID)
	if err != nil {
		return nil, err
	}
	if count >= maxCategoriesPerUser {
		return nil, &domain.ErrConflict{Message: "category quota reached"}
	}

	existing, err := s.store.GetCategoryByName(ctx, kind, userID, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.ErrConflict{Message: "a category with this name already exists"}
	}

	category := &domain.Category{
		ID:     uuid.NewString(),
		Name:   req.Name,
		UserID: userID,
	}
	created, err := s.store.CreateCategory(ctx, kind, category)
	if err != nil {
		s.logger.Error("failed to create category", zap.Error(err))
		return nil, err
	}
	s.catCache.Delete(categoryCacheKey(kind, userID))

	s.metrics.IncLedgerMutation("category", "create")
	s.logger.Info("category created",
		zap.String("user_id", userID),
		zap.String("category_id", created.ID),
		zap.String("kind", string(kind)),
	)
	return created, nil
}

// RenameCategory changes a category's name, keeping per-user uniqueness.
func (s *LedgerService) RenameCategory(ctx context.Context, kind domain.CategoryKind, userID, categoryID string, req *domain.CategoryRequest) (*domain.Category, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.RenameCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", categoryID))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("category_update", time.Since(start)) }()

	if err := requireField("name", req.Name); err != nil {
		return nil, err
	}

	category, err := s.store.GetCategory(ctx, kind, categoryID)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return nil, &domain.ErrNotFound{Resource: string(kind) + " category", ID: categoryID}
	}

	existing, err := s.store.GetCategoryByName(ctx, kind, userID, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != categoryID {
		return nil, &domain.ErrConflict{Message: "a category with this name already exists"}
	}

	category.Name = req.Name
	if err := s.store.UpdateCategory(ctx, kind, category); err != nil {
		s.logger.Error("failed to rename category", zap.String("category_id", categoryID), zap.Error(err))
		return nil, err
	}
	s.catCache.Delete(categoryCacheKey(kind, userID))

	s.metrics.IncLedgerMutation("category", "update")
	s.logger.Info("category renamed", zap.String("user_id", userID), zap.String("category_id", categoryID))
	return category, nil
}

// DeleteCategory removes a category by ID, whichever kind it belongs to.
// A category with transactions in the current month cannot be deleted;
// older transactions keep their (now orphaned) category reference.
func (s *LedgerService) DeleteCategory(ctx context.Context, userID, categoryID string) (*domain.DeletedCategory, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.DeleteCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", categoryID))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("category_delete", time.Since(start)) }()

	kind := domain.CategoryExpense
	category, err := s.store.GetCategory(ctx, kind, categoryID)
	if isNotFound(err) {
		kind = domain.CategoryIncome
		category, err = s.store.GetCategory(ctx, kind, categoryID)
	}
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return nil, &domain.ErrNotFound{Resource: "category", ID: categoryID}
	}

	now := time.Now().UTC()
	from, to := monthRange(int(now.Month()), now.Year())
	var used int
	if kind == domain.CategoryExpense {
		expenses, err := s.store.ListExpensesByCategoryInRange(ctx, categoryID, from, to)
		if err != nil {
			return nil, err
		}
		used = len(expenses)
	} else {
		incomes, err := s.store.ListIncomesByCategoryInRange(ctx, categoryID, from, to)
		if err != nil {
			return nil, err
		}
		used = len(incomes)
	}
	if used > 0 {
		return nil, &domain.ErrConflict{Message: "category has transactions in the current month"}
	}

	if err := s.store.DeleteCategory(ctx, kind, categoryID); err != nil {
		return nil, err
	}
	s.catCache.Delete(categoryCacheKey(kind, userID))

	s.metrics.IncLedgerMutation("category", "delete")
	s.logger.Info("category deleted",
		zap.String("user_id", userID),
		zap.String("category_id", categoryID),
		zap.String("kind", string(kind)),
	)
	return &domain.DeletedCategory{Message: "category deleted", Type: kind}, nil
}
