package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/walletly/walletly-api/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Category limits — table "category_limits"
// ============================================================

// limitRow maps the category_limits table columns to our domain.
// The ceiling column is limit_amount; "limit" is reserved in SQL.
type limitRow struct {
	ID             string  `json:"id"`
	CategoryID     string  `json:"category_id"`
	LimitAmount    float64 `json:"limit_amount"`
	CurrentExpense float64 `json:"current_expense"`
	Month          int     `json:"month"`
	Year           int     `json:"year"`
}

func (r limitRow) toDomain() domain.CategoryLimit {
	return domain.CategoryLimit{
		ID:             r.ID,
		CategoryID:     r.CategoryID,
		Limit:          r.LimitAmount,
		CurrentExpense: r.CurrentExpense,
		Month:          r.Month,
		Year:           r.Year,
	}
}

func (c *Client) ListLimitsForCategories(ctx context.Context, categoryIDs []string, month, year int) ([]domain.CategoryLimit, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListLimitsForCategories")
	defer span.End()
	span.SetAttributes(attribute.Int("categories", len(categoryIDs)))

	if len(categoryIDs) == 0 {
		return []domain.CategoryLimit{}, nil
	}

	var rows []limitRow
	path := fmt.Sprintf("category_limits?category_id=in.(%s)&month=eq.%d&year=eq.%d",
		strings.Join(categoryIDs, ","), month, year)
	if err := c.fetch(ctx, path, &rows); err != nil {
		return nil, err
	}

	limits := make([]domain.CategoryLimit, 0, len(rows))
	for _, r := range rows {
		limits = append(limits, r.toDomain())
	}
	return limits, nil
}

func (c *Client) GetLimit(ctx context.Context, limitID string) (*domain.CategoryLimit, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetLimit")
	defer span.End()
	span.SetAttributes(attribute.String("limit.id", limitID))

	var rows []limitRow
	path := fmt.Sprintf("category_limits?id=eq.%s&limit=1", limitID)
	if err := c.fetch(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "limit", ID: limitID}
	}

	limit := rows[0].toDomain()
	return &limit, nil
}

func (c *Client) FindLimit(ctx context.Context, categoryID string, month, year int) (*domain.CategoryLimit, error) {
	ctx, span := tracer.Start(ctx, "Supabase.FindLimit")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", categoryID), attribute.Int("month", month), attribute.Int("year", year))

	var rows []limitRow
	path := fmt.Sprintf("category_limits?category_id=eq.%s&month=eq.%d&year=eq.%d&limit=1", categoryID, month, year)
	if err := c.fetch(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	limit := rows[0].toDomain()
	return &limit, nil
}

func (c *Client) CreateLimit(ctx context.Context, limit *domain.CategoryLimit) (*domain.CategoryLimit, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateLimit")
	defer span.End()

	body, err := c.doPost(ctx, "category_limits", map[string]any{
		"id":              limit.ID,
		"category_id":     limit.CategoryID,
		"limit_amount":    limit.Limit,
		"current_expense": limit.CurrentExpense,
		"month":           limit.Month,
		"year":            limit.Year,
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}

	var rows []limitRow
	if err := json.Unmarshal(body, &rows); err != nil || len(rows) == 0 {
		return limit, nil
	}
	created := rows[0].toDomain()
	return &created, nil
}

func (c *Client) UpdateLimit(ctx context.Context, limit *domain.CategoryLimit) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateLimit")
	defer span.End()
	span.SetAttributes(attribute.String("limit.id", limit.ID))

	err := c.doPatch(ctx, fmt.Sprintf("category_limits?id=eq.%s", limit.ID), map[string]any{
		"category_id":     limit.CategoryID,
		"limit_amount":    limit.Limit,
		"current_expense": limit.CurrentExpense,
		"month":           limit.Month,
		"year":            limit.Year,
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}

func (c *Client) DeleteLimit(ctx context.Context, limitID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteLimit")
	defer span.End()

	if err := c.doDelete(ctx, fmt.Sprintf("category_limits?id=eq.%s", limitID)); err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}
