package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/walletly/walletly-api/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Categories — tables "expense_categories" and "income_categories"
// ============================================================

func categoryTable(kind domain.CategoryKind) string {
	if kind == domain.CategoryIncome {
		return "income_categories"
	}
	return "expense_categories"
}

// categoryRow maps either category table's columns to our domain.
type categoryRow struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	UserID string `json:"user_id"`
}

func (r categoryRow) toDomain() domain.Category {
	return domain.Category{ID: r.ID, Name: r.Name, UserID: r.UserID}
}

func (c *Client) ListCategories(ctx context.Context, kind domain.CategoryKind, userID string) ([]domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListCategories")
	defer span.End()
	span.SetAttributes(attribute.String("category.kind", string(kind)))

	var rows []categoryRow
	path := fmt.Sprintf("%s?user_id=eq.%s&order=name.asc", categoryTable(kind), userID)
	if err := c.fetch(ctx, path, &rows); err != nil {
		return nil, err
	}

	categories := make([]domain.Category, 0, len(rows))
	for _, r := range rows {
		categories = append(categories, r.toDomain())
	}
	return categories, nil
}

func (c *Client) GetCategory(ctx context.Context, kind domain.CategoryKind, categoryID string) (*domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", categoryID))

	var rows []categoryRow
	path := fmt.Sprintf("%s?id=eq.%s&limit=1", categoryTable(kind), categoryID)
	if err := c.fetch(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: string(kind) + " category", ID: categoryID}
	}

	category := rows[0].toDomain()
	return &category, nil
}

func (c *Client) GetCategoryByName(ctx context.Context, kind domain.CategoryKind, userID, name string) (*domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetCategoryByName")
	defer span.End()

	var rows []categoryRow
	path := fmt.Sprintf("%s?user_id=eq.%s&name=ilike.%s&limit=1", categoryTable(kind), userID, url.QueryEscape(name))
	if err := c.fetch(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	category := rows[0].toDomain()
	return &category, nil
}

func (c *Client) CountCategories(ctx context.Context, kind domain.CategoryKind, userID string) (int, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CountCategories")
	defer span.End()

	var rows []struct {
		ID string `json:"id"`
	}
	path := fmt.Sprintf("%s?user_id=eq.%s&select=id", categoryTable(kind), userID)
	if err := c.fetch(ctx, path, &rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (c *Client) CreateCategory(ctx context.Context, kind domain.CategoryKind, category *domain.Category) (*domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateCategory")
	defer span.End()

	body, err := c.doPost(ctx, categoryTable(kind), map[string]any{
		"id":      category.ID,
		"name":    category.Name,
		"user_id": category.UserID,
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}

	var rows []categoryRow
	if err := json.Unmarshal(body, &rows); err != nil || len(rows) == 0 {
		return category, nil
	}
	created := rows[0].toDomain()
	return &created, nil
}

func (c *Client) UpdateCategory(ctx context.Context, kind domain.CategoryKind, category *domain.Category) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateCategory")
	defer span.End()

	err := c.doPatch(ctx, fmt.Sprintf("%s?id=eq.%s", categoryTable(kind), category.ID), map[string]any{
		"name": category.Name,
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}

func (c *Client) DeleteCategory(ctx context.Context, kind domain.CategoryKind, categoryID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteCategory")
	defer span.End()

	if err := c.doDelete(ctx, fmt.Sprintf("%s?id=eq.%s", categoryTable(kind), categoryID)); err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}
