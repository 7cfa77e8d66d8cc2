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
// Accounts — table "accounts"
// ============================================================

// accountRow maps the accounts table columns to our domain.
type accountRow struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
	UserID  string  `json:"user_id"`
}

func (r accountRow) toDomain() domain.Account {
	return domain.Account{ID: r.ID, Name: r.Name, Balance: r.Balance, UserID: r.UserID}
}

func (c *Client) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListAccounts")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var rows []accountRow
	path := fmt.Sprintf("accounts?user_id=eq.%s&order=name.asc", userID)
	if err := c.fetch(ctx, path, &rows); err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, 0, len(rows))
	for _, r := range rows {
		accounts = append(accounts, r.toDomain())
	}
	return accounts, nil
}

func (c *Client) GetAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetAccount")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))

	var rows []accountRow
	path := fmt.Sprintf("accounts?id=eq.%s&user_id=eq.%s&limit=1", accountID, userID)
	if err := c.fetch(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "account", ID: accountID}
	}

	account := rows[0].toDomain()
	return &account, nil
}

func (c *Client) GetAccountByName(ctx context.Context, userID, name string) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetAccountByName")
	defer span.End()

	var rows []accountRow
	path := fmt.Sprintf("accounts?user_id=eq.%s&name=ilike.%s&limit=1", userID, url.QueryEscape(name))
	if err := c.fetch(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	account := rows[0].toDomain()
	return &account, nil
}

func (c *Client) CountAccounts(ctx context.Context, userID string) (int, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CountAccounts")
	defer span.End()

	var rows []struct {
		ID string `json:"id"`
	}
	path := fmt.Sprintf("accounts?user_id=eq.%s&select=id", userID)
	if err := c.fetch(ctx, path, &rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (c *Client) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateAccount")
	defer span.End()

	body, err := c.doPost(ctx, "accounts", map[string]any{
		"id":      account.ID,
		"name":    account.Name,
		"balance": account.Balance,
		"user_id": account.UserID,
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}

	var rows []accountRow
	if err := json.Unmarshal(body, &rows); err != nil || len(rows) == 0 {
		return account, nil
	}
	created := rows[0].toDomain()
	return &created, nil
}

func (c *Client) UpdateAccount(ctx context.Context, account *domain.Account) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateAccount")
	defer span.End()

	err := c.doPatch(ctx, fmt.Sprintf("accounts?id=eq.%s", account.ID), map[string]any{
		"name":    account.Name,
		"balance": account.Balance,
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}

func (c *Client) SetAccountBalance(ctx context.Context, accountID string, balance float64) error {
	ctx, span := tracer.Start(ctx, "Supabase.SetAccountBalance")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))

	err := c.doPatch(ctx, fmt.Sprintf("accounts?id=eq.%s", accountID), map[string]any{
		"balance": balance,
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}

func (c *Client) DeleteAccount(ctx context.Context, accountID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteAccount")
	defer span.End()

	if err := c.doDelete(ctx, fmt.Sprintf("accounts?id=eq.%s", accountID)); err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}
