package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/walletly/walletly-api/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Users & auth — tables "users", "credentials", "refresh_tokens"
// ============================================================

// userRow maps the users table columns to our domain.
type userRow struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{ID: r.ID, Email: r.Email, Name: r.Name, CreatedAt: parseRowTime(r.CreatedAt)}
}

func (c *Client) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetUser")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var rows []userRow
	path := fmt.Sprintf("users?id=eq.%s&limit=1", userID)
	if err := c.fetch(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
	}

	user := rows[0].toDomain()
	return &user, nil
}

func (c *Client) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateUser")
	defer span.End()

	body, err := c.doPost(ctx, "users", map[string]any{
		"id":         user.ID,
		"email":      user.Email,
		"name":       user.Name,
		"created_at": user.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}

	var rows []userRow
	if err := json.Unmarshal(body, &rows); err != nil || len(rows) == 0 {
		return user, nil
	}
	created := rows[0].toDomain()
	return &created, nil
}

// --- Credentials ---

type credentialRow struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

func (c *Client) GetCredentialByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetCredentialByEmail")
	defer span.End()

	var rows []credentialRow
	path := fmt.Sprintf("credentials?email=eq.%s&limit=1", url.QueryEscape(email))
	if err := c.fetch(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	r := rows[0]
	return &domain.Credential{UserID: r.UserID, Email: r.Email, PasswordHash: r.PasswordHash}, nil
}

func (c *Client) CreateCredential(ctx context.Context, cred *domain.Credential) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateCredential")
	defer span.End()

	_, err := c.doPost(ctx, "credentials", map[string]any{
		"user_id":       cred.UserID,
		"email":         cred.Email,
		"password_hash": cred.PasswordHash,
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}

// --- Refresh tokens ---

type refreshTokenRow struct {
	TokenHash string `json:"token_hash"`
	UserID    string `json:"user_id"`
	ExpiresAt string `json:"expires_at"`
}

func (c *Client) StoreRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	ctx, span := tracer.Start(ctx, "Supabase.StoreRefreshToken")
	defer span.End()

	_, err := c.doPost(ctx, "refresh_tokens", map[string]any{
		"token_hash": tokenHash,
		"user_id":    userID,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}

func (c *Client) GetRefreshToken(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetRefreshToken")
	defer span.End()

	var rows []refreshTokenRow
	path := fmt.Sprintf("refresh_tokens?token_hash=eq.%s&limit=1", tokenHash)
	if err := c.fetch(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	r := rows[0]
	return &domain.RefreshToken{TokenHash: r.TokenHash, UserID: r.UserID, ExpiresAt: parseRowTime(r.ExpiresAt)}, nil
}

func (c *Client) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	ctx, span := tracer.Start(ctx, "Supabase.RevokeRefreshToken")
	defer span.End()

	if err := c.doDelete(ctx, fmt.Sprintf("refresh_tokens?token_hash=eq.%s", tokenHash)); err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}

func (c *Client) RevokeAllRefreshTokens(ctx context.Context, userID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.RevokeAllRefreshTokens")
	defer span.End()

	if err := c.doDelete(ctx, fmt.Sprintf("refresh_tokens?user_id=eq.%s", userID)); err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}
