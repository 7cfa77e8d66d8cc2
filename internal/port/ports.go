// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"
	"time"

	"github.com/walletly/walletly-api/internal/domain"
)

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// LedgerStore defines all data operations for the tracker features.
// Implemented by the Supabase adapter (or any other persistence layer).
type LedgerStore interface {
	// Accounts
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)
	GetAccount(ctx context.Context, userID, accountID string) (*domain.Account, error)
	// GetAccountByName matches case-insensitively; (nil, nil) when no match.
	GetAccountByName(ctx context.Context, userID, name string) (*domain.Account, error)
	CountAccounts(ctx context.Context, userID string) (int, error)
	CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error)
	UpdateAccount(ctx context.Context, account *domain.Account) error
	SetAccountBalance(ctx context.Context, accountID string, balance float64) error
	DeleteAccount(ctx context.Context, accountID string) error

	// Categories (kind is "expense" or "income")
	ListCategories(ctx context.Context, kind domain.CategoryKind, userID string) ([]domain.Category, error)
	GetCategory(ctx context.Context, kind domain.CategoryKind, categoryID string) (*domain.Category, error)
	// GetCategoryByName matches case-insensitively; (nil, nil) when no match.
	GetCategoryByName(ctx context.Context, kind domain.CategoryKind, userID, name string) (*domain.Category, error)
	CountCategories(ctx context.Context, kind domain.CategoryKind, userID string) (int, error)
	CreateCategory(ctx context.Context, kind domain.CategoryKind, category *domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, kind domain.CategoryKind, category *domain.Category) error
	DeleteCategory(ctx context.Context, kind domain.CategoryKind, categoryID string) error

	// Category limits
	ListLimitsForCategories(ctx context.Context, categoryIDs []string, month, year int) ([]domain.CategoryLimit, error)
	GetLimit(ctx context.Context, limitID string) (*domain.CategoryLimit, error)
	// FindLimit returns (nil, nil) when no limit exists for the period.
	FindLimit(ctx context.Context, categoryID string, month, year int) (*domain.CategoryLimit, error)
	CreateLimit(ctx context.Context, limit *domain.CategoryLimit) (*domain.CategoryLimit, error)
	UpdateLimit(ctx context.Context, limit *domain.CategoryLimit) error
	DeleteLimit(ctx context.Context, limitID string) error

	// Expenses
	GetExpense(ctx context.Context, expenseID string) (*domain.Expense, error)
	ListExpensesInRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Expense, error)
	ListExpensesByCategoryInRange(ctx context.Context, categoryID string, from, to time.Time) ([]domain.Expense, error)
	CreateExpense(ctx context.Context, expense *domain.Expense) (*domain.Expense, error)
	UpdateExpense(ctx context.Context, expense *domain.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error

	// Incomes
	GetIncome(ctx context.Context, incomeID string) (*domain.Income, error)
	ListIncomesInRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Income, error)
	ListIncomesByCategoryInRange(ctx context.Context, categoryID string, from, to time.Time) ([]domain.Income, error)
	CreateIncome(ctx context.Context, income *domain.Income) (*domain.Income, error)
	UpdateIncome(ctx context.Context, income *domain.Income) error
	DeleteIncome(ctx context.Context, incomeID string) error

	// Transfers
	GetTransfer(ctx context.Context, transferID string) (*domain.Transfer, error)
	ListTransfersInRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Transfer, error)
	CreateTransfer(ctx context.Context, transfer *domain.Transfer) (*domain.Transfer, error)
	UpdateTransfer(ctx context.Context, transfer *domain.Transfer) error
	DeleteTransfer(ctx context.Context, transferID string) error
}

// AuthStore defines all data operations for the authentication system.
type AuthStore interface {
	// Users
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)

	// Credentials. GetCredentialByEmail returns (nil, nil) when unknown.
	GetCredentialByEmail(ctx context.Context, email string) (*domain.Credential, error)
	CreateCredential(ctx context.Context, cred *domain.Credential) error

	// Refresh tokens. GetRefreshToken returns (nil, nil) when unknown.
	StoreRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID string) error
}
