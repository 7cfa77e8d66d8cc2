package service_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/walletly/walletly-api/internal/domain"
	"github.com/walletly/walletly-api/internal/infra/cache"
	"github.com/walletly/walletly-api/internal/infra/observability"
	"github.com/walletly/walletly-api/internal/service"

	"go.uber.org/zap"
)

// --- In-memory LedgerStore mock ---

type memStore struct {
	mu        sync.Mutex
	accounts  map[string]*domain.Account
	cats      map[domain.CategoryKind]map[string]*domain.Category
	limits    map[string]*domain.CategoryLimit
	expenses  map[string]*domain.Expense
	incomes   map[string]*domain.Income
	transfers map[string]*domain.Transfer
}

func newMemStore() *memStore {
	return &memStore{
		accounts: make(map[string]*domain.Account),
		cats: map[domain.CategoryKind]map[string]*domain.Category{
			domain.CategoryExpense: {},
			domain.CategoryIncome:  {},
		},
		limits:    make(map[string]*domain.CategoryLimit),
		expenses:  make(map[string]*domain.Expense),
		incomes:   make(map[string]*domain.Income),
		transfers: make(map[string]*domain.Transfer),
	}
}

// Accounts

func (m *memStore) ListAccounts(_ context.Context, userID string) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Account
	for _, a := range m.accounts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memStore) GetAccount(_ context.Context, userID, accountID string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[accountID]
	if !ok || a.UserID != userID {
		return nil, &domain.ErrNotFound{Resource: "account", ID: accountID}
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) GetAccountByName(_ context.Context, userID, name string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.UserID == userID && strings.EqualFold(a.Name, name) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) CountAccounts(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.accounts {
		if a.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreateAccount(_ context.Context, account *domain.Account) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *account
	m.accounts[account.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) UpdateAccount(_ context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *account
	m.accounts[account.ID] = &cp
	return nil
}

func (m *memStore) SetAccountBalance(_ context.Context, accountID string, balance float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[accountID]; ok {
		a.Balance = balance
	}
	return nil
}

func (m *memStore) DeleteAccount(_ context.Context, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, accountID)
	return nil
}

// Categories

func (m *memStore) ListCategories(_ context.Context, kind domain.CategoryKind, userID string) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Category
	for _, c := range m.cats[kind] {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memStore) GetCategory(_ context.Context, kind domain.CategoryKind, categoryID string) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cats[kind][categoryID]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "category", ID: categoryID}
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) GetCategoryByName(_ context.Context, kind domain.CategoryKind, userID, name string) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.cats[kind] {
		if c.UserID == userID && strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) CountCategories(_ context.Context, kind domain.CategoryKind, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.cats[kind] {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreateCategory(_ context.Context, kind domain.CategoryKind, category *domain.Category) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *category
	m.cats[kind][category.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) UpdateCategory(_ context.Context, kind domain.CategoryKind, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *category
	m.cats[kind][category.ID] = &cp
	return nil
}

func (m *memStore) DeleteCategory(_ context.Context, kind domain.CategoryKind, categoryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cats[kind], categoryID)
	return nil
}

// Limits

func (m *memStore) ListLimitsForCategories(_ context.Context, categoryIDs []string, month, year int) ([]domain.CategoryLimit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make(map[string]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		ids[id] = true
	}
	var out []domain.CategoryLimit
	for _, l := range m.limits {
		if ids[l.CategoryID] && l.Month == month && l.Year == year {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *memStore) GetLimit(_ context.Context, limitID string) (*domain.CategoryLimit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.limits[limitID]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "limit", ID: limitID}
	}
	cp := *l
	return &cp, nil
}

func (m *memStore) FindLimit(_ context.Context, categoryID string, month, year int) (*domain.CategoryLimit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.limits {
		if l.CategoryID == categoryID && l.Month == month && l.Year == year {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateLimit(_ context.Context, limit *domain.CategoryLimit) (*domain.CategoryLimit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *limit
	m.limits[limit.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) UpdateLimit(_ context.Context, limit *domain.CategoryLimit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *limit
	m.limits[limit.ID] = &cp
	return nil
}

func (m *memStore) DeleteLimit(_ context.Context, limitID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.limits, limitID)
	return nil
}

// Expenses

func (m *memStore) GetExpense(_ context.Context, expenseID string) (*domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.expenses[expenseID]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "expense", ID: expenseID}
	}
	cp := *e
	return &cp, nil
}

func (m *memStore) ListExpensesInRange(_ context.Context, userID string, from, to time.Time) ([]domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Expense
	for _, e := range m.expenses {
		if e.UserID == userID && !e.Date.Before(from) && e.Date.Before(to) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memStore) ListExpensesByCategoryInRange(_ context.Context, categoryID string, from, to time.Time) ([]domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Expense
	for _, e := range m.expenses {
		if e.CategoryID == categoryID && !e.Date.Before(from) && e.Date.Before(to) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memStore) CreateExpense(_ context.Context, expense *domain.Expense) (*domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *expense
	m.expenses[expense.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) UpdateExpense(_ context.Context, expense *domain.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *expense
	m.expenses[expense.ID] = &cp
	return nil
}

func (m *memStore) DeleteExpense(_ context.Context, expenseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.expenses, expenseID)
	return nil
}

// Incomes

func (m *memStore) GetIncome(_ context.Context, incomeID string) (*domain.Income, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.incomes[incomeID]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "income", ID: incomeID}
	}
	cp := *i
	return &cp, nil
}

func (m *memStore) ListIncomesInRange(_ context.Context, userID string, from, to time.Time) ([]domain.Income, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Income
	for _, i := range m.incomes {
		if i.UserID == userID && !i.Date.Before(from) && i.Date.Before(to) {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (m *memStore) ListIncomesByCategoryInRange(_ context.Context, categoryID string, from, to time.Time) ([]domain.Income, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Income
	for _, i := range m.incomes {
		if i.CategoryID == categoryID && !i.Date.Before(from) && i.Date.Before(to) {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (m *memStore) CreateIncome(_ context.Context, income *domain.Income) (*domain.Income, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *income
	m.incomes[income.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) UpdateIncome(_ context.Context, income *domain.Income) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *income
	m.incomes[income.ID] = &cp
	return nil
}

func (m *memStore) DeleteIncome(_ context.Context, incomeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.incomes, incomeID)
	return nil
}

// Transfers

func (m *memStore) GetTransfer(_ context.Context, transferID string) (*domain.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transfers[transferID]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "transfer", ID: transferID}
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) ListTransfersInRange(_ context.Context, userID string, from, to time.Time) ([]domain.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Transfer
	for _, t := range m.transfers {
		if t.UserID == userID && !t.Date.Before(from) && t.Date.Before(to) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memStore) CreateTransfer(_ context.Context, transfer *domain.Transfer) (*domain.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *transfer
	m.transfers[transfer.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) UpdateTransfer(_ context.Context, transfer *domain.Transfer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *transfer
	m.transfers[transfer.ID] = &cp
	return nil
}

func (m *memStore) DeleteTransfer(_ context.Context, transferID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.transfers, transferID)
	return nil
}

// --- Test helpers ---

func newTestService(store *memStore) *service.LedgerService {
	return service.NewLedgerService(
		store,
		cache.New[[]domain.Category](5*time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
	)
}

func fptr(v float64) *float64 { return &v }

func (m *memStore) seedAccount(id, userID, name string, balance float64) {
	m.accounts[id] = &domain.Account{ID: id, UserID: userID, Name: name, Balance: balance}
}

func (m *memStore) seedCategory(kind domain.CategoryKind, id, userID, name string) {
	m.cats[kind][id] = &domain.Category{ID: id, UserID: userID, Name: name}
}

func (m *memStore) seedLimit(id, categoryID string, limit, current float64, month, year int) {
	m.limits[id] = &domain.CategoryLimit{
		ID: id, CategoryID: categoryID, Limit: limit,
		CurrentExpense: current, Month: month, Year: year,
	}
}

func (m *memStore) balance(id string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[id].Balance
}

func (m *memStore) limitCurrent(id string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.limits[id].CurrentExpense
}
