package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/walletly/walletly-api/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Ledger records — tables "expenses", "incomes", "transfers"
// ============================================================

// entryRow maps the expenses and incomes tables, which share a shape.
type entryRow struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	CategoryID string  `json:"category_id"`
	AccountID  string  `json:"account_id"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
	Note       string  `json:"note"`
}

func (r entryRow) toExpense() domain.Expense {
	return domain.Expense{
		ID:         r.ID,
		UserID:     r.UserID,
		CategoryID: r.CategoryID,
		AccountID:  r.AccountID,
		Amount:     r.Amount,
		Date:       parseRowTime(r.Date),
		Note:       r.Note,
	}
}

func (r entryRow) toIncome() domain.Income {
	return domain.Income{
		ID:         r.ID,
		UserID:     r.UserID,
		CategoryID: r.CategoryID,
		AccountID:  r.AccountID,
		Amount:     r.Amount,
		Date:       parseRowTime(r.Date),
		Note:       r.Note,
	}
}

func entryColumns(id, userID, categoryID, accountID string, amount float64, date time.Time, note string) map[string]any {
	return map[string]any{
		"id":          id,
		"user_id":     userID,
		"category_id": categoryID,
		"account_id":  accountID,
		"amount":      amount,
		"date":        date.UTC().Format(time.RFC3339),
		"note":        note,
	}
}

func rangeFilter(from, to time.Time) string {
	return fmt.Sprintf("date=gte.%s&date=lt.%s",
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
}

// --- Expenses ---

func (c *Client) GetExpense(ctx context.Context, expenseID string) (*domain.Expense, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetExpense")
	defer span.End()
	span.SetAttributes(attribute.String("expense.id", expenseID))

	var rows []entryRow
	path := fmt.Sprintf("expenses?id=eq.%s&limit=1", expenseID)
	if err := c.fetch(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "expense", ID: expenseID}
	}

	expense := rows[0].toExpense()
	return &expense, nil
}

func (c *Client) ListExpensesInRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Expense, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListExpensesInRange")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var rows []entryRow
	path := fmt.Sprintf("expenses?user_id=eq.%s&%s&order=date.asc", userID, rangeFilter(from, to))
	if err := c.fetch(ctx, path, &rows); err != nil {
		return nil, err
	}

	expenses := make([]domain.Expense, 0, len(rows))
	for _, r := range rows {
		expenses = append(expenses, r.toExpense())
	}
	return expenses, nil
}

func (c *Client) ListExpensesByCategoryInRange(ctx context.Context, categoryID string, from, to time.Time) ([]domain.Expense, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListExpensesByCategoryInRange")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", categoryID))

	var rows []entryRow
	path := fmt.Sprintf("expenses?category_id=eq.%s&%s", categoryID, rangeFilter(from, to))
	if err := c.fetch(ctx, path, &rows); err != nil {
		return nil, err
	}

	expenses := make([]domain.Expense, 0, len(rows))
	for _, r := range rows {
		expenses = append(expenses, r.toExpense())
	}
	return expenses, nil
}

func (c *Client) CreateExpense(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateExpense")
	defer span.End()

	body, err := c.doPost(ctx, "expenses",
		entryColumns(expense.ID, expense.UserID, expense.CategoryID, expense.AccountID, expense.Amount, expense.Date, expense.Note))
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}

	var rows []entryRow
	if err := json.Unmarshal(body, &rows); err != nil || len(rows) == 0 {
		return expense, nil
	}
	created := rows[0].toExpense()
	return &created, nil
}

func (c *Client) UpdateExpense(ctx context.Context, expense *domain.Expense) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateExpense")
	defer span.End()
	span.SetAttributes(attribute.String("expense.id", expense.ID))

	err := c.doPatch(ctx, fmt.Sprintf("expenses?id=eq.%s", expense.ID), map[string]any{
		"category_id": expense.CategoryID,
		"account_id":  expense.AccountID,
		"amount":      expense.Amount,
		"date":        expense.Date.UTC().Format(time.RFC3339),
		"note":        expense.Note,
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}

func (c *Client) DeleteExpense(ctx context.Context, expenseID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteExpense")
	defer span.End()

	if err := c.doDelete(ctx, fmt.Sprintf("expenses?id=eq.%s", expenseID)); err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}

// --- Incomes ---

func (c *Client) GetIncome(ctx context.Context, incomeID string) (*domain.Income, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetIncome")
	defer span.End()
	span.SetAttributes(attribute.String("income.id", incomeID))

	var rows []entryRow
	path := fmt.Sprintf("incomes?id=eq.%s&limit=1", incomeID)
	if err := c.fetch(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "income", ID: incomeID}
	}

	income := rows[0].toIncome()
	return &income, nil
}

func (c *Client) ListIncomesInRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Income, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListIncomesInRange")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var rows []entryRow
	path := fmt.Sprintf("incomes?user_id=eq.%s&%s&order=date.asc", userID, rangeFilter(from, to))
	if err := c.fetch(ctx, path, &rows); err != nil {
		return nil, err
	}

	incomes := make([]domain.Income, 0, len(rows))
	for _, r := range rows {
		incomes = append(incomes, r.toIncome())
	}
	return incomes, nil
}

func (c *Client) ListIncomesByCategoryInRange(ctx context.Context, categoryID string, from, to time.Time) ([]domain.Income, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListIncomesByCategoryInRange")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", categoryID))

	var rows []entryRow
	path := fmt.Sprintf("incomes?category_id=eq.%s&%s", categoryID, rangeFilter(from, to))
	if err := c.fetch(ctx, path, &rows); err != nil {
		return nil, err
	}

	incomes := make([]domain.Income, 0, len(rows))
	for _, r := range rows {
		incomes = append(incomes, r.toIncome())
	}
	return incomes, nil
}

func (c *Client) CreateIncome(ctx context.Context, income *domain.Income) (*domain.Income, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateIncome")
	defer span.End()

	body, err := c.doPost(ctx, "incomes",
		entryColumns(income.ID, income.UserID, income.CategoryID, income.AccountID, income.Amount, income.Date, income.Note))
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}

	var rows []entryRow
	if err := json.Unmarshal(body, &rows); err != nil || len(rows) == 0 {
		return income, nil
	}
	created := rows[0].toIncome()
	return &created, nil
}

func (c *Client) UpdateIncome(ctx context.Context, income *domain.Income) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateIncome")
	defer span.End()
	span.SetAttributes(attribute.String("income.id", income.ID))

	err := c.doPatch(ctx, fmt.Sprintf("incomes?id=eq.%s", income.ID), map[string]any{
		"category_id": income.CategoryID,
		"account_id":  income.AccountID,
		"amount":      income.Amount,
		"date":        income.Date.UTC().Format(time.RFC3339),
		"note":        income.Note,
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}

func (c *Client) DeleteIncome(ctx context.Context, incomeID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteIncome")
	defer span.End()

	if err := c.doDelete(ctx, fmt.Sprintf("incomes?id=eq.%s", incomeID)); err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}

// --- Transfers ---

// transferRow maps the transfers table columns to our domain.
type transferRow struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	FromAccountID string  `json:"from_account_id"`
	ToAccountID   string  `json:"to_account_id"`
	Amount        float64 `json:"amount"`
	Date          string  `json:"date"`
}

func (r transferRow) toDomain() domain.Transfer {
	return domain.Transfer{
		ID:            r.ID,
		UserID:        r.UserID,
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Amount:        r.Amount,
		Date:          parseRowTime(r.Date),
	}
}

func (c *Client) GetTransfer(ctx context.Context, transferID string) (*domain.Transfer, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetTransfer")
	defer span.End()
	span.SetAttributes(attribute.String("transfer.id", transferID))

	var rows []transferRow
	path := fmt.Sprintf("transfers?id=eq.%s&limit=1", transferID)
	if err := c.fetch(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "transfer", ID: transferID}
	}

	transfer := rows[0].toDomain()
	return &transfer, nil
}

func (c *Client) ListTransfersInRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Transfer, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListTransfersInRange")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var rows []transferRow
	path := fmt.Sprintf("transfers?user_id=eq.%s&%s&order=date.asc", userID, rangeFilter(from, to))
	if err := c.fetch(ctx, path, &rows); err != nil {
		return nil, err
	}

	transfers := make([]domain.Transfer, 0, len(rows))
	for _, r := range rows {
		transfers = append(transfers, r.toDomain())
	}
	return transfers, nil
}

func (c *Client) CreateTransfer(ctx context.Context, transfer *domain.Transfer) (*domain.Transfer, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateTransfer")
	defer span.End()

	body, err := c.doPost(ctx, "transfers", map[string]any{
		"id":              transfer.ID,
		"user_id":         transfer.UserID,
		"from_account_id": transfer.FromAccountID,
		"to_account_id":   transfer.ToAccountID,
		"amount":          transfer.Amount,
		"date":            transfer.Date.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}

	var rows []transferRow
	if err := json.Unmarshal(body, &rows); err != nil || len(rows) == 0 {
		return transfer, nil
	}
	created := rows[0].toDomain()
	return &created, nil
}

func (c *Client) UpdateTransfer(ctx context.Context, transfer *domain.Transfer) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateTransfer")
	defer span.End()
	span.SetAttributes(attribute.String("transfer.id", transfer.ID))

	err := c.doPatch(ctx, fmt.Sprintf("transfers?id=eq.%s", transfer.ID), map[string]any{
		"from_account_id": transfer.FromAccountID,
		"to_account_id":   transfer.ToAccountID,
		"amount":          transfer.Amount,
		"date":            transfer.Date.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}

func (c *Client) DeleteTransfer(ctx context.Context, transferID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteTransfer")
	defer span.End()

	if err := c.doDelete(ctx, fmt.Sprintf("transfers?id=eq.%s", transferID)); err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}
