package domain

import "time"

// ============================================================
// Ledger records: Income, Expense, Transfer
// ============================================================

// Expense debits one account and is assigned to one expense category.
type Expense struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	CategoryID string    `json:"categoryId"`
	AccountID  string    `json:"account"`
	Amount     float64   `json:"amount"`
	Date       time.Time `json:"date"`
	Note       string    `json:"note,omitempty"`
}

// Income credits one account and is assigned to one income category.
type Income struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	CategoryID string    `json:"categoryId"`
	AccountID  string    `json:"account"`
	Amount     float64   `json:"amount"`
	Date       time.Time `json:"date"`
	Note       string    `json:"note,omitempty"`
}

// Transfer moves an amount between two distinct accounts of the same user.
type Transfer struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	FromAccountID string    `json:"fromAccountId"`
	ToAccountID   string    `json:"toAccountId"`
	Amount        float64   `json:"amount"`
	Date          time.Time `json:"date"`
}

// ------------------------------------------------------------
// Request payloads. Amount is a pointer so "omitted" can be told
// apart from zero; Date is the raw string the client sent and is
// validated by the ledger engine.
// ------------------------------------------------------------

// CreateExpenseRequest is the payload for POST /api/expense/createExpense.
// The account field is named "account" on the wire, matching the historical API.
type CreateExpenseRequest struct {
	CategoryID string   `json:"categoryId"`
	AccountID  string   `json:"account"`
	Amount     *float64 `json:"amount"`
	Date       string   `json:"date"`
	Note       string   `json:"note,omitempty"`
}

// UpdateExpenseRequest is the payload for PUT /api/expense/updateExpense/{expenseId}.
// Every field is optional; omitted fields keep their previous values.
type UpdateExpenseRequest struct {
	CategoryID string   `json:"categoryId,omitempty"`
	AccountID  string   `json:"account,omitempty"`
	Amount     *float64 `json:"amount,omitempty"`
	Date       string   `json:"date,omitempty"`
	Note       *string  `json:"note,omitempty"`
}

// CreateIncomeRequest is the payload for POST /api/income/createIncome.
type CreateIncomeRequest struct {
	CategoryID string   `json:"categoryId"`
	AccountID  string   `json:"accountId"`
	Amount     *float64 `json:"amount"`
	Date       string   `json:"date"`
	Note       string   `json:"note,omitempty"`
}

// UpdateIncomeRequest is the payload for PUT /api/income/updateIncome/{incomeId}.
type UpdateIncomeRequest struct {
	CategoryID string   `json:"categoryId,omitempty"`
	AccountID  string   `json:"accountId,omitempty"`
	Amount     *float64 `json:"amount,omitempty"`
	Date       string   `json:"date,omitempty"`
	Note       *string  `json:"note,omitempty"`
}

// CreateTransferRequest is the payload for POST /api/transfer/createTransfer.
type CreateTransferRequest struct {
	Amount        *float64 `json:"amount"`
	Date          string   `json:"date"`
	FromAccountID string   `json:"fromAccountId"`
	ToAccountID   string   `json:"toAccountId"`
}

// UpdateTransferRequest is the payload for PUT /api/transfer/updateTransfer/{transferId}.
type UpdateTransferRequest struct {
	Amount        *float64 `json:"amount,omitempty"`
	Date          string   `json:"date,omitempty"`
	FromAccountID string   `json:"fromAccountId,omitempty"`
	ToAccountID   string   `json:"toAccountId,omitempty"`
}
