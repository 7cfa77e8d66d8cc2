package domain

// ============================================================
// Expense category limits
// ============================================================

// CategoryLimit is a per-category, per-month/year spending ceiling with a
// running total of matched expenses. CurrentExpense is maintained exclusively
// by the ledger engine; clients never write it directly.
type CategoryLimit struct {
	ID             string  `json:"id"`
	CategoryID     string  `json:"categoryId"`
	Limit          float64 `json:"limit"`
	CurrentExpense float64 `json:"currentExpense"`
	Month          int     `json:"month"`
	Year           int     `json:"year"`
}

// CreateLimitRequest is the payload for POST /api/expenseLimit/createLimit.
// The limit is created for the current month and year.
type CreateLimitRequest struct {
	CategoryID string   `json:"categoryId"`
	Limit      *float64 `json:"limit"`
}

// UpdateLimitRequest is the payload for PUT /api/expenseLimit/updateLimit/{limitId}.
// Omitted fields keep their previous values. CurrentExpense is intentionally
// not settable here.
type UpdateLimitRequest struct {
	CategoryID string   `json:"categoryId,omitempty"`
	Limit      *float64 `json:"limit,omitempty"`
	Month      *int     `json:"month,omitempty"`
	Year       *int     `json:"year,omitempty"`
}
