package domain

// ============================================================
// Categories (income / expense)
// ============================================================

// CategoryKind distinguishes the two category tables.
type CategoryKind string

const (
	CategoryExpense CategoryKind = "expense"
	CategoryIncome  CategoryKind = "income"
)

// Category is a named grouping for Income or Expense records,
// owned by one user and specific to one kind.
type Category struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

// CategoryRequest is the payload for category create/rename endpoints.
type CategoryRequest struct {
	Name string `json:"name"`
}

// DeletedCategory reports which kind of category a combined delete removed.
type DeletedCategory struct {
	Message string       `json:"message"`
	Type    CategoryKind `json:"type"`
}
