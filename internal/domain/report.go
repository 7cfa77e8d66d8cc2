package domain

// ============================================================
// Read-only reporting projections
// ============================================================

// TransactionRow is one merged income/expense row in the month listing.
type TransactionRow struct {
	Date       int     `json:"date"`      // day of month
	DayOfWeek  int     `json:"dayOfWeek"` // 0 = Sunday
	CategoryID string  `json:"categoryId,omitempty"`
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	AccountID  string  `json:"accountId"`
	Account    string  `json:"account"`
	Note       string  `json:"note,omitempty"`
	Type       string  `json:"type"` // "income" | "expense"
}

// MonthTransactions is the response of getAllTransactions.
type MonthTransactions struct {
	Transactions  []TransactionRow `json:"transactions"`
	AmountIncome  float64          `json:"amount_income"`
	AmountExpense float64          `json:"amount_expense"`
	Total         float64          `json:"total"`
}

// MonthSummary is one month's income/expense totals.
type MonthSummary struct {
	Month        int     `json:"month"`
	IncomeTotal  float64 `json:"incomeTotal"`
	ExpenseTotal float64 `json:"expenseTotal"`
}

// YearInfo is the rollup across a whole year.
type YearInfo struct {
	YearIncomeTotal  float64 `json:"yearIncomeTotal"`
	YearExpenseTotal float64 `json:"yearExpenseTotal"`
	YearTotal        float64 `json:"yearTotal"`
}

// YearSummaries is the response of getAllMonthSummaries.
type YearSummaries struct {
	YearInfo     YearInfo       `json:"yearInfo"`
	ArrayOfMonth []MonthSummary `json:"arrayOfMonth"`
}

// CategorySpending pairs a category with what was spent in a period.
type CategorySpending struct {
	Category Category `json:"category"`
	Spent    float64  `json:"spent"`
}

// CategoryWithLimit additionally carries the period's limit.
type CategoryWithLimit struct {
	Category Category      `json:"category"`
	Limit    CategoryLimit `json:"limit"`
	Spent    float64       `json:"spent"`
}

// CategoriesOverview splits a user's expense categories for a given
// month/year into limited, unlimited-but-spent, and untouched buckets.
type CategoriesOverview struct {
	CategoriesWithLimits     []CategoryWithLimit `json:"categoriesWithLimits"`
	CategoriesWithoutLimits  []CategorySpending  `json:"categoriesWithoutLimits"`
	CategoriesWithNoExpenses []Category          `json:"categoriesWithNoExpenses"`
}
