package service

import (
	"context"
	"sort"
	"time"

	"github.com/walletly/walletly-api/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// ============================================================
// Read-only reports. These never mutate state; the heavy ones fan
// their store reads out concurrently.
// ============================================================

// GetMonthTransactions merges a month's incomes and expenses into one
// chronological listing with per-side totals.
func (s *LedgerService) GetMonthTransactions(ctx context.Context, userID string, month, year int) (*domain.MonthTransactions, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.GetMonthTransactions")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID), attribute.Int("month", month), attribute.Int("year", year))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("report_month_transactions", time.Since(start)) }()

	if err := validateMonthYear(month, year); err != nil {
		return nil, err
	}
	from, to := monthRange(month, year)

	var (
		incomes     []domain.Income
		expenses    []domain.Expense
		accounts    []domain.Account
		expenseCats []domain.Category
		incomeCats  []domain.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		incomes, err = s.store.ListIncomesInRange(gctx, userID, from, to)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = s.store.ListExpensesInRange(gctx, userID, from, to)
		return err
	})
	g.Go(func() (err error) {
		accounts, err = s.store.ListAccounts(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		expenseCats, err = s.ListCategories(gctx, domain.CategoryExpense, userID)
		return err
	})
	g.Go(func() (err error) {
		incomeCats, err = s.ListCategories(gctx, domain.CategoryIncome, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	accountNames := make(map[string]string, len(accounts))
	for _, a := range accounts {
		accountNames[a.ID] = a.Name
	}
	categoryNames := make(map[string]string, len(expenseCats)+len(incomeCats))
	for _, c := range expenseCats {
		categoryNames[c.ID] = c.Name
	}
	for _, c := range incomeCats {
		categoryNames[c.ID] = c.Name
	}

	out := &domain.MonthTransactions{Transactions: make([]domain.TransactionRow, 0, len(incomes)+len(expenses))}
	for _, in := range incomes {
		out.AmountIncome += in.Amount
		out.Transactions = append(out.Transactions, domain.TransactionRow{
			Date:       in.Date.Day(),
			DayOfWeek:  int(in.Date.Weekday()),
			CategoryID: in.CategoryID,
			Category:   categoryNames[in.CategoryID],
			Amount:     in.Amount,
			AccountID:  in.AccountID,
			Account:    accountNames[in.AccountID],
			Note:       in.Note,
			Type:       "income",
		})
	}
	for _, ex := range expenses {
		out.AmountExpense += ex.Amount
		out.Transactions = append(out.Transactions, domain.TransactionRow{
			Date:       ex.Date.Day(),
			DayOfWeek:  int(ex.Date.Weekday()),
			CategoryID: ex.CategoryID,
			Category:   categoryNames[ex.CategoryID],
			Amount:     ex.Amount,
			AccountID:  ex.AccountID,
			Account:    accountNames[ex.AccountID],
			Note:       ex.Note,
			Type:       "expense",
		})
	}
	sort.SliceStable(out.Transactions, func(i, j int) bool {
		return out.Transactions[i].Date < out.Transactions[j].Date
	})
	out.Total = out.AmountIncome - out.AmountExpense
	return out, nil
}

// GetYearSummaries returns per-month income/expense totals for one year
// plus the year rollup. Both sides of the ledger are fetched once for the
// whole year and bucketed locally.
func (s *LedgerService) GetYearSummaries(ctx context.Context, userID string, year int) (*domain.YearSummaries, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.GetYearSummaries")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID), attribute.Int("year", year))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("report_year_summaries", time.Since(start)) }()

	if err := validateMonthYear(1, year); err != nil {
		return nil, err
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	var (
		incomes  []domain.Income
		expenses []domain.Expense
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		incomes, err = s.store.ListIncomesInRange(gctx, userID, from, to)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = s.store.ListExpensesInRange(gctx, userID, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &domain.YearSummaries{ArrayOfMonth: make([]domain.MonthSummary, 12)}
	for i := range out.ArrayOfMonth {
		out.ArrayOfMonth[i].Month = i + 1
	}
	for _, in := range incomes {
		out.ArrayOfMonth[int(in.Date.Month())-1].IncomeTotal += in.Amount
		out.YearInfo.YearIncomeTotal += in.Amount
	}
	for _, ex := range expenses {
		out.ArrayOfMonth[int(ex.Date.Month())-1].ExpenseTotal += ex.Amount
		out.YearInfo.YearExpenseTotal += ex.Amount
	}
	out.YearInfo.YearTotal = out.YearInfo.YearIncomeTotal - out.YearInfo.YearExpenseTotal
	return out, nil
}

// GetCategoriesOverview splits the user's expense categories for a period
// into three buckets: covered by a limit, spent without a limit, untouched.
func (s *LedgerService) GetCategoriesOverview(ctx context.Context, userID string, month, year int) (*domain.CategoriesOverview, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.GetCategoriesOverview")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID), attribute.Int("month", month), attribute.Int("year", year))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("report_categories_overview", time.Since(start)) }()

	if err := validateMonthYear(month, year); err != nil {
		return nil, err
	}
	categories, err := s.ListCategories(ctx, domain.CategoryExpense, userID)
	if err != nil {
		return nil, err
	}

	out := &domain.CategoriesOverview{
		CategoriesWithLimits:     []domain.CategoryWithLimit{},
		CategoriesWithoutLimits:  []domain.CategorySpending{},
		CategoriesWithNoExpenses: []domain.Category{},
	}
	if len(categories) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	from, to := monthRange(month, year)

	var (
		limits   []domain.CategoryLimit
		expenses []domain.Expense
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		limits, err = s.store.ListLimitsForCategories(gctx, ids, month, year)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = s.store.ListExpensesInRange(gctx, userID, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	limitByCategory := make(map[string]domain.CategoryLimit, len(limits))
	for _, l := range limits {
		limitByCategory[l.CategoryID] = l
	}
	spentByCategory := make(map[string]float64, len(categories))
	for _, ex := range expenses {
		spentByCategory[ex.CategoryID] += ex.Amount
	}

	for _, c := range categories {
		spent := spentByCategory[c.ID]
		if l, ok := limitByCategory[c.ID]; ok {
			out.CategoriesWithLimits = append(out.CategoriesWithLimits, domain.CategoryWithLimit{Category: c, Limit: l, Spent: spent})
			continue
		}
		if spent > 0 {
			out.CategoriesWithoutLimits = append(out.CategoriesWithoutLimits, domain.CategorySpending{Category: c, Spent: spent})
			continue
		}
		out.CategoriesWithNoExpenses = append(out.CategoriesWithNoExpenses, c)
	}
	return out, nil
}
