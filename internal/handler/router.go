package handler

import (
	"net/http"
	"time"

	"github.com/walletly/walletly-api/internal/domain"
	"github.com/walletly/walletly-api/internal/infra/observability"
	"github.com/walletly/walletly-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// Route names follow the tracker's historical API contract.
func NewRouter(ledgerSvc *service.LedgerService, authSvc *service.AuthService, metrics *observability.Metrics, allowedOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(requestMetricsMiddleware(metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(ledgerSvc))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API ---
	r.Route("/api", func(r chi.Router) {

		// Public auth surface
		r.Post("/users/register", registerHandler(authSvc, logger))
		r.Post("/users/login", loginHandler(authSvc, logger))
		r.Post("/users/refresh", refreshHandler(authSvc, logger))
		r.Post("/users/createUser", createUserHandler(authSvc, logger))

		// Everything below requires a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(authSvc, logger))

			r.Post("/users/logout", logoutHandler(authSvc, logger))

			// Accounts
			r.Get("/accounts/getAccounts", listAccountsHandler(ledgerSvc, logger))
			r.Get("/accounts/balances", accountBalancesHandler(ledgerSvc, logger))
			r.Post("/accounts/createAccount", createAccountHandler(ledgerSvc, logger))
			r.Put("/accounts/updateAccount/{accountId}", updateAccountHandler(ledgerSvc, logger))
			r.Delete("/accounts/deleteAccount/{accountId}", deleteAccountHandler(ledgerSvc, logger))

			// Expense categories
			r.Get("/expenseCategory/allCategories", listCategoriesHandler(ledgerSvc, domain.CategoryExpense, logger))
			r.Get("/expenseCategory/allCategories/{month}/{year}", categoriesOverviewHandler(ledgerSvc, logger))
			r.Post("/expenseCategory/createCategory", createCategoryHandler(ledgerSvc, domain.CategoryExpense, logger))
			r.Put("/expenseCategory/updateCategory/{categoryId}", renameCategoryHandler(ledgerSvc, domain.CategoryExpense, logger))

			// Income categories
			r.Get("/incomeCategory/allCategories", listCategoriesHandler(ledgerSvc, domain.CategoryIncome, logger))
			r.Post("/incomeCategory/createCategory", createCategoryHandler(ledgerSvc, domain.CategoryIncome, logger))
			r.Put("/incomeCategory/updateCategory/{categoryId}", renameCategoryHandler(ledgerSvc, domain.CategoryIncome, logger))

			// Combined category delete
			r.Delete("/users/deleteCategory/{categoryId}", deleteCategoryHandler(ledgerSvc, logger))

			// Category limits
			r.Get("/expenseLimit/getLimits/{month}/{year}", listLimitsHandler(ledgerSvc, logger))
			r.Post("/expenseLimit/createLimit", createLimitHandler(ledgerSvc, logger))
			r.Put("/expenseLimit/updateLimit/{limitId}", updateLimitHandler(ledgerSvc, logger))
			r.Delete("/expenseLimit/deleteLimit/{limitId}", deleteLimitHandler(ledgerSvc, logger))

			// Expenses
			r.Post("/expense/createExpense", createExpenseHandler(ledgerSvc, logger))
			r.Put("/expense/updateExpense/{expenseId}", updateExpenseHandler(ledgerSvc, logger))
			r.Delete("/expense/deleteExpense/{expenseId}", deleteExpenseHandler(ledgerSvc, logger))

			// Incomes
			r.Post("/income/createIncome", createIncomeHandler(ledgerSvc, logger))
			r.Put("/income/updateIncome/{incomeId}", updateIncomeHandler(ledgerSvc, logger))
			r.Delete("/income/deleteIncome/{incomeId}", deleteIncomeHandler(ledgerSvc, logger))

			// Transfers
			r.Post("/transfer/createTransfer", createTransferHandler(ledgerSvc, logger))
			r.Put("/transfer/updateTransfer/{transferId}", updateTransferHandler(ledgerSvc, logger))
			r.Delete("/transfer/deleteTransfer/{transferId}", deleteTransferHandler(ledgerSvc, logger))

			// Reports
			r.Get("/users/getAllTransactions/{month}/{year}", monthTransactionsHandler(ledgerSvc, logger))
			r.Get("/users/getAllMonthSummaries/{year}", yearSummariesHandler(ledgerSvc, logger))

			// Metrics snapshot
			r.Get("/metrics/ledger", ledgerMetricsHandler(metrics))
		})
	})

	return r
}

// ============================================================
// Operational handlers
// ============================================================

func healthzHandler(ledgerSvc *service.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)

		storeStatus := "healthy"
		start := time.Now()
		if _, err := ledgerSvc.ListAccounts(r.Context(), "health-check"); err != nil {
			storeStatus = "degraded"
		}
		latency := time.Since(start).Milliseconds()

		overall := "healthy"
		if storeStatus != "healthy" {
			overall = "degraded"
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status":      overall,
			"lastChecked": now,
			"services": []map[string]any{
				{"name": "walletly-api", "status": "healthy", "latencyMs": 0},
				{"name": "supabase", "status": storeStatus, "latencyMs": latency},
			},
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func ledgerMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeSuccess(w, http.StatusOK, metrics.GetLedgerSnapshot())
	}
}

// requestMetricsMiddleware counts every request as success or error by
// response status.
func requestMetricsMiddleware(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			if ww.Status() >= 400 {
				metrics.IncRequest("error")
			} else {
				metrics.IncRequest("success")
			}
		})
	}
}
