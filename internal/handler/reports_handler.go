package handler

import (
	"net/http"
	"strconv"

	"github.com/walletly/walletly-api/internal/domain"
	"github.com/walletly/walletly-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Report Handlers
// ============================================================

func monthTransactionsHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /users/getAllTransactions/{month}/{year}")
		defer span.End()
		month, year, err := monthYearParams(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		report, err := svc.GetMonthTransactions(ctx, UserIDFromContext(ctx), month, year)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusOK, report)
	}
}

func yearSummariesHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /users/getAllMonthSummaries/{year}")
		defer span.End()
		year, err := strconv.Atoi(chi.URLParam(r, "year"))
		if err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "year", Message: "year must be a number"}, logger)
			return
		}
		report, err := svc.GetYearSummaries(ctx, UserIDFromContext(ctx), year)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusOK, report)
	}
}

func categoriesOverviewHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /expenseCategory/allCategories/{month}/{year}")
		defer span.End()
		month, year, err := monthYearParams(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		report, err := svc.GetCategoriesOverview(ctx, UserIDFromContext(ctx), month, year)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusOK, report)
	}
}
