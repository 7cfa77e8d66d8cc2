package handler

import (
	"net/http"

	"github.com/walletly/walletly-api/internal/domain"
	"github.com/walletly/walletly-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Category Limit Handlers
// ============================================================

func listLimitsHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /expenseLimit/getLimits/{month}/{year}")
		defer span.End()
		month, year, err := monthYearParams(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		limits, err := svc.ListLimits(ctx, UserIDFromContext(ctx), month, year)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusOK, limits)
	}
}

func createLimitHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /expenseLimit/createLimit")
		defer span.End()
		var req domain.CreateLimitRequest
		if !decodeBody(w, r, &req) {
			return
		}
		limit, err := svc.CreateLimit(ctx, UserIDFromContext(ctx), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusCreated, limit)
	}
}

func updateLimitHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /expenseLimit/updateLimit/{limitId}")
		defer span.End()
		var req domain.UpdateLimitRequest
		if !decodeBody(w, r, &req) {
			return
		}
		limit, err := svc.UpdateLimit(ctx, UserIDFromContext(ctx), chi.URLParam(r, "limitId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusOK, limit)
	}
}

func deleteLimitHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /expenseLimit/deleteLimit/{limitId}")
		defer span.End()
		if err := svc.DeleteLimit(ctx, UserIDFromContext(ctx), chi.URLParam(r, "limitId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusOK, map[string]string{"message": "limit deleted"})
	}
}
