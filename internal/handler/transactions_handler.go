package handler

import (
	"net/http"

	"github.com/walletly/walletly-api/internal/domain"
	"github.com/walletly/walletly-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Expense Handlers
// ============================================================

func createExpenseHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /expense/createExpense")
		defer span.End()
		var req domain.CreateExpenseRequest
		if !decodeBody(w, r, &req) {
			return
		}
		expense, err := svc.CreateExpense(ctx, UserIDFromContext(ctx), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusCreated, expense)
	}
}

func updateExpenseHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /expense/updateExpense/{expenseId}")
		defer span.End()
		var req domain.UpdateExpenseRequest
		if !decodeBody(w, r, &req) {
			return
		}
		expense, err := svc.UpdateExpense(ctx, UserIDFromContext(ctx), chi.URLParam(r, "expenseId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusOK, expense)
	}
}

func deleteExpenseHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /expense/deleteExpense/{expenseId}")
		defer span.End()
		if err := svc.DeleteExpense(ctx, UserIDFromContext(ctx), chi.URLParam(r, "expenseId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusOK, map[string]string{"message": "expense deleted"})
	}
}

// ============================================================
// Income Handlers
// ============================================================

func createIncomeHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /income/createIncome")
		defer span.End()
		var req domain.CreateIncomeRequest
		if !decodeBody(w, r, &req) {
			return
		}
		income, err := svc.CreateIncome(ctx, UserIDFromContext(ctx), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusCreated, income)
	}
}

func updateIncomeHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /income/updateIncome/{incomeId}")
		defer span.End()
		var req domain.UpdateIncomeRequest
		if !decodeBody(w, r, &req) {
			return
		}
		income, err := svc.UpdateIncome(ctx, UserIDFromContext(ctx), chi.URLParam(r, "incomeId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusOK, income)
	}
}

func deleteIncomeHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /income/deleteIncome/{incomeId}")
		defer span.End()
		if err := svc.DeleteIncome(ctx, UserIDFromContext(ctx), chi.URLParam(r, "incomeId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusOK, map[string]string{"message": "income deleted"})
	}
}

// ============================================================
// Transfer Handlers
// ============================================================

func createTransferHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /transfer/createTransfer")
		defer span.End()
		var req domain.CreateTransferRequest
		if !decodeBody(w, r, &req) {
			return
		}
		transfer, err := svc.CreateTransfer(ctx, UserIDFromContext(ctx), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusCreated, transfer)
	}
}

func updateTransferHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /transfer/updateTransfer/{transferId}")
		defer span.End()
		var req domain.UpdateTransferRequest
		if !decodeBody(w, r, &req) {
			return
		}
		transfer, err := svc.UpdateTransfer(ctx, UserIDFromContext(ctx), chi.URLParam(r, "transferId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusOK, transfer)
	}
}

func deleteTransferHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /transfer/deleteTransfer/{transferId}")
		defer span.End()
		if err := svc.DeleteTransfer(ctx, UserIDFromContext(ctx), chi.URLParam(r, "transferId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusOK, map[string]string{"message": "transfer deleted"})
	}
}
