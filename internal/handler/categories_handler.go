package handler

import (
	"net/http"

	"github.com/walletly/walletly-api/internal/domain"
	"github.com/walletly/walletly-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Category Handlers — one set per kind plus the combined delete
// ============================================================

func listCategoriesHandler(svc *service.LedgerService, kind domain.CategoryKind, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /"+string(kind)+"Category/allCategories")
		defer span.End()
		categories, err := svc.ListCategories(ctx, kind, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusOK, categories)
	}
}

func createCategoryHandler(svc *service.LedgerService, kind domain.CategoryKind, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /"+string(kind)+"Category/createCategory")
		defer span.End()
		var req domain.CategoryRequest
		if !decodeBody(w, r, &req) {
			return
		}
		category, err := svc.CreateCategory(ctx, kind, UserIDFromContext(ctx), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusCreated, category)
	}
}

func renameCategoryHandler(svc *service.LedgerService, kind domain.CategoryKind, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /"+string(kind)+"Category/updateCategory/{categoryId}")
		defer span.End()
		var req domain.CategoryRequest
		if !decodeBody(w, r, &req) {
			return
		}
		category, err := svc.RenameCategory(ctx, kind, UserIDFromContext(ctx), chi.URLParam(r, "categoryId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusOK, category)
	}
}

// deleteCategoryHandler serves the combined delete endpoint: the category ID
// is looked up in both kinds and the response reports which one was removed.
func deleteCategoryHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /users/deleteCategory/{categoryId}")
		defer span.End()
		deleted, err := svc.DeleteCategory(ctx, UserIDFromContext(ctx), chi.URLParam(r, "categoryId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusOK, deleted)
	}
}
