package handler

import (
	"net/http"

	"github.com/walletly/walletly-api/internal/domain"
	"github.com/walletly/walletly-api/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Auth / User Handlers
// ============================================================

func registerHandler(svc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /users/register")
		defer span.End()
		var req domain.RegisterRequest
		if !decodeBody(w, r, &req) {
			return
		}
		tokens, err := svc.Register(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusCreated, tokens)
	}
}

func loginHandler(svc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /users/login")
		defer span.End()
		var req domain.LoginRequest
		if !decodeBody(w, r, &req) {
			return
		}
		tokens, err := svc.Login(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusOK, tokens)
	}
}

func refreshHandler(svc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /users/refresh")
		defer span.End()
		var req domain.RefreshRequest
		if !decodeBody(w, r, &req) {
			return
		}
		tokens, err := svc.Refresh(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusOK, tokens)
	}
}

func logoutHandler(svc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /users/logout")
		defer span.End()
		if err := svc.Logout(ctx, UserIDFromContext(ctx)); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusOK, map[string]string{"message": "logged out"})
	}
}

func createUserHandler(svc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /users/createUser")
		defer span.End()
		var req domain.CreateUserRequest
		if !decodeBody(w, r, &req) {
			return
		}
		user, err := svc.CreateUser(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeSuccess(w, http.StatusCreated, user)
	}
}
