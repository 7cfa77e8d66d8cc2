package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/walletly/walletly-api/internal/domain"
	"github.com/walletly/walletly-api/internal/handler"
	"github.com/walletly/walletly-api/internal/infra/cache"
	"github.com/walletly/walletly-api/internal/infra/observability"
	"github.com/walletly/walletly-api/internal/port"
	"github.com/walletly/walletly-api/internal/service"

	"go.uber.org/zap"
)

// stubLedgerStore embeds the interface so only the methods the routed
// tests actually hit need an implementation.
type stubLedgerStore struct {
	port.LedgerStore
	mu       sync.Mutex
	accounts map[string]*domain.Account
}

func newStubLedgerStore() *stubLedgerStore {
	return &stubLedgerStore{accounts: make(map[string]*domain.Account)}
}

func (s *stubLedgerStore) ListAccounts(_ context.Context, userID string) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Account
	for _, a := range s.accounts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *stubLedgerStore) CountAccounts(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.accounts {
		if a.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *stubLedgerStore) GetAccountByName(_ context.Context, userID, name string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.UserID == userID && a.Name == name {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubLedgerStore) CreateAccount(_ context.Context, account *domain.Account) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *account
	s.accounts[account.ID] = &cp
	out := cp
	return &out, nil
}

type stubAuthStore struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	creds  map[string]*domain.Credential
	tokens map[string]*domain.RefreshToken
}

func newStubAuthStore() *stubAuthStore {
	return &stubAuthStore{
		users:  make(map[string]*domain.User),
		creds:  make(map[string]*domain.Credential),
		tokens: make(map[string]*domain.RefreshToken),
	}
}

func (s *stubAuthStore) GetUser(_ context.Context, userID string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
	}
	cp := *u
	return &cp, nil
}

func (s *stubAuthStore) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *user
	s.users[user.ID] = &cp
	out := cp
	return &out, nil
}

func (s *stubAuthStore) GetCredentialByEmail(_ context.Context, email string) (*domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.creds[email]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *stubAuthStore) CreateCredential(_ context.Context, cred *domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *cred
	s.creds[cred.Email] = &cp
	return nil
}

func (s *stubAuthStore) StoreRefreshToken(_ context.Context, userID, tokenHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenHash] = &domain.RefreshToken{TokenHash: tokenHash, UserID: userID, ExpiresAt: expiresAt}
	return nil
}

func (s *stubAuthStore) GetRefreshToken(_ context.Context, tokenHash string) (*domain.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[tokenHash]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (s *stubAuthStore) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, tokenHash)
	return nil
}

func (s *stubAuthStore) RevokeAllRefreshTokens(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for hash, t := range s.tokens {
		if t.UserID == userID {
			delete(s.tokens, hash)
		}
	}
	return nil
}

func newTestRouter() http.Handler {
	metrics := observability.NewMetrics()
	ledgerSvc := service.NewLedgerService(
		newStubLedgerStore(),
		cache.New[[]domain.Category](5*time.Minute),
		metrics,
		zap.NewNop(),
	)
	authSvc := service.NewAuthService(newStubAuthStore(), "test-secret", 15*time.Minute, time.Hour, zap.NewNop())
	return handler.NewRouter(ledgerSvc, authSvc, metrics, []string{"*"}, zap.NewNop())
}

func TestHealthz(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestReadyz(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/accounts/getAccounts", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRegisterAndCreateAccountFlow(t *testing.T) {
	router := newTestRouter()

	body := bytes.NewBufferString(`{"email":"ana@example.com","password":"hunter22"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	var registerResp struct {
		Status string           `json:"status"`
		Data   domain.TokenPair `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &registerResp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if registerResp.Status != "success" || registerResp.Data.AccessToken == "" {
		t.Fatalf("unexpected register payload: %s", rec.Body.String())
	}
	token := registerResp.Data.AccessToken

	body = bytes.NewBufferString(`{"name":"Checking","balance":100}`)
	req = httptest.NewRequest(http.MethodPost, "/api/accounts/createAccount", body)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("createAccount: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/accounts/getAccounts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("getAccounts: expected 200, got %d", rec.Code)
	}
	var listResp struct {
		Status string           `json:"status"`
		Data   []domain.Account `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listResp.Data) != 1 || listResp.Data[0].Name != "Checking" {
		t.Fatalf("unexpected account listing: %s", rec.Body.String())
	}
}

func TestInvalidBodyRejected(t *testing.T) {
	router := newTestRouter()

	body := bytes.NewBufferString(`{"email":"ana@example.com","password":"hunter22"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", rec.Code)
	}
	var registerResp struct {
		Data domain.TokenPair `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &registerResp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/accounts/createAccount", bytes.NewBufferString(`{not json`))
	req.Header.Set("Authorization", "Bearer "+registerResp.Data.AccessToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", rec.Code)
	}

	var errResp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Status != "error" || errResp.Message == "" {
		t.Errorf("unexpected error envelope: %s", rec.Body.String())
	}
}
