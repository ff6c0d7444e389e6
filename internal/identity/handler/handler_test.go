package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medledger/internal/domain"
	"medledger/internal/identity/service"
	dErrors "medledger/pkg/domain-errors"
)

const testWallet = "0x90f8bf6a479f320ead074411a4b0e7944ea8c9c1"

type stubService struct {
	registerErr error
	loginResult service.LoginResult
	loginErr    error
	logoutErr   error
	session     domain.Session
	resolveErr  error

	gotRegister service.RegisterRequest
	gotLogin    service.LoginRequest
	gotLogout   string
}

func (s *stubService) Register(_ context.Context, req service.RegisterRequest) error {
	s.gotRegister = req
	return s.registerErr
}

func (s *stubService) Login(_ context.Context, req service.LoginRequest) (service.LoginResult, error) {
	s.gotLogin = req
	return s.loginResult, s.loginErr
}

func (s *stubService) Logout(_ context.Context, sessionID string) error {
	s.gotLogout = sessionID
	return s.logoutErr
}

func (s *stubService) ResolveSession(_ context.Context, _ string) (domain.Session, error) {
	return s.session, s.resolveErr
}

func newRouter(svc *stubService) http.Handler {
	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleSignup(t *testing.T) {
	body := `{"email":"alice@example.com","password":"s3cret","username":"alice","wallet":"` + testWallet + `","role":"Doctor"}`

	t.Run("created", func(t *testing.T) {
		svc := &stubService{}
		rec := do(t, newRouter(svc), http.MethodPost, "/auth/signup", body, nil)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, domain.RoleDoctor, svc.gotRegister.Role)
		assert.Equal(t, testWallet, svc.gotRegister.Wallet)
	})

	t.Run("unknown role", func(t *testing.T) {
		svc := &stubService{}
		rec := do(t, newRouter(svc), http.MethodPost, "/auth/signup",
			`{"email":"a@b.co","password":"x","username":"a","wallet":"`+testWallet+`","role":"Wizard"}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "validation_error")
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := do(t, newRouter(&stubService{}), http.MethodPost, "/auth/signup", "{not json", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate identity", func(t *testing.T) {
		svc := &stubService{registerErr: dErrors.New(dErrors.CodeDuplicateIdentity, "user with this email already exists")}
		rec := do(t, newRouter(svc), http.MethodPost, "/auth/signup", body, nil)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "duplicate_identity")
	})

	t.Run("partial registration", func(t *testing.T) {
		svc := &stubService{registerErr: dErrors.New(dErrors.CodePartialRegistration, "profile saved but ledger registration failed")}
		rec := do(t, newRouter(svc), http.MethodPost, "/auth/signup", body, nil)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "partial_registration")
	})
}

func TestHandleLogin(t *testing.T) {
	body := `{"email":"alice@example.com","password":"s3cret","wallet":"` + testWallet + `"}`

	t.Run("ok", func(t *testing.T) {
		svc := &stubService{loginResult: service.LoginResult{
			Token: "signed-token",
			Session: domain.Session{
				ID:       "sess-1",
				Wallet:   testWallet,
				Role:     domain.RolePatient,
				Username: "alice",
				Email:    "alice@example.com",
				Device:   "Chrome on Mac OS X",
			},
		}}
		rec := do(t, newRouter(svc), http.MethodPost, "/auth/login", body, map[string]string{"User-Agent": "Mozilla/5.0"})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"token":"signed-token"`)
		assert.Contains(t, rec.Body.String(), `"role":"Patient"`)
		assert.Equal(t, "Mozilla/5.0", svc.gotLogin.UserAgent)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		svc := &stubService{loginErr: dErrors.New(dErrors.CodeInvalidCredentials, "invalid email or password")}
		rec := do(t, newRouter(svc), http.MethodPost, "/auth/login", body, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid_credentials")
	})

	t.Run("wallet mismatch", func(t *testing.T) {
		svc := &stubService{loginErr: dErrors.New(dErrors.CodeWalletMismatch, "presented wallet does not match")}
		rec := do(t, newRouter(svc), http.MethodPost, "/auth/login", body, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "wallet_mismatch")
	})

	t.Run("ledger outage", func(t *testing.T) {
		svc := &stubService{loginErr: dErrors.New(dErrors.CodeLedgerUnavailable, "bridge unreachable")}
		rec := do(t, newRouter(svc), http.MethodPost, "/auth/login", body, nil)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestHandleLogout(t *testing.T) {
	t.Run("requires token", func(t *testing.T) {
		rec := do(t, newRouter(&stubService{}), http.MethodPost, "/auth/logout", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("deletes resolved session", func(t *testing.T) {
		svc := &stubService{session: domain.Session{ID: "sess-1", Wallet: testWallet}}
		rec := do(t, newRouter(svc), http.MethodPost, "/auth/logout", "", map[string]string{"Authorization": "Bearer tok"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "sess-1", svc.gotLogout)
	})
}
