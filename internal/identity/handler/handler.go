// Package handler exposes the identity endpoints: signup, login, logout.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"medledger/internal/domain"
	"medledger/internal/identity/service"
	"medledger/internal/platform/middleware"
	"medledger/internal/transport/http/shared"
	dErrors "medledger/pkg/domain-errors"
	"medledger/pkg/requestcontext"
)

// Service is the identity surface this handler consumes.
type Service interface {
	Register(ctx context.Context, req service.RegisterRequest) error
	Login(ctx context.Context, req service.LoginRequest) (service.LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	ResolveSession(ctx context.Context, token string) (domain.Session, error)
}

// Handler handles the identity endpoints.
type Handler struct {
	logger   *slog.Logger
	identity Service
}

// New creates an identity Handler.
func New(identity Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, identity: identity}
}

// Register registers the identity routes. The router passed in already
// carries the shared middleware chain.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/signup", h.handleSignup)
	r.Post("/auth/login", h.handleLogin)
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireAuth(h.identity, h.logger))
		pr.Post("/auth/logout", h.handleLogout)
	})
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	Wallet   string `json:"wallet"`
	Role     string `json:"role"`
}

type signupResponse struct {
	Message string `json:"message"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "a valid role must be selected"))
		return
	}

	err = h.identity.Register(ctx, service.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
		Wallet:   req.Wallet,
		Role:     role,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "signup rejected",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, signupResponse{Message: "registration successful"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Wallet   string `json:"wallet"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Wallet   string `json:"wallet"`
	Role     string `json:"role"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Device   string `json:"device"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	result, err := h.identity.Login(ctx, service.LoginRequest{
		Email:     req.Email,
		Password:  req.Password,
		Wallet:    req.Wallet,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "login rejected",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, loginResponse{
		Token:    result.Token,
		Wallet:   result.Session.Wallet,
		Role:     result.Session.Role.String(),
		Username: result.Session.Username,
		Email:    result.Session.Email,
		Device:   result.Session.Device,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, ok := requestcontext.SessionFrom(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "session missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	if err := h.identity.Logout(ctx, sess.ID); err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
