// Package service implements identity reconciliation across the two
// registries: the off-chain credential store, which owns authentication, and
// the ledger, which owns authorization. Signup writes to the credential store
// first and mirrors onto the ledger; login authenticates off-chain and then
// resolves the session role against the ledger.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	"medledger/internal/audit"
	"medledger/internal/domain"
	"medledger/internal/identity/password"
	"medledger/internal/identity/store"
	"medledger/internal/platform/metrics"
	"medledger/internal/session"
	"medledger/internal/tokens"
	dErrors "medledger/pkg/domain-errors"
)

// UserStore is the slice of the credential store this service consumes.
type UserStore interface {
	Create(ctx context.Context, profile domain.UserProfile) error
	FindByEmail(ctx context.Context, email string) (domain.UserProfile, error)
}

// Ledger is the slice of the ledger client this service consumes.
type Ledger interface {
	RegisterIdentity(ctx context.Context, wallet, username string, role domain.Role) error
	GetIdentity(ctx context.Context, wallet string) (domain.LedgerIdentity, error)
}

// SessionStore persists sessions between requests.
type SessionStore interface {
	Save(ctx context.Context, s domain.Session, ttl time.Duration) error
	Find(ctx context.Context, id string) (domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// TokenIssuer signs and validates session access tokens.
type TokenIssuer interface {
	Generate(sessionID, wallet string, expiresIn time.Duration) (string, error)
	Validate(tokenString string) (*tokens.Claims, error)
}

// AuditPublisher records identity events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is the identity reconciler.
type Service struct {
	users      UserStore
	hasher     password.Hasher
	ledger     Ledger
	sessions   SessionStore
	tokens     TokenIssuer
	sessionTTL time.Duration

	logger    *slog.Logger
	publisher AuditPublisher
	metrics   *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) { s.sessionTTL = ttl }
}

// New constructs a Service.
func New(users UserStore, hasher password.Hasher, ledger Ledger, sessions SessionStore, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{
		users:      users,
		hasher:     hasher,
		ledger:     ledger,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: 12 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterRequest carries a signup.
type RegisterRequest struct {
	Email    string
	Password string
	Username string
	Wallet   string
	Role     domain.Role
}

// Register creates the profile in the credential store, then mirrors the role
// onto the ledger as the operator. A ledger failure after the credential
// write leaves a split state; that is surfaced as CodePartialRegistration and
// never rolled back or retried here. Repair is an operator path.
func (s *Service) Register(ctx context.Context, req RegisterRequest) error {
	if err := validateRegister(req); err != nil {
		return err
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	profile := domain.UserProfile{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: digest,
		Wallet:       domain.NormalizeWallet(req.Wallet),
		Role:         req.Role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, profile); err != nil {
		if dup, ok := store.AsDuplicate(err); ok {
			return dErrors.Newf(dErrors.CodeDuplicateIdentity, "user with this %s already exists", dup.Field)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save profile")
	}

	if err := s.ledger.RegisterIdentity(ctx, profile.Wallet, profile.Username, profile.Role); err != nil {
		s.logError(ctx, "ledger mirror write failed after credential write",
			"wallet", profile.Wallet, "error", err)
		s.emit(ctx, audit.Event{
			Action: audit.ActionPartialRegistration,
			Wallet: profile.Wallet,
			Role:   profile.Role.String(),
			Detail: dErrors.MessageOf(err),
		})
		if s.metrics != nil {
			s.metrics.PartialRegistrationsTotal.Inc()
		}
		return dErrors.Wrap(err, dErrors.CodePartialRegistration,
			"profile saved but ledger registration failed; retrying signup will report a duplicate while the ledger side stays unregistered")
	}

	s.emit(ctx, audit.Event{
		Action: audit.ActionUserRegistered,
		Wallet: profile.Wallet,
		Role:   profile.Role.String(),
	})
	if s.metrics != nil {
		s.metrics.RegistrationsTotal.Inc()
	}
	return nil
}

// LoginRequest carries a login attempt.
type LoginRequest struct {
	Email     string
	Password  string
	Wallet    string
	UserAgent string
}

// LoginResult is a created session plus the access token referencing it.
type LoginResult struct {
	Session domain.Session
	Token   string
}

// Login authenticates against the credential store and resolves the session
// role against the ledger. On divergence the ledger role wins: the ledger is
// the registry actually enforcing record access, so a session carrying the
// off-chain role would only collect rejections later.
func (s *Service) Login(ctx context.Context, req LoginRequest) (result LoginResult, err error) {
	if s.metrics != nil {
		defer func() {
			outcome := "success"
			if err != nil {
				outcome = string(dErrors.CodeOf(err))
			}
			s.metrics.LoginsTotal.WithLabelValues(outcome).Inc()
		}()
	}

	if req.Email == "" || req.Password == "" || req.Wallet == "" {
		return LoginResult{}, dErrors.New(dErrors.CodeValidation, "email, password and wallet address are required")
	}
	if !domain.ValidWallet(req.Wallet) {
		return LoginResult{}, dErrors.New(dErrors.CodeValidation, "wallet address is not a valid address")
	}

	profile, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, dErrors.New(dErrors.CodeInvalidCredentials, "invalid email or password")
		}
		return LoginResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	if !s.hasher.Verify(req.Password, profile.PasswordHash) {
		return LoginResult{}, dErrors.New(dErrors.CodeInvalidCredentials, "invalid email or password")
	}

	if !domain.SameWallet(profile.Wallet, req.Wallet) {
		return LoginResult{}, dErrors.New(dErrors.CodeWalletMismatch, "presented wallet does not match the wallet registered for this account")
	}

	ident, err := s.ledger.GetIdentity(ctx, profile.Wallet)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnregisteredOnLedger) {
			// Authentication succeeded but no session may exist: every
			// record operation would be rejected by the ledger anyway.
			return LoginResult{}, dErrors.Wrap(err, dErrors.CodeUnregisteredOnLedger,
				"account authenticated but its wallet is not registered on the ledger; re-register or contact support")
		}
		return LoginResult{}, err
	}

	role := profile.Role
	if ident.Role != profile.Role {
		role = ident.Role
		s.logWarn(ctx, "role mismatch between registries, ledger role wins",
			"wallet", profile.Wallet,
			"store_role", profile.Role.String(),
			"ledger_role", ident.Role.String(),
		)
		s.emit(ctx, audit.Event{
			Action: audit.ActionRoleReconciled,
			Wallet: profile.Wallet,
			Role:   ident.Role.String(),
			Detail: fmt.Sprintf("store=%s ledger=%s", profile.Role, ident.Role),
		})
		if s.metrics != nil {
			s.metrics.RoleReconciliationsTotal.Inc()
		}
	}

	sess := domain.Session{
		ID:        uuid.NewString(),
		Wallet:    profile.Wallet,
		Role:      role,
		Username:  profile.Username,
		Email:     profile.Email,
		Device:    session.ParseUserAgent(req.UserAgent),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.Save(ctx, sess, s.sessionTTL); err != nil {
		return LoginResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save session")
	}

	token, err := s.tokens.Generate(sess.ID, sess.Wallet, s.sessionTTL)
	if err != nil {
		return LoginResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.emit(ctx, audit.Event{
		Action: audit.ActionLoginSucceeded,
		Wallet: sess.Wallet,
		Role:   sess.Role.String(),
		Detail: sess.Device,
	})
	return LoginResult{Session: sess, Token: token}, nil
}

// Logout destroys the session. Unknown sessions are a no-op: the caller's
// goal state is "no session", which already holds.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	sess, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete session")
	}
	s.emit(ctx, audit.Event{
		Action: audit.ActionLogout,
		Wallet: sess.Wallet,
	})
	return nil
}

// ResolveSession validates an access token and loads its session. A token
// whose wallet no longer matches the stored session (account changed under
// the caller) destroys the session and forces re-login.
func (s *Service) ResolveSession(ctx context.Context, token string) (domain.Session, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return domain.Session{}, err
	}
	sess, err := s.sessions.Find(ctx, claims.SessionID)
	if err != nil {
		return domain.Session{}, dErrors.New(dErrors.CodeUnauthorized, "session expired or revoked")
	}
	if !domain.SameWallet(sess.Wallet, claims.Wallet) {
		_ = s.sessions.Delete(ctx, claims.SessionID)
		return domain.Session{}, dErrors.New(dErrors.CodeUnauthorized, "wallet changed; please log in again")
	}
	return sess, nil
}

func validateRegister(req RegisterRequest) error {
	switch {
	case req.Email == "" || req.Password == "" || req.Username == "" || req.Wallet == "":
		return dErrors.New(dErrors.CodeValidation, "email, password, username and wallet address are required")
	case !govalidator.IsEmail(req.Email):
		return dErrors.New(dErrors.CodeValidation, "email address is not valid")
	case !domain.ValidWallet(req.Wallet):
		return dErrors.New(dErrors.CodeValidation, "wallet address is not a valid address")
	case !req.Role.Assignable():
		return dErrors.New(dErrors.CodeValidation, "a valid role must be selected")
	}
	return nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Emit(ctx, event); err != nil {
		s.logError(ctx, "audit emit failed", "action", event.Action, "error", err)
	}
}

func (s *Service) logWarn(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, args...)
	}
}

func (s *Service) logError(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.ErrorContext(ctx, msg, args...)
	}
}
