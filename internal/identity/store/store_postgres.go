package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"medledger/internal/domain"
)

// Constraint names from the user_profiles schema. The unique-violation
// constraint name is how Create tells the caller which field collided.
const (
	constraintEmail  = "user_profiles_email_key"
	constraintWallet = "user_profiles_wallet_key"
)

// uniqueViolation is the Postgres error class for unique constraint breaches.
const uniqueViolation = "23505"

// PostgresStore persists user profiles in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema returns the DDL for the profiles table. Integration tests apply it
// to fresh containers; operators run it as a migration.
func Schema() string {
	return `
CREATE TABLE IF NOT EXISTS user_profiles (
	email         TEXT NOT NULL,
	username      TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	wallet        TEXT NOT NULL,
	role          SMALLINT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT user_profiles_email_key UNIQUE (email),
	CONSTRAINT user_profiles_wallet_key UNIQUE (wallet)
)`
}

func (s *PostgresStore) Create(ctx context.Context, profile domain.UserProfile) error {
	createdAt := profile.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_profiles (email, username, password_hash, wallet, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		strings.ToLower(profile.Email),
		profile.Username,
		profile.PasswordHash,
		domain.NormalizeWallet(profile.Wallet),
		int16(profile.Role),
		createdAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			switch pqErr.Constraint {
			case constraintEmail:
				return &DuplicateError{Field: DuplicateEmail}
			case constraintWallet:
				return &DuplicateError{Field: DuplicateWallet}
			}
			// Unknown unique constraint; surface as email to keep the
			// caller-facing shape stable.
			return &DuplicateError{Field: DuplicateEmail}
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (domain.UserProfile, error) {
	return s.findOne(ctx, `SELECT email, username, password_hash, wallet, role, created_at
		FROM user_profiles WHERE email = $1`, strings.ToLower(email))
}

func (s *PostgresStore) FindByWallet(ctx context.Context, wallet string) (domain.UserProfile, error) {
	return s.findOne(ctx, `SELECT email, username, password_hash, wallet, role, created_at
		FROM user_profiles WHERE wallet = $1`, domain.NormalizeWallet(wallet))
}

func (s *PostgresStore) findOne(ctx context.Context, query, arg string) (domain.UserProfile, error) {
	var (
		profile domain.UserProfile
		role    int16
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&profile.Email,
		&profile.Username,
		&profile.PasswordHash,
		&profile.Wallet,
		&role,
		&profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.UserProfile{}, ErrNotFound
		}
		return domain.UserProfile{}, fmt.Errorf("find profile: %w", err)
	}
	profile.Role = domain.Role(role)
	return profile, nil
}
