// Package store holds the credential store implementations. The credential
// store owns authentication state: one profile per account, created at signup
// and immutable afterwards.
package store

import (
	"context"
	"errors"
	"fmt"

	"medledger/internal/domain"
)

// ErrNotFound keeps storage-level 404s consistent across implementations.
var ErrNotFound = errors.New("profile not found")

// DuplicateField names which uniqueness constraint a conflicting write hit.
type DuplicateField string

const (
	DuplicateEmail  DuplicateField = "email"
	DuplicateWallet DuplicateField = "wallet"
)

// DuplicateError reports a uniqueness violation. The store's constraint check
// is the serialization point for racing signups: the loser gets this error,
// never a silent overwrite.
type DuplicateError struct {
	Field DuplicateField
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("profile with this %s already exists", e.Field)
}

// AsDuplicate extracts a DuplicateError if err is one.
func AsDuplicate(err error) (*DuplicateError, bool) {
	var de *DuplicateError
	ok := errors.As(err, &de)
	return de, ok
}

// UserStore is the credential store contract the reconciler consumes.
type UserStore interface {
	// Create persists a new profile, failing with DuplicateError when
	// email or wallet is already taken.
	Create(ctx context.Context, profile domain.UserProfile) error

	// FindByEmail returns the profile for an email, or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (domain.UserProfile, error)

	// FindByWallet returns the profile for a wallet, or ErrNotFound.
	// Lookup is case-insensitive; wallets are stored normalized.
	FindByWallet(ctx context.Context, wallet string) (domain.UserProfile, error)
}
