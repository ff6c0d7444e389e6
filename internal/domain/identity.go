package domain

import "time"

// UserProfile is the credential store's view of an account. Profiles are
// created by signup and never mutated or deleted afterwards; email and wallet
// are each unique across all profiles.
type UserProfile struct {
	Email        string
	Username     string
	PasswordHash string
	Wallet       string
	Role         Role
	CreatedAt    time.Time
}

// LedgerIdentity is the ledger's view of a wallet. It is mirrored onto the
// ledger by the reconciler at signup time but owned and enforced by the
// ledger itself; only the operator identity may write it.
type LedgerIdentity struct {
	Wallet   string
	Username string
	Role     Role
}

// Session is the process-local state of a logged-in caller. The role is the
// ledger-reconciled one, which may differ from the profile's stored role.
// Sessions are created by login and destroyed by logout or account change;
// they are never persisted beyond their TTL.
type Session struct {
	ID        string
	Wallet    string
	Role      Role
	Username  string
	Email     string
	Device    string
	CreatedAt time.Time
}

// Operator is the privileged identity permitted to write identity-role
// mappings into the ledger. The signing capability is injected configuration,
// never a constant baked into call sites.
type Operator struct {
	Address string
	// Key is an opaque signing capability handed to the ledger bridge.
	// Key management is out of scope here.
	Key string
}
