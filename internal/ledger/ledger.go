// Package ledger adapts the external append-only record store. The ledger is
// an opaque collaborator reached through remote calls that either land or
// fail with an inspectable revert reason; this package owns the translation
// of those reasons into the service's outcome taxonomy and never retries a
// state-mutating call on its own.
package ledger

import (
	"context"

	"medledger/internal/domain"
)

// Client is the boundary to the ledger. Mutating calls (RegisterIdentity,
// AddRecord) are fire-and-forget once submitted: a timeout after submission
// surfaces as CodeSubmissionUncertain and is never resubmitted here, since a
// duplicate submission would duplicate state.
type Client interface {
	// RegisterIdentity mirrors (wallet, username, role) onto the ledger.
	// It is submitted as the operator identity; the ledger enforces that
	// only the operator may create or overwrite identity entries.
	RegisterIdentity(ctx context.Context, wallet, username string, role domain.Role) error

	// GetIdentity reads the ledger's identity entry for a wallet. A wallet
	// with no entry fails with CodeUnregisteredOnLedger.
	GetIdentity(ctx context.Context, wallet string) (domain.LedgerIdentity, error)

	// AddRecord appends a record to a patient's history, submitted from
	// the caller's own wallet. The ledger independently re-checks that the
	// caller is a registered Doctor and the target a registered Patient.
	AddRecord(ctx context.Context, caller string, rec domain.MedicalRecord) error

	// GetPatientRecords returns a patient's full records in creation
	// order, as seen by the calling wallet.
	GetPatientRecords(ctx context.Context, caller, patient string) ([]domain.MedicalRecord, error)

	// GetDrugDetails issues the structurally distinct drug-detail query.
	// The contract returns parallel arrays; callers zip them.
	GetDrugDetails(ctx context.Context, caller, patient string) (DrugDetailColumns, error)
}

// DrugDetailColumns is the parallel-array return shape of the contract's
// drug-detail query. Column i across all slices describes one record.
type DrugDetailColumns struct {
	DataRefs   []string `json:"dataHashes"`
	Drugs      []string `json:"drugsUsed"`
	Quantities []uint64 `json:"quantities"`
	Causes     []string `json:"causes"`
	Timestamps []int64  `json:"timestamps"`
	Creators   []string `json:"creators"`
}

// Len returns the number of rows, trusting the first column.
func (c DrugDetailColumns) Len() int { return len(c.Drugs) }
