package ledger

import (
	"strings"

	dErrors "medledger/pkg/domain-errors"
)

// The ledger signals rejection through opaque revert strings; there is no
// structured error-code contract to lean on. This table is the single place
// those strings are interpreted. It is ordered, first match wins, and every
// entry is pinned by a test so contract-side wording changes are caught as
// table drift rather than as silent misclassification.
type revertRule struct {
	substr string
	code   dErrors.Code
}

var revertTable = []revertRule{
	{"only doctors can add records", dErrors.CodePermissionDenied},
	{"patients can only view their own records", dErrors.CodePermissionDenied},
	{"your role does not have permission to view full patient records", dErrors.CodePermissionDenied},
	{"only doctors or insurancecompanies can view all patient records", dErrors.CodePermissionDenied},
	{"caller does not have the required role", dErrors.CodePermissionDenied},
	{"caller is not a registered user", dErrors.CodeUnregisteredOnLedger},
	{"user is not registered", dErrors.CodeUnregisteredOnLedger},
	{"target address is not a registered patient", dErrors.CodeNotRegisteredTarget},
	{"user already registered", dErrors.CodeConflict},
	{"only the operator may register users", dErrors.CodePermissionDenied},
}

// revertPrefix is stripped from bridge error messages before matching.
const revertPrefix = "execution reverted: "

// ClassifyRevert maps a raw revert reason to an outcome error. Reasons
// outside the table fall into the CodeLedgerRejected bucket with the raw
// message preserved for diagnostics.
func ClassifyRevert(reason string) error {
	trimmed := strings.TrimPrefix(reason, revertPrefix)
	lowered := strings.ToLower(trimmed)
	for _, rule := range revertTable {
		if strings.Contains(lowered, rule.substr) {
			return dErrors.New(rule.code, trimmed)
		}
	}
	return dErrors.New(dErrors.CodeLedgerRejected, trimmed)
}
