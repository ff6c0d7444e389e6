package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "medledger/pkg/domain-errors"
)

// Pins every entry of the revert table to the contract's actual wording. If
// the contract rewords a require() message this test is the tripwire.
func TestClassifyRevert_KnownReasons(t *testing.T) {
	cases := []struct {
		reason string
		code   dErrors.Code
	}{
		{"Only Doctors can add records on blockchain", dErrors.CodePermissionDenied},
		{"Patients can only view their own records", dErrors.CodePermissionDenied},
		{"Your role does not have permission to view full patient records", dErrors.CodePermissionDenied},
		{"Only Doctors or InsuranceCompanies can view all patient records on blockchain", dErrors.CodePermissionDenied},
		{"Caller does not have the required role on blockchain", dErrors.CodePermissionDenied},
		{"Caller is not a registered user on blockchain", dErrors.CodeUnregisteredOnLedger},
		{"User is not registered", dErrors.CodeUnregisteredOnLedger},
		{"Target address is not a registered Patient on blockchain", dErrors.CodeNotRegisteredTarget},
		{"User already registered", dErrors.CodeConflict},
		{"Only the operator may register users", dErrors.CodePermissionDenied},
	}
	for _, tc := range cases {
		t.Run(tc.reason, func(t *testing.T) {
			err := ClassifyRevert(tc.reason)
			assert.True(t, dErrors.HasCode(err, tc.code), "got %v", err)
		})
	}
}

func TestClassifyRevert_StripsBridgePrefix(t *testing.T) {
	err := ClassifyRevert("execution reverted: Only Doctors can add records on blockchain")
	assert.True(t, dErrors.HasCode(err, dErrors.CodePermissionDenied))
	assert.Equal(t, "Only Doctors can add records on blockchain", dErrors.MessageOf(err))
}

// Anything outside the table lands in the LedgerRejected bucket with the raw
// text preserved, never in a permission category it was not proven to be.
func TestClassifyRevert_UnknownReason(t *testing.T) {
	err := ClassifyRevert("SafeMath: subtraction overflow")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeLedgerRejected))
	assert.Equal(t, "SafeMath: subtraction overflow", dErrors.MessageOf(err))
	assert.False(t, dErrors.HasCode(err, dErrors.CodePermissionDenied))
}

func TestClassifyRevert_CaseInsensitive(t *testing.T) {
	err := ClassifyRevert("ONLY DOCTORS CAN ADD RECORDS ON BLOCKCHAIN")
	assert.True(t, dErrors.HasCode(err, dErrors.CodePermissionDenied))
}
