package shared

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "medledger/pkg/domain-errors"
	"medledger/pkg/testutil"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		code   dErrors.Code
		status int
	}{
		{dErrors.CodeValidation, http.StatusBadRequest},
		{dErrors.CodeInvalidCredentials, http.StatusUnauthorized},
		{dErrors.CodeWalletMismatch, http.StatusUnauthorized},
		{dErrors.CodeUnregisteredOnLedger, http.StatusUnauthorized},
		{dErrors.CodeUnauthorized, http.StatusUnauthorized},
		{dErrors.CodePermissionDenied, http.StatusForbidden},
		{dErrors.CodeNotRegisteredTarget, http.StatusNotFound},
		{dErrors.CodeDuplicateIdentity, http.StatusConflict},
		{dErrors.CodeLedgerRejected, http.StatusUnprocessableEntity},
		{dErrors.CodeSubmissionUncertain, http.StatusGatewayTimeout},
		{dErrors.CodeLedgerUnavailable, http.StatusBadGateway},
		{dErrors.CodePartialRegistration, http.StatusBadGateway},
		{dErrors.CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(string(tc.code), func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, dErrors.New(tc.code, "detail"))

			assert.Equal(t, tc.status, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, string(tc.code), resp.Error)
			assert.Equal(t, "detail", resp.Message)
		})
	}
}

func TestWriteErrorUnknown(t *testing.T) {
	testutil.Given(t, "an error carrying no outcome code", func(t *testing.T) {
		err := assert.AnError

		testutil.Then(t, "the response falls back to an internal error", func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, err)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
		})
	})
}
