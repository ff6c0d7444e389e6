// Package shared holds the JSON response helpers every handler uses. Error
// translation lives here so a given outcome code always maps to the same
// status and envelope regardless of which endpoint produced it.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "medledger/pkg/domain-errors"
)

// ErrorResponse is the error envelope. Error carries the stable outcome code
// clients branch on; Message is advisory detail.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a service error into its HTTP response.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	WriteJSON(w, statusFor(code), ErrorResponse{
		Error:   string(code),
		Message: dErrors.MessageOf(err),
	})
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeInvalidCredentials, dErrors.CodeWalletMismatch, dErrors.CodeUnregisteredOnLedger, dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodePermissionDenied:
		return http.StatusForbidden
	case dErrors.CodeNotFound, dErrors.CodeNotRegisteredTarget:
		return http.StatusNotFound
	case dErrors.CodeDuplicateIdentity, dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeLedgerRejected:
		return http.StatusUnprocessableEntity
	case dErrors.CodeSubmissionUncertain:
		return http.StatusGatewayTimeout
	case dErrors.CodeLedgerUnavailable, dErrors.CodePartialRegistration:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
