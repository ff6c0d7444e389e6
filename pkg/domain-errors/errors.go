// Package domainerrors provides code-carrying errors for the service layer.
//
// Every caller-visible outcome maps to exactly one Code. Handlers translate
// codes into HTTP statuses and stable category strings; the message is
// advisory detail only and never drives branching.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a caller-facing outcome category.
type Code string

const (
	// Local validation failed; no remote call was issued.
	CodeValidation Code = "validation_error"

	// Email or wallet address already present in the credential store.
	CodeDuplicateIdentity Code = "duplicate_identity"

	// Unknown email or wrong password. The two causes are deliberately
	// indistinguishable to avoid user enumeration.
	CodeInvalidCredentials Code = "invalid_credentials"

	// Presented wallet does not match the wallet bound to the profile.
	CodeWalletMismatch Code = "wallet_mismatch"

	// Credential store authentication succeeded but the wallet has no
	// identity on the ledger; no session may be created.
	CodeUnregisteredOnLedger Code = "unregistered_on_ledger"

	// The ledger rejected the operation on role grounds.
	CodePermissionDenied Code = "permission_denied"

	// The target address lacks the expected role on the ledger.
	CodeNotRegisteredTarget Code = "not_registered_target"

	// The credential store write landed but the ledger mirror write did
	// not. Retrying signup hits the duplicate branch; repair is an
	// operator action, not a plain retry.
	CodePartialRegistration Code = "partial_registration"

	// A state-mutating ledger call timed out after submission. The
	// outcome is unknown and the call is never resubmitted automatically.
	CodeSubmissionUncertain Code = "submission_uncertain"

	// The ledger could not be reached at all.
	CodeLedgerUnavailable Code = "ledger_unavailable"

	// The ledger reverted with a reason outside the known table. The raw
	// revert text is preserved in the message for diagnostics.
	CodeLedgerRejected Code = "ledger_rejected"

	CodeUnauthorized Code = "unauthorized"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeInternal     Code = "internal_error"
)

// Error couples a Code with a human-readable message and an optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New returns an error with the given code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf returns an error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
		de = nil
	}
	return false
}

// CodeOf returns the outermost code, or CodeInternal when err carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the outermost message, or a generic one for foreign errors.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}
