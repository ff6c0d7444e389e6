package audit

import "time"

// Action names an audited identity or record event.
type Action string

const (
	ActionUserRegistered      Action = "user_registered"
	ActionPartialRegistration Action = "partial_registration"
	ActionLoginSucceeded      Action = "login_succeeded"
	ActionRoleReconciled      Action = "role_reconciled"
	ActionLogout              Action = "logout"
	ActionRecordAdded         Action = "record_added"
	ActionRecordsViewed       Action = "records_viewed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	Wallet    string    `json:"wallet,omitempty"`
	Role      string    `json:"role,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}
