package domain

import "time"

// MedicalRecord is one append-only entry in a patient's history. Records are
// immutable; no update or delete operation exists anywhere in the system.
type MedicalRecord struct {
	Patient     string
	DataRef     string // content-addressed pointer into external storage
	Description string
	DrugUsed    string
	Quantity    uint64
	Cause       string
	Creator     string
	Timestamp   time.Time
}

// DrugDetail is the projection returned to drug manufacturers. It is a
// distinct type rather than a redacted MedicalRecord so the withheld fields
// (data reference, description, creator, timestamp) structurally cannot leak
// through this path.
type DrugDetail struct {
	DrugUsed string
	Quantity uint64
	Cause    string
}

// Projection names the record shape a caller role receives.
type Projection string

const (
	ProjectionFull Projection = "full"
	ProjectionDrug Projection = "drug"
)

// ProjectionFor returns the projection a role is served. Roles without view
// access still get a projection here; the ledger is the actual gatekeeper.
func ProjectionFor(role Role) Projection {
	if role == RoleDrugManufacturer {
		return ProjectionDrug
	}
	return ProjectionFull
}
