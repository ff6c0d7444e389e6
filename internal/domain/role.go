package domain

import (
	"fmt"
	"strings"
)

// Role is the position an account holds in the system. The numeric values are
// the ledger's own enumeration; both registries rely on the ordinals matching
// without a shared type definition, so the order here must never change.
type Role uint8

const (
	RoleNone Role = iota
	RolePatient
	RoleDoctor
	RoleDrugManufacturer
	RoleInsuranceCompany
)

var roleNames = [...]string{
	RoleNone:             "None",
	RolePatient:          "Patient",
	RoleDoctor:           "Doctor",
	RoleDrugManufacturer: "DrugManufacturer",
	RoleInsuranceCompany: "InsuranceCompany",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// Known reports whether r is one of the defined enumeration values,
// including RoleNone.
func (r Role) Known() bool {
	return int(r) < len(roleNames)
}

// Assignable reports whether r may be assigned to an account. RoleNone is the
// zero state of an unregistered wallet, never a valid assignment.
func (r Role) Assignable() bool {
	return r != RoleNone && r.Known()
}

// ParseRole maps a role name (case-insensitive) to its enumeration value.
func ParseRole(name string) (Role, error) {
	for i, n := range roleNames {
		if strings.EqualFold(n, name) {
			return Role(i), nil
		}
	}
	return RoleNone, fmt.Errorf("unknown role %q", name)
}
