package models

// PrincipalType identifies which credential table a session belongs to
type PrincipalType string

const (
	PrincipalCustomer PrincipalType = "customer"
	PrincipalAgent    PrincipalType = "agent"
	PrincipalStaff    PrincipalType = "staff"
)

// Valid reports whether t is one of the three principal kinds
func (t PrincipalType) Valid() bool {
	switch t {
	case PrincipalCustomer, PrincipalAgent, PrincipalStaff:
		return true
	}
	return false
}

// StaffRole is the permission set of an airline staff member
type StaffRole string

const (
	StaffRoleAdmin    StaffRole = "admin"
	StaffRoleOperator StaffRole = "operator"
	StaffRoleBoth     StaffRole = "both"
)

// Valid reports whether r is a known role
func (r StaffRole) Valid() bool {
	switch r {
	case StaffRoleAdmin, StaffRoleOperator, StaffRoleBoth:
		return true
	}
	return false
}

// IsAdmin is true for roles allowed to create flights, airplanes, airports and agent grants
func (r StaffRole) IsAdmin() bool {
	return r == StaffRoleAdmin || r == StaffRoleBoth
}

// IsOperator is true for roles allowed to change flight status
func (r StaffRole) IsOperator() bool {
	return r == StaffRoleOperator || r == StaffRoleBoth
}
