package domain

// Role is the tag embedded in every issued token
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is one of the known token roles
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// EmployeeStatus represents the employment status of an employee record
type EmployeeStatus string

const (
	StatusActive     EmployeeStatus = "Active"
	StatusInactive   EmployeeStatus = "Inactive"
	StatusTerminated EmployeeStatus = "Terminated"
)

// EmployeeStatuses lists every accepted status in display order
var EmployeeStatuses = []EmployeeStatus{StatusActive, StatusInactive, StatusTerminated}

// Valid reports whether s is an accepted status
func (s EmployeeStatus) Valid() bool {
	for _, v := range EmployeeStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Departments lists every department an employee may belong to
var Departments = []string{
	"HR",
	"IT",
	"Finance",
	"Marketing",
	"Operations",
	"Sales",
	"Engineering",
	"Design",
}

// IsDepartment reports whether name is a known department
func IsDepartment(name string) bool {
	for _, d := range Departments {
		if d == name {
			return true
		}
	}
	return false
}

// Admin sub-roles stored on the admin record. The token role is always RoleAdmin.
const (
	AdminRoleAdmin      = "admin"
	AdminRoleSuperAdmin = "super_admin"
)
