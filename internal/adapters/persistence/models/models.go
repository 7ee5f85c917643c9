package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// Administrators
// ============================================================

// Admin represents admins table
type Admin struct {
	ID        string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Username  string     `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Email     string     `gorm:"uniqueIndex;size:254;not null" json:"email"`
	Password  string     `gorm:"size:255;not null" json:"-"`
	Role      string     `gorm:"size:20;not null" json:"role"`
	IsActive  bool       `gorm:"not null" json:"isActive"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Admin) TableName() string {
	return "admins"
}

// BeforeCreate assigns a UUID primary key
func (a *Admin) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// AdminResponse DTO
type AdminResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (a *Admin) ToResponse() *AdminResponse {
	return &AdminResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      a.Role,
		IsActive:  a.IsActive,
		LastLogin: a.LastLogin,
		CreatedAt: a.CreatedAt,
	}
}

// AdminRef is the audit view of an administrator embedded in employee responses
type AdminRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (a *Admin) ToRef() *AdminRef {
	if a == nil {
		return nil
	}
	return &AdminRef{ID: a.ID, Username: a.Username, Email: a.Email}
}

// ============================================================
// Employees
// ============================================================

// Address is embedded in employees with an address_ prefix
type Address struct {
	Street  string `gorm:"size:200" json:"street"`
	City    string `gorm:"size:50" json:"city"`
	State   string `gorm:"size:50" json:"state"`
	ZipCode string `gorm:"size:10" json:"zipCode"`
	Country string `gorm:"size:50" json:"country"`
}

// EmergencyContact is embedded in employees with an emergency_contact_ prefix
type EmergencyContact struct {
	Name         string `gorm:"size:100" json:"name"`
	Relationship string `gorm:"size:50" json:"relationship"`
	Phone        string `gorm:"size:20" json:"phone"`
}

// Employee represents employees table. Password, HasAccount and AccountCreatedAt are
// credential fields and are only written by the claim workflow.
type Employee struct {
	ID               string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	EmployeeID       string           `gorm:"column:employee_id;uniqueIndex;size:7;not null" json:"employeeId"`
	FirstName        string           `gorm:"size:50;not null" json:"firstName"`
	LastName         string           `gorm:"size:50;not null" json:"lastName"`
	Email            string           `gorm:"uniqueIndex;size:254;not null" json:"email"`
	Phone            string           `gorm:"size:20;not null" json:"phone"`
	Department       string           `gorm:"size:30;not null;index" json:"department"`
	Position         string           `gorm:"size:100;not null" json:"position"`
	Salary           float64          `gorm:"type:decimal(12,2);not null" json:"salary"`
	HireDate         time.Time        `gorm:"not null" json:"hireDate"`
	Status           string           `gorm:"size:20;not null;index" json:"status"`
	Address          Address          `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	EmergencyContact EmergencyContact `gorm:"embedded;embeddedPrefix:emergency_contact_" json:"emergencyContact"`

	Password         string     `gorm:"size:255" json:"-"`
	HasAccount       bool       `gorm:"not null" json:"hasAccount"`
	AccountCreatedAt *time.Time `json:"accountCreatedAt,omitempty"`
	LastLogin        *time.Time `json:"lastLogin,omitempty"`

	CreatedByID *string   `gorm:"type:varchar(36)" json:"-"`
	CreatedBy   *Admin    `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"-"`
	UpdatedByID *string   `gorm:"type:varchar(36)" json:"-"`
	UpdatedBy   *Admin    `gorm:"foreignKey:UpdatedByID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Employee) TableName() string {
	return "employees"
}

// BeforeCreate assigns a UUID primary key
func (e *Employee) BeforeCreate(*gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// FullName joins first and last name
func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// ProfileColumns are the columns an administrator update may write. Credential
// columns and employee_id are not among them.
var ProfileColumns = []string{
	"first_name", "last_name", "email", "phone", "department", "position", "salary",
	"hire_date", "status",
	"address_street", "address_city", "address_state", "address_zip_code", "address_country",
	"emergency_contact_name", "emergency_contact_relationship", "emergency_contact_phone",
	"updated_by_id", "updated_at",
}

// EmployeeResponse DTO
type EmployeeResponse struct {
	ID               string           `json:"id"`
	EmployeeID       string           `json:"employeeId"`
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	FullName         string           `json:"fullName"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	Department       string           `json:"department"`
	Position         string           `json:"position"`
	Salary           float64          `json:"salary"`
	HireDate         time.Time        `json:"hireDate"`
	Status           string           `json:"status"`
	Address          Address          `json:"address"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
	HasAccount       bool             `json:"hasAccount"`
	AccountCreatedAt *time.Time       `json:"accountCreatedAt,omitempty"`
	LastLogin        *time.Time       `json:"lastLogin,omitempty"`
	CreatedBy        *AdminRef        `json:"createdBy,omitempty"`
	UpdatedBy        *AdminRef        `json:"updatedBy,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

func (e *Employee) ToResponse() *EmployeeResponse {
	return &EmployeeResponse{
		ID:               e.ID,
		EmployeeID:       e.EmployeeID,
		FirstName:        e.FirstName,
		LastName:         e.LastName,
		FullName:         e.FullName(),
		Email:            e.Email,
		Phone:            e.Phone,
		Department:       e.Department,
		Position:         e.Position,
		Salary:           e.Salary,
		HireDate:         e.HireDate,
		Status:           e.Status,
		Address:          e.Address,
		EmergencyContact: e.EmergencyContact,
		HasAccount:       e.HasAccount,
		AccountCreatedAt: e.AccountCreatedAt,
		LastLogin:        e.LastLogin,
		CreatedBy:        e.CreatedBy.ToRef(),
		UpdatedBy:        e.UpdatedBy.ToRef(),
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

// ToResponseList converts a page of employees
func ToResponseList(employees []*Employee) []*EmployeeResponse {
	out := make([]*EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, e.ToResponse())
	}
	return out
}

// DepartmentStat is one row of the per-department aggregate
type DepartmentStat struct {
	Department string  `gorm:"column:department" json:"department"`
	Count      int64   `gorm:"column:count" json:"count"`
	AvgSalary  float64 `gorm:"column:avg_salary" json:"avgSalary"`
}

// AutoMigrate creates or updates the admins and employees tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Admin{},
		&Employee{},
	)
}
