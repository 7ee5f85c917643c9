package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"employee-portal/internal/adapters/persistence/models"
	"employee-portal/internal/adapters/persistence/repositories"
	"employee-portal/internal/core/domain"
	"employee-portal/internal/pkg/pagination"
	"employee-portal/internal/pkg/validation"
)

// MaxSearchLength bounds the list search term
const MaxSearchLength = 100

// EmployeeService handles administrator maintenance of employee records
type EmployeeService struct {
	employeeRepo repositories.EmployeeRepository
	stats        StatsInvalidator
	schema       *validation.Schema
	clock        Clock
	log          *slog.Logger
}

// NewEmployeeService creates a new employee service. stats may be nil.
func NewEmployeeService(
	employeeRepo repositories.EmployeeRepository,
	stats StatsInvalidator,
	clock Clock,
	log *slog.Logger,
) *EmployeeService {
	return &EmployeeService{
		employeeRepo: employeeRepo,
		stats:        stats,
		schema:       validation.Employee(),
		clock:        clock,
		log:          log,
	}
}

// EmployeeInput is the administrator supplied employee record. Credential fields
// are not part of it, so a client cannot set them.
type EmployeeInput struct {
	EmployeeID       string                  `json:"employeeId"`
	FirstName        string                  `json:"firstName"`
	LastName         string                  `json:"lastName"`
	Email            string                  `json:"email"`
	Phone            string                  `json:"phone"`
	Department       string                  `json:"department"`
	Position         string                  `json:"position"`
	Salary           *float64                `json:"salary"`
	HireDate         string                  `json:"hireDate"`
	Status           string                  `json:"status"`
	Address          models.Address          `json:"address"`
	EmergencyContact models.EmergencyContact `json:"emergencyContact"`
}

// ListQuery represents employee list parameters
type ListQuery struct {
	Page       int
	Limit      int
	Department string
	Status     string
	Search     string
}

// ListResult is one page of employees
type ListResult struct {
	Employees  []*models.EmployeeResponse `json:"employees"`
	Pagination *pagination.Meta           `json:"pagination"`
}

// List lists employees, newest first
func (s *EmployeeService) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	q.Department = strings.TrimSpace(q.Department)
	q.Status = strings.TrimSpace(q.Status)
	q.Search = strings.TrimSpace(q.Search)

	verr := &domain.ValidationError{}
	if q.Department != "" && !domain.IsDepartment(q.Department) {
		verr.Add("department", "Invalid department")
	}
	if q.Status != "" && !domain.EmployeeStatus(q.Status).Valid() {
		verr.Add("status", "Invalid status")
	}
	if utf8.RuneCountInString(q.Search) > MaxSearchLength {
		verr.Add("search", "Search term too long")
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = pagination.DefaultLimit
	}
	params, perrs := pagination.New(q.Page, q.Limit)
	verr.Errors = append(verr.Errors, perrs...)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	employees, total, err := s.employeeRepo.List(ctx, repositories.EmployeeFilter{
		Department: q.Department,
		Status:     q.Status,
		Search:     q.Search,
		Offset:     params.Offset,
		Limit:      params.Limit,
	})
	if err != nil {
		return nil, asTimeout(err)
	}

	return &ListResult{
		Employees:  models.ToResponseList(employees),
		Pagination: pagination.GetMeta(params, total),
	}, nil
}

// Get gets an employee by record ID
func (s *EmployeeService) Get(ctx context.Context, id string) (*models.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, asTimeout(err)
	}
	return employee, nil
}

// Create creates an employee record without an account
func (s *EmployeeService) Create(ctx context.Context, actor *Principal, input EmployeeInput) (*models.Employee, error) {
	normalize(&input)
	s.applyDefaults(&input)

	// 1. Validate
	if err := s.validate(input); err != nil {
		return nil, err
	}

	// 2. Friendly uniqueness check; the unique indexes stay authoritative
	if err := s.checkUnique(ctx, input.EmployeeID, input.Email, ""); err != nil {
		return nil, err
	}

	// 3. Create
	employee := &models.Employee{EmployeeID: input.EmployeeID}
	apply(employee, input)
	if id := actorID(actor); id != nil {
		employee.CreatedByID = id
		employee.UpdatedByID = id
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, asTimeout(err)
	}

	s.invalidateStats(ctx)
	s.log.InfoContext(ctx, "employee created", slog.String("employee_id", employee.EmployeeID), slog.String("by", principalID(actor)))

	return s.reload(ctx, employee)
}

// Update replaces the profile of an employee. Fields left empty keep their stored
// value; employeeId cannot change.
func (s *EmployeeService) Update(ctx context.Context, actor *Principal, id string, input EmployeeInput) (*models.Employee, error) {
	existing, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, asTimeout(err)
	}

	normalize(&input)
	if input.EmployeeID != "" && input.EmployeeID != existing.EmployeeID {
		return nil, domain.NewValidationError("employeeId", "Employee ID cannot be changed")
	}
	merge(&input, existing)
	s.applyDefaults(&input)

	if err := s.validate(input); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, "", input.Email, existing.ID); err != nil {
		return nil, err
	}

	apply(existing, input)
	existing.UpdatedByID = actorID(actor)
	if err := s.employeeRepo.Update(ctx, existing); err != nil {
		return nil, asTimeout(err)
	}

	s.invalidateStats(ctx)
	s.log.InfoContext(ctx, "employee updated", slog.String("employee_id", existing.EmployeeID))

	return s.reload(ctx, existing)
}

// Delete hard deletes an employee and returns the removed record
func (s *EmployeeService) Delete(ctx context.Context, id string) (*models.Employee, error) {
	existing, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, asTimeout(err)
	}
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return nil, asTimeout(err)
	}

	s.invalidateStats(ctx)
	s.log.InfoContext(ctx, "employee deleted", slog.String("employee_id", existing.EmployeeID))

	return existing, nil
}

func normalize(in *EmployeeInput) {
	in.EmployeeID = strings.TrimSpace(in.EmployeeID)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Department = strings.TrimSpace(in.Department)
	in.Position = strings.TrimSpace(in.Position)
	in.HireDate = strings.TrimSpace(in.HireDate)
	in.Status = strings.TrimSpace(in.Status)
	in.Address.Street = strings.TrimSpace(in.Address.Street)
	in.Address.City = strings.TrimSpace(in.Address.City)
	in.Address.State = strings.TrimSpace(in.Address.State)
	in.Address.ZipCode = strings.TrimSpace(in.Address.ZipCode)
	in.Address.Country = strings.TrimSpace(in.Address.Country)
	in.EmergencyContact.Name = strings.TrimSpace(in.EmergencyContact.Name)
	in.EmergencyContact.Relationship = strings.TrimSpace(in.EmergencyContact.Relationship)
	in.EmergencyContact.Phone = strings.TrimSpace(in.EmergencyContact.Phone)
}

func (s *EmployeeService) applyDefaults(in *EmployeeInput) {
	if in.Status == "" {
		in.Status = s.schema.Default("status")
	}
	if in.Address.Country == "" {
		in.Address.Country = s.schema.Default("address.country")
	}
}

func (s *EmployeeService) validate(in EmployeeInput) error {
	errs := s.schema.Validate(map[string]any{
		"employeeId":                    in.EmployeeID,
		"firstName":                     in.FirstName,
		"lastName":                      in.LastName,
		"email":                         in.Email,
		"phone":                         in.Phone,
		"department":                    in.Department,
		"position":                      in.Position,
		"salary":                        in.Salary,
		"hireDate":                      in.HireDate,
		"status":                        in.Status,
		"address.street":                in.Address.Street,
		"address.city":                  in.Address.City,
		"address.state":                 in.Address.State,
		"address.zipCode":               in.Address.ZipCode,
		"address.country":               in.Address.Country,
		"emergencyContact.name":         in.EmergencyContact.Name,
		"emergencyContact.relationship": in.EmergencyContact.Relationship,
		"emergencyContact.phone":        in.EmergencyContact.Phone,
	}, s.clock.now())
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (s *EmployeeService) checkUnique(ctx context.Context, employeeID, email, excludeID string) error {
	if employeeID != "" {
		taken, err := s.employeeRepo.ExistsByEmployeeID(ctx, employeeID, excludeID)
		if err != nil {
			return asTimeout(err)
		}
		if taken {
			return domain.ErrDuplicateEntry
		}
	}
	taken, err := s.employeeRepo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return asTimeout(err)
	}
	if taken {
		return domain.ErrDuplicateEntry
	}
	return nil
}

// reload re-reads a written record so audit references are populated
func (s *EmployeeService) reload(ctx context.Context, employee *models.Employee) (*models.Employee, error) {
	fresh, err := s.employeeRepo.GetByID(ctx, employee.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return employee, nil
		}
		return nil, asTimeout(err)
	}
	return fresh, nil
}

func (s *EmployeeService) invalidateStats(ctx context.Context) {
	if s.stats == nil {
		return
	}
	if err := s.stats.Invalidate(ctx); err != nil {
		s.log.WarnContext(ctx, "stats cache not invalidated", slog.Any("error", err))
	}
}

// merge fills empty input fields from the stored record
func merge(in *EmployeeInput, e *models.Employee) {
	in.EmployeeID = e.EmployeeID
	fill(&in.FirstName, e.FirstName)
	fill(&in.LastName, e.LastName)
	fill(&in.Email, e.Email)
	fill(&in.Phone, e.Phone)
	fill(&in.Department, e.Department)
	fill(&in.Position, e.Position)
	fill(&in.Status, e.Status)
	if in.Salary == nil {
		salary := e.Salary
		in.Salary = &salary
	}
	if in.HireDate == "" {
		in.HireDate = e.HireDate.Format("2006-01-02")
	}
	fill(&in.Address.Street, e.Address.Street)
	fill(&in.Address.City, e.Address.City)
	fill(&in.Address.State, e.Address.State)
	fill(&in.Address.ZipCode, e.Address.ZipCode)
	fill(&in.Address.Country, e.Address.Country)
	fill(&in.EmergencyContact.Name, e.EmergencyContact.Name)
	fill(&in.EmergencyContact.Relationship, e.EmergencyContact.Relationship)
	fill(&in.EmergencyContact.Phone, e.EmergencyContact.Phone)
}

func fill(dst *string, stored string) {
	if *dst == "" {
		*dst = stored
	}
}

// apply copies validated profile fields onto the model
func apply(e *models.Employee, in EmployeeInput) {
	hireDate, _ := validation.ParseDate(in.HireDate)

	e.FirstName = in.FirstName
	e.LastName = in.LastName
	e.Email = in.Email
	e.Phone = in.Phone
	e.Department = in.Department
	e.Position = in.Position
	e.Salary = *in.Salary
	e.HireDate = hireDate
	e.Status = in.Status
	e.Address = in.Address
	e.EmergencyContact = in.EmergencyContact
}

func principalID(actor *Principal) string {
	if actor == nil {
		return ""
	}
	return actor.ID
}

func actorID(actor *Principal) *string {
	if actor == nil || actor.ID == "" {
		return nil
	}
	id := actor.ID
	return &id
}
