package handlers

import (
	"errors"
	"log/slog"

	"employee-portal/internal/adapters/http/middleware"
	"employee-portal/internal/core/domain"
	"employee-portal/internal/core/services"
	"employee-portal/internal/pkg/pagination"
	"employee-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// EmployeeHandler handles administrator employee maintenance
type EmployeeHandler struct {
	employeeService *services.EmployeeService
	statsService    *services.StatsService
	log             *slog.Logger
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employeeService *services.EmployeeService, statsService *services.StatsService, log *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		employeeService: employeeService,
		statsService:    statsService,
		log:             log,
	}
}

// List returns one page of employees
// @Summary List employees
// @Description Filter by department or status and search names, emails, IDs and positions
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param department query string false "Department"
// @Param status query string false "Status"
// @Param search query string false "Search term"
// @Success 200 {object} response.Response{data=services.ListResult}
// @Failure 400 {object} response.Response
// @Router /employees [get]
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	params, ferrs := pagination.GetParams(c)
	if len(ferrs) > 0 {
		return response.ValidationFailed(c, ferrs)
	}

	result, err := h.employeeService.List(c.UserContext(), services.ListQuery{
		Page:       params.Page,
		Limit:      params.Limit,
		Department: c.Query("department"),
		Status:     c.Query("status"),
		Search:     c.Query("search"),
	})
	if err != nil {
		return failure(c, h.log, err, "Failed to retrieve employees")
	}

	return response.Success(c, "", result)
}

// Get returns a single employee
// @Summary Get employee
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee record ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /employees/{id} [get]
func (h *EmployeeHandler) Get(c *fiber.Ctx) error {
	id, ok := recordID(c)
	if !ok {
		return response.NotFound(c, "Employee not found")
	}

	employee, err := h.employeeService.Get(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err, "Failed to retrieve employee")
	}

	return response.Success(c, "", fiber.Map{
		"employee": employee.ToResponse(),
	})
}

// Create creates an employee record without a login account
// @Summary Create employee
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.EmployeeInput true "Employee record"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /employees [post]
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	var req services.EmployeeInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	employee, err := h.employeeService.Create(c.UserContext(), middleware.GetPrincipal(c), req)
	if err != nil {
		return h.fail(c, err, "Failed to create employee")
	}

	return response.Created(c, "Employee created successfully", fiber.Map{
		"employee": employee.ToResponse(),
	})
}

// Update replaces the profile of an employee
// @Summary Update employee
// @Description Empty fields keep their stored value. employeeId cannot change.
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee record ID"
// @Param body body services.EmployeeInput true "Employee record"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /employees/{id} [put]
func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	id, ok := recordID(c)
	if !ok {
		return response.NotFound(c, "Employee not found")
	}

	var req services.EmployeeInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	employee, err := h.employeeService.Update(c.UserContext(), middleware.GetPrincipal(c), id, req)
	if err != nil {
		return h.fail(c, err, "Failed to update employee")
	}

	return response.Success(c, "Employee updated successfully", fiber.Map{
		"employee": employee.ToResponse(),
	})
}

// Delete removes an employee record
// @Summary Delete employee
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee record ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	id, ok := recordID(c)
	if !ok {
		return response.NotFound(c, "Employee not found")
	}

	employee, err := h.employeeService.Delete(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err, "Failed to delete employee")
	}

	return response.Success(c, "Employee deleted successfully", fiber.Map{
		"employee": employee.ToResponse(),
	})
}

// Stats returns the headcount overview
// @Summary Employee statistics
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=services.Overview}
// @Router /employees/stats/overview [get]
func (h *EmployeeHandler) Stats(c *fiber.Ctx) error {
	overview, err := h.statsService.Overview(c.UserContext())
	if err != nil {
		return failure(c, h.log, err, "Failed to retrieve statistics")
	}

	return response.Success(c, "", overview)
}

func (h *EmployeeHandler) fail(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Employee not found")
	case errors.Is(err, domain.ErrDuplicateEntry):
		return response.BadRequest(c, "Employee with this ID or email already exists")
	}
	return failure(c, h.log, err, message)
}

// recordID returns the :id path parameter when it is a well formed record ID
func recordID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}
