package handlers

import (
	"employee-portal/internal/pkg/response"
	"employee-portal/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// SchemaHandler serves the validation rule tables to form clients
type SchemaHandler struct {
	employee *validation.Schema
}

// NewSchemaHandler creates a new schema handler
func NewSchemaHandler() *SchemaHandler {
	return &SchemaHandler{employee: validation.Employee()}
}

// Employee returns the employee record rule table
// @Summary Employee validation rules
// @Tags Schema
// @Produce json
// @Success 200 {object} response.Response{data=validation.Schema}
// @Router /schema/employee [get]
func (h *SchemaHandler) Employee(c *fiber.Ctx) error {
	return response.Success(c, "", h.employee)
}
