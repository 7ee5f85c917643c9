package pagination

import (
	"math"
	"strconv"

	"employee-portal/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// Params represents pagination parameters
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// Meta represents pagination metadata
type Meta struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
}

// DefaultLimit is the default number of items per page
const DefaultLimit = 10

// MaxLimit is the maximum number of items per page
const MaxLimit = 100

// MaxPage is the highest page whose offset cannot overflow
const MaxPage = math.MaxInt / MaxLimit

// GetParams extracts pagination parameters from request. Out of range values are
// reported as field errors rather than clamped.
func GetParams(c *fiber.Ctx) (*Params, []domain.FieldError) {
	return Parse(c.Query("page"), c.Query("limit"))
}

// Parse validates raw page and limit values
func Parse(rawPage, rawLimit string) (*Params, []domain.FieldError) {
	return New(atoiOr(rawPage, 1), atoiOr(rawLimit, DefaultLimit))
}

// New validates page and limit. Pages past MaxPage are rejected so the offset
// always fits in an int.
func New(page, limit int) (*Params, []domain.FieldError) {
	var errs []domain.FieldError
	if page < 1 || page > MaxPage {
		errs = append(errs, domain.FieldError{Field: "page", Message: "Page must be a positive integer"})
	}
	if limit < 1 || limit > MaxLimit {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "Limit must be between 1 and 100"})
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}, nil
}

// atoiOr returns def for an empty value and 0 for a malformed one
func atoiOr(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}

// GetMeta calculates pagination metadata
func GetMeta(params *Params, total int64) *Meta {
	pages := int(total) / params.Limit
	if int(total)%params.Limit > 0 {
		pages++
	}

	return &Meta{
		Current: params.Page,
		Pages:   pages,
		Total:   total,
		Limit:   params.Limit,
	}
}
