// Package validation holds the declarative field rules shared by the API and the form layer.
package validation

import (
	_ "embed"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"employee-portal/internal/core/domain"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed rules/employee.yaml
var employeeRules []byte

// Rule types
const (
	TypeString = "string"
	TypeEmail  = "email"
	TypeNumber = "number"
	TypeDate   = "date"
	TypeEnum   = "enum"
)

// DateLayouts lists accepted date encodings, most specific last
var DateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

// Rule describes the constraints of one field
type Rule struct {
	Field     string   `yaml:"field" json:"field"`
	Label     string   `yaml:"label" json:"label"`
	Type      string   `yaml:"type" json:"type"`
	Required  bool     `yaml:"required" json:"required"`
	Min       *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max       *float64 `yaml:"max,omitempty" json:"max,omitempty"`
	Pattern   string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Values    []string `yaml:"values,omitempty" json:"values,omitempty"`
	NotFuture bool     `yaml:"notFuture,omitempty" json:"notFuture,omitempty"`
	Default   string   `yaml:"default,omitempty" json:"default,omitempty"`
	Message   string   `yaml:"message" json:"message"`

	pattern *regexp.Regexp
	tag     string
}

// Schema is an ordered rule table
type Schema struct {
	Name  string `yaml:"name" json:"name"`
	Rules []Rule `yaml:"rules" json:"rules"`

	byField  map[string]*Rule
	validate *validator.Validate
}

// Parse builds a Schema from its YAML form and compiles its patterns
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("validation: parse rules: %w", err)
	}

	s.byField = make(map[string]*Rule, len(s.Rules))
	s.validate = validator.New()

	for i := range s.Rules {
		r := &s.Rules[i]
		if r.Field == "" {
			return nil, fmt.Errorf("validation: rule %d has no field", i)
		}
		switch r.Type {
		case TypeString, TypeEmail, TypeNumber, TypeDate, TypeEnum:
		default:
			return nil, fmt.Errorf("validation: %s: unknown type %q", r.Field, r.Type)
		}
		if r.Pattern != "" {
			re, err := regexp.Compile(r.Pattern)
			if err != nil {
				return nil, fmt.Errorf("validation: %s: %w", r.Field, err)
			}
			r.pattern = re
		}
		r.tag = r.buildTag()
		s.byField[r.Field] = r
	}
	return &s, nil
}

var (
	employeeOnce   sync.Once
	employeeSchema *Schema
)

// Employee returns the employee rule table
func Employee() *Schema {
	employeeOnce.Do(func() {
		s, err := Parse(employeeRules)
		if err != nil {
			panic(err)
		}
		employeeSchema = s
	})
	return employeeSchema
}

// Rule returns the rule for field, or nil
func (s *Schema) Rule(field string) *Rule {
	return s.byField[field]
}

// Default returns the configured default for field
func (s *Schema) Default(field string) string {
	if r := s.byField[field]; r != nil {
		return r.Default
	}
	return ""
}

// Validate checks values against every rule. Strings are expected trimmed; numbers as
// *float64 (nil when absent); dates as strings in one of DateLayouts.
func (s *Schema) Validate(values map[string]any, now time.Time) []domain.FieldError {
	var errs []domain.FieldError
	for i := range s.Rules {
		r := &s.Rules[i]
		if !r.check(s.validate, values[r.Field], now) {
			errs = append(errs, domain.FieldError{Field: r.Field, Message: r.Message})
		}
	}
	return errs
}

// ValidateField checks a single value against the rule for field. Unknown fields pass.
func (s *Schema) ValidateField(field string, value any, now time.Time) *domain.FieldError {
	r := s.byField[field]
	if r == nil || r.check(s.validate, value, now) {
		return nil
	}
	return &domain.FieldError{Field: r.Field, Message: r.Message}
}

func (r *Rule) check(v *validator.Validate, value any, now time.Time) bool {
	switch r.Type {
	case TypeNumber:
		n, present := asNumber(value)
		if !present {
			return !r.Required
		}
		if r.tag == "" {
			return true
		}
		return v.Var(n, r.tag) == nil

	default:
		str, _ := value.(string)
		if str == "" {
			return !r.Required
		}
		if r.Type == TypeDate {
			t, err := ParseDate(str)
			if err != nil {
				return false
			}
			return !r.NotFuture || !t.After(now)
		}
		if r.tag != "" && v.Var(str, r.tag) != nil {
			return false
		}
		if r.pattern != nil && !r.pattern.MatchString(str) {
			return false
		}
		return true
	}
}

func (r *Rule) buildTag() string {
	var parts []string
	switch r.Type {
	case TypeEmail:
		parts = append(parts, "email")
	case TypeEnum:
		if len(r.Values) > 0 {
			parts = append(parts, "oneof="+strings.Join(r.Values, " "))
		}
	case TypeDate:
		return ""
	}

	if r.Type == TypeNumber {
		if r.Min != nil {
			parts = append(parts, "gte="+formatBound(*r.Min))
		}
		if r.Max != nil {
			parts = append(parts, "lte="+formatBound(*r.Max))
		}
	} else {
		if r.Min != nil {
			parts = append(parts, "min="+formatBound(*r.Min))
		}
		if r.Max != nil {
			parts = append(parts, "max="+formatBound(*r.Max))
		}
	}
	return strings.Join(parts, ",")
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func asNumber(value any) (float64, bool) {
	switch n := value.(type) {
	case *float64:
		if n == nil {
			return 0, false
		}
		return *n, true
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// ParseDate parses s using the accepted date layouts
func ParseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range DateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
