package handlers

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"

	"employee-portal/internal/core/domain"
	"employee-portal/internal/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const msgUnavailable = "Service temporarily unavailable, please retry"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// parseAndValidate decodes the JSON body into req and checks its validate tags.
// On failure the error response has already been written and handled is true.
func parseAndValidate(c *fiber.Ctx, req interface{}) (handled bool, err error) {
	if err := c.BodyParser(req); err != nil {
		return true, response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]domain.FieldError, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, domain.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
			}
			return true, response.ValidationFailed(c, fields)
		}
		return true, response.BadRequest(c, "Invalid request body")
	}
	return false, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fe.Field() + " is too long"
	default:
		return fe.Field() + " is invalid"
	}
}

// failure writes the response for validation, timeout and unexpected errors.
// Handlers map their own sentinels before calling it.
func failure(c *fiber.Ctx, log *slog.Logger, err error, internalMessage string) error {
	if verr, ok := domain.AsValidationError(err); ok {
		return response.ValidationFailed(c, verr.Errors)
	}
	if errors.Is(err, domain.ErrTimeout) {
		log.WarnContext(c.UserContext(), "request deadline exceeded",
			slog.String("path", c.Path()),
			slog.Any("error", err),
		)
		return response.ServiceUnavailable(c, msgUnavailable)
	}
	log.ErrorContext(c.UserContext(), internalMessage,
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		slog.Any("error", err),
	)
	return response.InternalServerError(c, internalMessage)
}
