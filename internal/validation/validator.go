package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/taskstack/backend/domain"
)

// Violation kinds surfaced in error details.
const (
	KindRequired    = "required"
	KindLength      = "length"
	KindEnum        = "enum"
	KindFormat      = "format"
	KindInvalidBody = "invalid_body"
)

// Validator checks payload structs against their declared field rules.
// Rules live as struct tags next to each field, so the schema stays
// declarative and in one place. Safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator that reports field names by their JSON tags.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates the payload and, on failure, returns a domain error
// carrying one violation per failed field, not just the first.
func (v *Validator) Struct(payload interface{}) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.WrapError(domain.ErrCodeInternal, "validation failed unexpectedly", err)
	}

	details := make([]domain.FieldViolation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, violation(fe))
	}
	return domain.NewValidationError(details)
}

func violation(fe validator.FieldError) domain.FieldViolation {
	field := fe.Field()
	kind, message := describe(fe, field)
	return domain.FieldViolation{
		Field:   field,
		Kind:    kind,
		Message: message,
	}
}

func describe(fe validator.FieldError, field string) (string, string) {
	switch fe.Tag() {
	case "required":
		return KindRequired, fmt.Sprintf("%s is required", field)
	case "min":
		return KindLength, fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return KindLength, fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		choices := strings.Join(strings.Fields(fe.Param()), ", ")
		return KindEnum, fmt.Sprintf("%s must be one of: %s", field, choices)
	case "email":
		return KindFormat, fmt.Sprintf("%s must be a valid email address", field)
	case "datetime":
		return KindFormat, fmt.Sprintf("%s must be an ISO-8601 date-time", field)
	default:
		return fe.Tag(), fmt.Sprintf("%s is invalid", field)
	}
}
