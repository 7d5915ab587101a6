// Package validation wraps go-playground/validator with JSON field
// names and user-facing messages.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/inkwellapp/inkwell-server/internal/store"
)

// Validator validates structs against their `validate` tags.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator that reports fields by their JSON tag name.
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

// Validate checks s against its validate tags and returns an invalid
// input error describing every failed field.
func (v *Validator) Validate(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return store.ErrInvalidInput.WithCause(err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, friendlyMessage(fieldErr))
	}

	return store.ErrInvalidInput.
		WithMessage(strings.Join(messages, "; ")).
		WithCause(err)
}

// friendlyMessage converts a field error into something a user can act
// on.
func friendlyMessage(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "dive":
		return fmt.Sprintf("%s contains an invalid entry", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
