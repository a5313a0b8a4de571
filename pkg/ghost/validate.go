package ghost

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}

			if name == "" {
				return field.Name
			}

			return name
		})
	})

	return validate
}

// Validate checks a request against its validation tags and returns a local *ValidationError
// naming the first offending JSON property.
func Validate(request interface{}) error {
	err := structValidator().Struct(request)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return NewValidationError("", err.Error())
	}

	first := fieldErrs[0]

	return NewValidationError(first.Field(), describeFieldError(first))
}

// RequireUpdatedAt rejects an update without its concurrency token.
func RequireUpdatedAt(updatedAt time.Time) error {
	if updatedAt.IsZero() {
		return &ValidationError{
			Property: "updated_at",
			Message:  ErrConcurrencyToken.Error(),
		}
	}

	return nil
}

// RequireID rejects an empty resource id.
func RequireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return NewValidationError("id", ErrIDRequired.Error())
	}

	return nil
}

func describeFieldError(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required", "required_if":
		return "is required"
	case "oneof":
		return "must be one of: " + fieldErr.Param()
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "startswith":
		return "must start with " + fieldErr.Param()
	case "hexcolor":
		return "must be a hex color"
	case "max":
		return "must not exceed " + fieldErr.Param()
	case "min":
		return "must be at least " + fieldErr.Param()
	case "len":
		return "must be exactly " + fieldErr.Param() + " characters"
	default:
		return fmt.Sprintf("failed %s validation", fieldErr.Tag())
	}
}
