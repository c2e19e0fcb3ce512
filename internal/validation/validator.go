// Package validation provides HTTP request validation utilities using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/whenworksapp/whenworks-server/internal/dateutil"
	domainerrors "github.com/whenworksapp/whenworks-server/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for our domain.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		// Remove options like omitempty, -
		for i := range len(name) {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})

	// datekey validates a single "YYYY-MM-DD" date key.
	//nolint:errcheck // RegisterValidation only errors on empty tag names
	_ = v.RegisterValidation("datekey", func(fl validator.FieldLevel) bool {
		_, ok := dateutil.ParseDate(fl.Field().String())
		return ok
	})

	// dateset validates text that should parse entirely as date keys.
	// Malformed tokens are tolerated by the parser, so this only rejects
	// text where nothing at all survives a non-empty input.
	//nolint:errcheck // RegisterValidation only errors on empty tag names
	_ = v.RegisterValidation("dateset", func(fl validator.FieldLevel) bool {
		text := fl.Field().String()
		if text == "" {
			return true
		}
		return len(dateutil.ParseDateSet(text)) > 0
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain error.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// formatError converts validator errors to domain errors.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string)
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = v.friendlyMessage(e)
	}

	return domainerrors.ValidationWithDetails("validation failed", fieldErrors)
}

func (v *Validator) friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	case "datekey":
		return "must be a YYYY-MM-DD date"
	case "dateset":
		return "must contain YYYY-MM-DD dates"
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	default:
		return "is invalid"
	}
}
