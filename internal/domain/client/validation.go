package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return ProjectStatus(fl.Field().String()).Valid()
	})
	return v
}

// ValidateClientDraft checks the fields required to create a client.
func ValidateClientDraft(draft ClientDraft) error {
	return validateStruct(draft)
}

// ValidateProjectDraft checks the fields required to create a project.
func ValidateProjectDraft(draft ProjectDraft) error {
	return validateStruct(draft)
}

// ValidateStatus checks that status is one of the known project statuses.
func ValidateStatus(status ProjectStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	return nil
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		switch fe.Tag() {
		case "notblank":
			return fmt.Errorf("%w: %s is required", ErrValidation, strings.ToLower(fe.Field()))
		case "status":
			return fmt.Errorf("%w: unknown status %q", ErrValidation, fe.Value())
		}
		return fmt.Errorf("%w: %s", ErrValidation, fe.Error())
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}
