package api

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	app_errors "claude-chat/backend/internal/errors"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once

	modelIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.\-@]*$`)
)

// getInstance returns the shared validator. Field names in messages use the
// struct field name, which is what clients see in error bodies.
func getInstance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// model_id accepts provider model identifiers such as "claude-sonnet-4-5-20250929".
		_ = validate.RegisterValidation("model_id", func(fl validator.FieldLevel) bool {
			return modelIDPattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// validateRequest checks a given payload struct against the validation rules
// defined in its field tags (e.g., `validate:"required,min=1"`).
// If validation fails, it returns a wrapped `app_errors.ErrValidation` with a
// user-friendly, detailed message.
func validateRequest(payload interface{}) error {
	v := getInstance()
	err := v.Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: an unexpected error occurred during validation: %s", app_errors.ErrValidation, err.Error())
	}

	var errorMessages []string
	for _, fieldErr := range validationErrors {
		errMsg := fmt.Sprintf("Field '%s' failed on the '%s' tag", fieldErr.Field(), fieldErr.Tag())
		errorMessages = append(errorMessages, errMsg)
	}

	return fmt.Errorf("%w: %s", app_errors.ErrValidation, strings.Join(errorMessages, "; "))
}
