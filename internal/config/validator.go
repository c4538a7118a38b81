package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators registers OJTrack-specific validation rules.
// Must be called before validating ClientConfig.
func RegisterCustomValidators(v *validator.Validate) error {
	// api_url: validates an absolute http(s) URL without a trailing /api.
	if err := v.RegisterValidation("api_url", validateAPIURL); err != nil {
		return fmt.Errorf("failed to register api_url validator: %w", err)
	}
	// duration: validates a time.ParseDuration string.
	if err := v.RegisterValidation("duration", validateDuration); err != nil {
		return fmt.Errorf("failed to register duration validator: %w", err)
	}
	return nil
}

// validateAPIURL validates the API base URL field.
// Valid values are absolute http:// or https:// URLs. The client appends the
// "/api" prefix itself, so a URL already ending in /api is rejected to avoid
// doubled paths.
func validateAPIURL(fl validator.FieldLevel) bool {
	raw := fl.Field().String()

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host == "" {
		return false
	}
	return !strings.HasSuffix(strings.TrimRight(u.Path, "/"), "/api")
}

// validateDuration validates a Go duration string like "8s" or "500ms".
func validateDuration(fl validator.FieldLevel) bool {
	_, err := time.ParseDuration(fl.Field().String())
	return err == nil
}

// Validate validates the ClientConfig using struct tags.
// Returns an error with actionable messages if validation fails.
func (c *ClientConfig) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := RegisterCustomValidators(v); err != nil {
		return err
	}

	if err := v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	return nil
}

// formatValidationErrors converts validator errors into one readable error.
func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, e := range validationErrors {
			messages = append(messages, formatSingleValidationError(e))
		}
		return errors.New(strings.Join(messages, "; "))
	}
	return err
}

func formatSingleValidationError(e validator.FieldError) string {
	field := e.Namespace()
	tag := e.Tag()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "api_url":
		return fmt.Sprintf("%s must be an absolute http(s) URL without a trailing /api", field)
	case "duration":
		return fmt.Sprintf("%s must be a duration like \"8s\"", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, tag)
	}
}
