package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation failed for field %q: %s", e.Field, e.Message)
}

// Validator provides configuration validation utilities
type Validator struct {
	errors []ValidationError
}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{
		errors: []ValidationError{},
	}
}

func (v *Validator) add(field, format string, args ...any) *Validator {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
	return v
}

// RequireNonEmpty validates that a string field is not empty
func (v *Validator) RequireNonEmpty(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v.add(field, "value cannot be empty")
	}
	return v
}

// ValidateRange validates that an integer field is within a range [min, max]
func (v *Validator) ValidateRange(field string, value, min, max int) *Validator {
	if value < min || value > max {
		return v.add(field, "value must be between %d and %d, got %d", min, max, value)
	}
	return v
}

// RequirePositiveDuration validates that a duration is greater than 0
func (v *Validator) RequirePositiveDuration(field string, value time.Duration) *Validator {
	if value <= 0 {
		return v.add(field, "value must be positive, got %s", value)
	}
	return v
}

// ValidateURL validates an absolute http(s) URL
func (v *Validator) ValidateURL(field, value string) *Validator {
	u, err := url.Parse(value)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return v.add(field, "value must be an absolute http(s) URL, got %q", value)
	}
	return v
}

// ValidateHostPort validates a host:port listen address
func (v *Validator) ValidateHostPort(field, value string) *Validator {
	if _, _, err := net.SplitHostPort(value); err != nil {
		return v.add(field, "value must be host:port, got %q", value)
	}
	return v
}

// HasErrors returns true if there are any validation errors
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Error returns a combined error message or nil if no errors
func (v *Validator) Error() error {
	if !v.HasErrors() {
		return nil
	}

	var b strings.Builder
	b.WriteString("configuration validation failed:\n")
	for _, e := range v.errors {
		fmt.Fprintf(&b, "  - %s: %s\n", e.Field, e.Message)
	}
	return errors.New(b.String())
}

// Errors returns all validation errors
func (v *Validator) Errors() []ValidationError {
	return v.errors
}

// ValidateGeminiConfig validates the generation endpoint settings
func ValidateGeminiConfig(cfg GeminiConfig) error {
	v := NewValidator()
	v.RequireNonEmpty("gemini.api_key", cfg.APIKey)
	v.RequireNonEmpty("gemini.model", cfg.Model)
	v.ValidateURL("gemini.base_url", cfg.BaseURL)
	v.RequirePositiveDuration("gemini.timeout", cfg.Timeout)
	return v.Error()
}

// ValidateRetryConfig validates the backoff settings
func ValidateRetryConfig(cfg RetryConfig) error {
	v := NewValidator()
	v.ValidateRange("retry.max_attempts", cfg.MaxAttempts, 0, 10)
	v.RequirePositiveDuration("retry.base_delay", cfg.BaseDelay)
	return v.Error()
}

// ValidateServerConfig validates the HTTP listener settings
func ValidateServerConfig(cfg ServerConfig) error {
	v := NewValidator()
	v.ValidateHostPort("server.addr", cfg.Addr)
	return v.Error()
}
