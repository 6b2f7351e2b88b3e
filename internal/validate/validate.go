// Package validate accumulates field-level validation failures for request
// payloads. Rules never stop the chain; every failure is recorded in call
// order.
package validate

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9\s\-.()]+$`)
)

// FieldError describes one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of a validation chain.
type Result struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors"`
}

type Validator struct {
	errors []FieldError
}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) add(field, message string) *Validator {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
	return v
}

// Required fails when value is empty or only whitespace.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v.add(field, fmt.Sprintf("%s is required", field))
	}
	return v
}

// MinLength fails when a non-empty value has fewer than n characters.
func (v *Validator) MinLength(field, value string, n int) *Validator {
	if value != "" && utf8.RuneCountInString(value) < n {
		return v.add(field, fmt.Sprintf("%s must be at least %d characters", field, n))
	}
	return v
}

// MaxLength fails when value has more than n characters.
func (v *Validator) MaxLength(field, value string, n int) *Validator {
	if value != "" && utf8.RuneCountInString(value) > n {
		return v.add(field, fmt.Sprintf("%s must be at most %d characters", field, n))
	}
	return v
}

// Email fails when a non-empty value is not shaped like an address.
func (v *Validator) Email(field, value string) *Validator {
	if value != "" && !emailPattern.MatchString(value) {
		return v.add(field, fmt.Sprintf("%s must be a valid email address", field))
	}
	return v
}

// Phone fails when a non-empty value is not an optional leading + followed by
// 7 to 15 digits, with spaces, dashes, dots or parentheses allowed between
// them.
func (v *Validator) Phone(field, value string) *Validator {
	if value == "" {
		return v
	}
	if !phonePattern.MatchString(value) {
		return v.add(field, fmt.Sprintf("%s must be a valid phone number", field))
	}
	digits := 0
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 7 || digits > 15 {
		return v.add(field, fmt.Sprintf("%s must be a valid phone number", field))
	}
	return v
}

// Custom records message when ok is false.
func (v *Validator) Custom(field string, ok bool, message string) *Validator {
	if !ok {
		return v.add(field, message)
	}
	return v
}

// OneOf fails when a non-empty value is not among allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	if value != "" && !slices.Contains(allowed, value) {
		return v.add(field, fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")))
	}
	return v
}

// NotEmpty fails when a list field has no elements. n is the list length.
func (v *Validator) NotEmpty(field string, n int) *Validator {
	if n == 0 {
		return v.add(field, fmt.Sprintf("%s must contain at least one item", field))
	}
	return v
}

// Result returns a snapshot of the accumulated failures.
func (v *Validator) Result() Result {
	errs := make([]FieldError, len(v.errors))
	copy(errs, v.errors)
	return Result{Valid: len(errs) == 0, Errors: errs}
}
