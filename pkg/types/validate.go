package types

import (
	"fmt"
	"net/mail"
	"strings"
)

// ValidationError describes one rejected field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every rejected field of a patch. It matches
// ErrInvalidData under errors.Is.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap lets callers test for ErrInvalidData.
func (v ValidationErrors) Unwrap() error {
	return ErrInvalidData
}

// validator accumulates field errors for one patch.
type validator struct {
	errs ValidationErrors
}

func (v *validator) add(field, message string) {
	v.errs = append(v.errs, ValidationError{Field: field, Message: message})
}

func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return v.errs
}

// text checks a required free-text field.
func (v *validator) text(field string, s *string, create bool) {
	if s == nil {
		if create {
			v.add(field, "is required")
		}
		return
	}
	if strings.TrimSpace(*s) == "" {
		v.add(field, "must not be empty")
	}
}

// required reports a missing field on create.
func (v *validator) required(field string, present, create bool) {
	if create && !present {
		v.add(field, "is required")
	}
}

// oneOf checks an optional enum field against its allowed values.
func (v *validator) oneOf(field string, s *string, allowed []string) {
	if s == nil {
		return
	}
	for _, a := range allowed {
		if *s == a {
			return
		}
	}
	v.add(field, "must be one of "+strings.Join(allowed, ", "))
}

func (v *validator) nonNegative(field string, n *int64) {
	if n != nil && *n < 0 {
		v.add(field, "must not be negative")
	}
}

func (v *validator) positive(field string, n *int64) {
	if n != nil && *n <= 0 {
		v.add(field, "must be a positive id")
	}
}

func (v *validator) between(field string, n *int, lo, hi int) {
	if n != nil && (*n < lo || *n > hi) {
		v.add(field, fmt.Sprintf("must be between %d and %d", lo, hi))
	}
}

func (v *validator) email(field string, s *string) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return
	}
	if _, err := mail.ParseAddress(*s); err != nil {
		v.add(field, "is invalid")
	}
}

// Ptr returns a pointer to v. It keeps patch literals short.
func Ptr[T any](v T) *T {
	return &v
}
