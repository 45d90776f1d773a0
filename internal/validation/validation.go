// Package validation provides input validation for catalog fields.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrRequired indicates a required field was empty.
	ErrRequired = errors.New("field is required")
	// ErrInputTooLong indicates input exceeds maximum length.
	ErrInputTooLong = errors.New("input exceeds maximum length")
	// ErrInputInvalid indicates input contains invalid characters.
	ErrInputInvalid = errors.New("input contains invalid characters")
)

// Field length limits.
const (
	MaxToolNameLength    = 80
	MaxCommandNameLength = 120
	MaxCategoryLength    = 60
)

// FieldError ties a validation failure to the form field that caused it.
type FieldError struct {
	Err   error
	Field string
	// Limit is the maximum length for ErrInputTooLong, zero otherwise.
	Limit int
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Required fails when value is empty after trimming.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &FieldError{Field: field, Err: ErrRequired}
	}
	return nil
}

// MaxLength fails when value has more than maxLength characters.
func MaxLength(field, value string, maxLength int) error {
	if utf8.RuneCountInString(value) > maxLength {
		return &FieldError{Field: field, Err: ErrInputTooLong, Limit: maxLength}
	}
	return nil
}

// NoNullBytes rejects strings that SQLite text columns would truncate.
func NoNullBytes(field, value string) error {
	if strings.Contains(value, "\x00") {
		return &FieldError{Field: field, Err: ErrInputInvalid}
	}
	return nil
}

// ValidateToolName validates a tool name.
func ValidateToolName(name string) error {
	if err := Required("name", name); err != nil {
		return err
	}
	if err := MaxLength("name", name, MaxToolNameLength); err != nil {
		return err
	}
	return NoNullBytes("name", name)
}

// ValidateCommand validates the fields of a command template.
func ValidateCommand(name, template, category string) error {
	if err := Required("name", name); err != nil {
		return err
	}
	if err := Required("template", template); err != nil {
		return err
	}
	if err := MaxLength("name", name, MaxCommandNameLength); err != nil {
		return err
	}
	if err := MaxLength("category", category, MaxCategoryLength); err != nil {
		return err
	}
	if err := NoNullBytes("name", name); err != nil {
		return err
	}
	return NoNullBytes("template", template)
}
