package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateToolName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"valid", "nmap", nil},
		{"empty", "", ErrRequired},
		{"whitespace only", "   ", ErrRequired},
		{"at limit", strings.Repeat("a", MaxToolNameLength), nil},
		{"too long", strings.Repeat("a", MaxToolNameLength+1), ErrInputTooLong},
		{"null byte", "nm\x00ap", ErrInputInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateToolName(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateToolName(%q) = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name      string
		cmdName   string
		template  string
		category  string
		wantErr   error
		wantField string
	}{
		{"valid", "Ping scan", "nmap -sn {target}", "Recon", nil, ""},
		{"missing name", "", "nmap -sn {target}", "", ErrRequired, "name"},
		{"missing template", "Ping scan", "", "", ErrRequired, "template"},
		{"long name", strings.Repeat("n", MaxCommandNameLength+1), "x", "", ErrInputTooLong, "name"},
		{"long category", "Ping scan", "x", strings.Repeat("c", MaxCategoryLength+1), ErrInputTooLong, "category"},
		{"multibyte category at limit", "Ping scan", "x", strings.Repeat("é", MaxCategoryLength), nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCommand(tt.cmdName, tt.template, tt.category)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ValidateCommand() = %v, want %v", err, tt.wantErr)
			}
			if tt.wantField == "" {
				return
			}
			var fieldErr *FieldError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("expected *FieldError, got %T", err)
			}
			if fieldErr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, fieldErr.Field)
			}
		})
	}
}
