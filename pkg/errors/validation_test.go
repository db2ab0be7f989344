package errors

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Primary", false},
		{"valid with spaces", "Primary Color", false},
		{"valid grouped", "Brand/Primary", false},
		{"valid unicode", "Farbe – Primär", false},

		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", strings.Repeat("a", 300), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName("variable", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}

func TestValidateWorkspaceKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid default", "default", false},
		{"valid with dash", "design-system", false},
		{"valid with dot", "tokens.v2", false},

		{"empty", "", true},
		{"too long", strings.Repeat("k", 200), true},
		{"path traversal", "..", true},
		{"slash", "a/b", true},
		{"space", "my key", true},
		{"colon", "user:1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWorkspaceKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWorkspaceKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
