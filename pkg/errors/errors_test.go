package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeHostMutation, cause, "failed to set value")

	if err.Code != ErrCodeHostMutation {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeHostMutation)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeHostMutation,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeHostMutation, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeHostMutation,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeUnknownVariable, "test"),
			expected: ErrCodeUnknownVariable,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessageWithCause(t *testing.T) {
	inner := New(ErrCodeUnknownMode, "mode %q not found", "Dark")
	err := Wrap(ErrCodeHostMutation, inner, "set value of %q", "Primary")

	want := `set value of "Primary": mode "Dark" not found`
	if got := UserMessage(err); got != want {
		t.Errorf("UserMessage() = %q, want %q", got, want)
	}
}

func TestHas(t *testing.T) {
	inner := New(ErrCodeUnknownMode, "inner")
	outer := Wrap(ErrCodeHostMutation, inner, "outer")

	if !Has(outer, ErrCodeHostMutation) {
		t.Error("Has(outer, HOST_MUTATION_FAILURE) = false, want true")
	}
	if !Has(outer, ErrCodeUnknownMode) {
		t.Error("Has(outer, UNKNOWN_MODE) = false, want true")
	}
	if Is(outer, ErrCodeUnknownMode) {
		t.Error("Is(outer, UNKNOWN_MODE) = true, want false (outermost code only)")
	}
	if Has(errors.New("plain"), ErrCodeHostMutation) {
		t.Error("Has(plain) = true, want false")
	}
	if Has(nil, ErrCodeHostMutation) {
		t.Error("Has(nil) = true, want false")
	}
}

func TestAnnotate(t *testing.T) {
	coded := Annotate(New(ErrCodeUnknownMode, "mode %q", "Dark"), ErrCodeInvalidDocument, "collection %q", "Base")
	if coded.Code != ErrCodeUnknownMode {
		t.Errorf("Annotate(coded).Code = %v, want %v", coded.Code, ErrCodeUnknownMode)
	}

	plain := Annotate(errors.New("boom"), ErrCodeInvalidDocument, "decode")
	if plain.Code != ErrCodeInvalidDocument {
		t.Errorf("Annotate(plain).Code = %v, want %v", plain.Code, ErrCodeInvalidDocument)
	}
	if got, want := UserMessage(plain), "decode: boom"; got != want {
		t.Errorf("UserMessage() = %q, want %q", got, want)
	}
}
