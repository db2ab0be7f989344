package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds collection, mode and variable names.
const maxNameLength = 256

// ValidateName validates a collection, mode or variable name.
// kind is used in the message only ("collection", "mode", "variable").
//
// The rules are deliberately small, names are otherwise free-form:
//   - No empty or whitespace-only names
//   - No control characters (including null bytes)
//   - Maximum length of 256 characters
//
// Slashes are allowed since design tools use them for grouping
// ("Brand/Primary").
func ValidateName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidName, "%s name cannot be empty", kind)
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "%s name too long (max %d characters)", kind, maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "%s name %q contains control characters", kind, name)
		}
	}

	return nil
}

// ValidateWorkspaceKey validates the key a workspace snapshot is stored under.
// Keys end up in file names, Redis keys and document ids, so they are
// restricted to a conservative character set.
//
// Validation rules:
//   - Key cannot be empty
//   - Maximum length of 128 characters
//   - Only letters, digits, '-', '_' and '.'
//   - No path traversal sequences (..)
func ValidateWorkspaceKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidWorkspace, "workspace key cannot be empty")
	}

	const maxKeyLength = 128
	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidWorkspace, "workspace key too long (max %d characters)", maxKeyLength)
	}

	if strings.Contains(key, "..") {
		return New(ErrCodeInvalidWorkspace, "workspace key cannot contain path traversal sequences (..)")
	}

	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return New(ErrCodeInvalidWorkspace, "workspace key contains invalid character %q", r)
		}
	}

	return nil
}
