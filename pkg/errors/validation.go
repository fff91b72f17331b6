package errors

import (
	"strings"
	"unicode"
)

// ValidateName validates a property, attribute, algorithm or parameter name.
//
// The rules are intentionally conservative:
//   - No empty names
//   - No leading or trailing whitespace
//   - No control characters
//   - Maximum length of 256 characters
func ValidateName(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "%s name cannot be empty", kind)
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "%s name too long (max 256 characters)", kind)
	}

	if strings.TrimSpace(name) != name {
		return New(ErrCodeInvalidInput, "%s name %q has surrounding whitespace", kind, name)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s name contains invalid control characters", kind)
		}
	}

	return nil
}

// ValidatePath validates a graph file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ParseParam splits a "key=value" command-line parameter.
func ParseParam(s string) (key, value string, err error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return "", "", New(ErrCodeInvalidParameter, "parameter %q is not of the form key=value", s)
	}
	key = strings.TrimSpace(key)
	if err := ValidateName("parameter", key); err != nil {
		return "", "", Wrap(ErrCodeInvalidParameter, err, "bad parameter %q", s)
	}
	return key, value, nil
}
