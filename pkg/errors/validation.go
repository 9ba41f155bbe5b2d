package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxIDLength bounds widget and dashboard identifiers.
const maxIDLength = 128

// validateIdentifier applies the rules shared by every identifier that ends
// up inside a storage key or a URL path:
//   - No empty values
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - No whitespace
//   - Maximum length of 128 characters
func validateIdentifier(code Code, what, value string) error {
	if value == "" {
		return New(code, "%s cannot be empty", what)
	}

	if len(value) > maxIDLength {
		return New(code, "%s too long (max %d characters)", what, maxIDLength)
	}

	for _, r := range value {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(code, "%s contains invalid characters", what)
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return New(code, "%s contains invalid characters: %q", what, pattern)
		}
	}

	return nil
}

// ValidateWidgetID validates a widget instance identifier received from a
// caller (CLI argument or URL segment).
func ValidateWidgetID(id string) error {
	return validateIdentifier(ErrCodeInvalidInput, "widget id", id)
}

// dashboardIDRegex matches dashboard names usable as storage key segments.
var dashboardIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateDashboardID validates a dashboard name.
func ValidateDashboardID(id string) error {
	if err := validateIdentifier(ErrCodeInvalidInput, "dashboard id", id); err != nil {
		return err
	}

	if !dashboardIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid dashboard id: %q", id)
	}

	return nil
}

// kindRegex matches widget kind identifiers (camelCase or kebab-case).
var kindRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// ValidateKind validates a widget kind name.
func ValidateKind(kind string) error {
	if err := validateIdentifier(ErrCodeUnknownKind, "widget kind", kind); err != nil {
		return err
	}

	if !kindRegex.MatchString(kind) {
		return New(ErrCodeUnknownKind, "invalid widget kind: %q", kind)
	}

	return nil
}
