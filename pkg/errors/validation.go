package errors

import (
	"strings"
	"unicode"
)

// maxQueryLength bounds search queries accepted from users.
const maxQueryLength = 1024

// ValidateQuery validates a dotted search path for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only queries
//   - No control characters
//   - Maximum length of 1024 characters
//
// Segment parsing is done separately by the search package.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return New(ErrCodeInvalidQuery, "search query cannot be empty")
	}

	if len(query) > maxQueryLength {
		return New(ErrCodeInvalidQuery, "search query too long (max %d characters)", maxQueryLength)
	}

	for _, r := range query {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidQuery, "search query contains invalid control characters")
		}
	}

	return nil
}

// ValidateInput checks that raw input text is present before it is parsed.
// The message matches the prompt shown by the explorer and the API.
func ValidateInput(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeEmptyInput, "Please enter JSON data")
	}
	return nil
}

// ValidatePath validates a local file path supplied on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	return nil
}
