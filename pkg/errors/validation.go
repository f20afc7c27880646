package errors

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ValidateTitle validates a diagram title supplied through the API.
//
// The validation rules are intentionally conservative:
//   - Maximum length of 200 characters
//   - No control characters (newlines, null bytes)
//
// An empty title is allowed; callers fall back to a generated one.
func ValidateTitle(title string) error {
	if len(title) > 200 {
		return New(ErrCodeInvalidInput, "title too long (max 200 characters)")
	}
	for _, r := range title {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "title contains invalid control characters")
		}
	}
	return nil
}

// ValidateDiagramID validates a stored diagram identifier.
// Identifiers are UUIDs generated by the store on insert.
func ValidateDiagramID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "diagram id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidID, err, "invalid diagram id %q", id)
	}
	return nil
}

// ValidatePath validates an output path given on the command line.
// It rejects null bytes, control characters and over-long paths.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") {
		return New(ErrCodeInvalidPath, "path must name a file, not a directory")
	}

	return nil
}
