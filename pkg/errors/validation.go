package errors

import (
	"regexp"
	"strings"
	"unicode"
)

const maxIDLength = 256

// ValidateLayerID validates a layer identifier. Layer IDs are opaque but
// travel through URLs, cache keys and store documents, so control
// characters and path separators are rejected.
func ValidateLayerID(id string) error {
	return validateIdentifier(ErrCodeInvalidLayer, "layer id", id)
}

// ValidateProjectID validates a project identifier. Project IDs become file
// names in the file store, so the rules are the same as for layer IDs.
func ValidateProjectID(id string) error {
	return validateIdentifier(ErrCodeInvalidInput, "project id", id)
}

func validateIdentifier(code Code, what, id string) error {
	if id == "" {
		return New(code, "%s cannot be empty", what)
	}
	if len(id) > maxIDLength {
		return New(code, "%s too long (max %d characters)", what, maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(code, "%s contains invalid control characters", what)
		}
	}
	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(id, pattern) {
			return New(code, "%s contains invalid characters: %q", what, pattern)
		}
	}
	return nil
}

// trackIDRegex matches track identifiers such as "V1", "A2" or "overlay-3".
var trackIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateTrackID validates a track identifier. Track IDs are stacking keys
// compared byte-wise, so only a conservative ASCII alphabet is accepted.
func ValidateTrackID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidLayer, "track id cannot be empty")
	}
	if len(id) > 64 {
		return New(ErrCodeInvalidLayer, "track id too long (max 64 characters)")
	}
	if !trackIDRegex.MatchString(id) {
		return New(ErrCodeInvalidLayer, "invalid track id: %q", id)
	}
	return nil
}

// ValidateSourceURL validates a media source address. Accepted forms are
// http(s) URLs, file:// URLs and relative or absolute file paths.
func ValidateSourceURL(raw string) error {
	if raw == "" {
		return New(ErrCodeInvalidInput, "source url cannot be empty")
	}
	for _, r := range raw {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "source url contains invalid characters")
		}
	}
	if i := strings.Index(raw, "://"); i >= 0 {
		switch raw[:i] {
		case "http", "https", "file":
		default:
			return New(ErrCodeInvalidInput, "source url must use http, https or file scheme")
		}
	}
	return nil
}

// ValidatePath validates a file path supplied by a client for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
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

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}
