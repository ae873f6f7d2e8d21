package errors

import (
	"strings"
	"unicode"
)

// maxAlgorithmNameLength bounds algorithm names, which double as file names.
const maxAlgorithmNameLength = 128

// ValidateAlgorithmName validates an algorithm (tool) name.
//
// Algorithm names identify result files on disk (<name>.json), so the rules
// reject anything that would escape the results directory or collide with
// the reserved files written next to them:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators
//   - No leading "." or "_" (hidden files and _graph/_summary outputs)
//   - No ".full" suffix (reserved for unfiltered dumps)
//   - Maximum length of 128 characters
func ValidateAlgorithmName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidAlgorithm, "algorithm name cannot be empty")
	}

	if len(name) > maxAlgorithmNameLength {
		return New(ErrCodeInvalidAlgorithm, "algorithm name too long (max %d characters)", maxAlgorithmNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidAlgorithm, "algorithm name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidAlgorithm, "algorithm name cannot contain path separators: %q", name)
	}

	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return New(ErrCodeInvalidAlgorithm, "algorithm name cannot start with %q: %q", name[:1], name)
	}

	if strings.HasSuffix(name, ".full") {
		return New(ErrCodeInvalidAlgorithm, "algorithm name cannot end with .full: %q", name)
	}

	return nil
}
