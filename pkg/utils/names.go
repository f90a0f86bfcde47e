package utils

import "strings"

// SanitizeFileName replaces every character outside [A-Za-z0-9] with an
// underscore so that user-supplied names cannot traverse out of the image
// directory.
func SanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
}
