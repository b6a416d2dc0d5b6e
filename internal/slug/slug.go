package slug

import "strings"

const trailingTrim = 5

// Compute derives the blog slug from a request path. The leading character is
// dropped, path separators become dashes, and the last five bytes are cut.
// Values shorter than five bytes after substitution clamp to "".
func Compute(path string) string {
	if len(path) <= 1 {
		return ""
	}

	slug := strings.ReplaceAll(path[1:], "/", "-")
	if len(slug) < trailingTrim {
		return ""
	}

	return slug[:len(slug)-trailingTrim]
}
