package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateSourceURI validates a dataset location. Accepted forms are a
// plain file path, file://, http(s):// and mongodb(+srv)://.
func ValidateSourceURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidInput, "dataset location cannot be empty")
	}
	for _, r := range uri {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "dataset location contains invalid characters")
		}
	}

	scheme, _, ok := strings.Cut(uri, "://")
	if !ok {
		return nil
	}
	switch scheme {
	case "file", "http", "https", "mongodb", "mongodb+srv":
	default:
		return New(ErrCodeUnsupported, "unsupported dataset scheme %q", scheme)
	}
	if _, err := url.Parse(uri); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "malformed dataset location")
	}
	return nil
}

// ValidateAttributeName validates a node attribute name used by filters.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 64 characters
//   - Letters, digits, '_', '-' and '.' only
func ValidateAttributeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidAttribute, "attribute name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidAttribute, "attribute name too long (max 64 characters)")
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune("_-.", r) {
			return New(ErrCodeInvalidAttribute, "attribute name contains invalid character %q", r)
		}
	}
	return nil
}
