// Package identifier validates and normalizes externally supplied
// principal identifiers. Validation is pure and runs before any store
// access so malformed input never reaches the database.
package identifier

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/spec-kit/identity-service/internal/domain"
)

var (
	// Staff ids follow the tenant convention of a two-letter prefix
	// followed by at least three digits, e.g. SC001.
	staffIDPattern = regexp.MustCompile(`^[A-Z]{2}\d{3,}$`)

	// Youth ids are a looser alphanumeric namespace, e.g. YT999.
	youthIDPattern = regexp.MustCompile(`^[A-Z0-9]{3,16}$`)
)

// Normalize trims surrounding whitespace and uppercases the identifier.
// Normalization happens before validation and lookup for both classes.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Validate checks a normalized identifier against the pattern for its
// principal class. Returns domain.ErrInvalidFormat on mismatch.
func Validate(id string, class domain.PrincipalClass) error {
	pattern := youthIDPattern
	if class == domain.PrincipalStaff {
		pattern = staffIDPattern
	}
	if err := validation.Validate(id,
		validation.Required,
		validation.Match(pattern),
	); err != nil {
		return domain.ErrInvalidFormat
	}
	return nil
}
