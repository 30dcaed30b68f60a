package validation

import (
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// EmailPattern accepts local@domain.tld: word characters, dots and hyphens in the local
	// part, one or more dot-terminated domain labels, and a 2-4 character TLD.
	EmailPattern = `^[\w\-.]+@([\w-]+\.)+[\w-]{2,4}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

// IsBasicEmail reports whether v is either empty or a well-formed address. Empty means
// "not set" for optional contact emails.
func IsBasicEmail(v string) bool {
	if v == "" {
		return true
	}
	return CompiledPatterns.Email.MatchString(v)
}

// NormalizeCode trims and uppercases a department or course code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
