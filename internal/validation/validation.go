// Package validation holds the stateless format checks shared by the customer
// and merchant signup flows. Every check returns a plain boolean; callers own
// the user-facing message.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultCountryPrefix replaces the leading "0" of a local phone number.
const DefaultCountryPrefix = "+254"

// MinUsernameLength is the shortest accepted username, in characters.
const MinUsernameLength = 4

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 8

// MaxPasswordLength is the longest accepted password. bcrypt ignores input past
// 72 bytes and the password charset is ASCII, so bytes and characters agree.
const MaxPasswordLength = 72

// PasswordSymbols is the fixed set of symbols a password may (and must) draw from.
const PasswordSymbols = "@$!%*?&"

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

	// RE2 has no lookahead, so the character classes are checked one by one.
	passwordCharset = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]+$`)
	passwordLower   = regexp.MustCompile(`[a-z]`)
	passwordUpper   = regexp.MustCompile(`[A-Z]`)
	passwordDigit   = regexp.MustCompile(`\d`)
	passwordSymbol  = regexp.MustCompile(`[@$!%*?&]`)

	localPhonePattern         = regexp.MustCompile(`^07\d{8}$`)
	internationalPhonePattern = regexp.MustCompile(`^\+\d{9,15}$`)
)

// ValidateEmail reports whether s has a local@domain.tld shape.
func ValidateEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidatePassword reports whether s is MinPasswordLength to MaxPasswordLength
// characters of letters, digits and PasswordSymbols, containing at least one of each of
// lowercase, uppercase, digit and symbol.
func ValidatePassword(s string) bool {
	if len(s) < MinPasswordLength || len(s) > MaxPasswordLength || !passwordCharset.MatchString(s) {
		return false
	}
	return passwordLower.MatchString(s) &&
		passwordUpper.MatchString(s) &&
		passwordDigit.MatchString(s) &&
		passwordSymbol.MatchString(s)
}

// ValidatePhone reports whether s is a local mobile number: "07" followed by
// exactly eight digits.
func ValidatePhone(s string) bool {
	return localPhonePattern.MatchString(s)
}

// NormalizePhone rewrites a local number accepted by ValidatePhone into its
// international form by swapping the leading "0" for prefix. An empty prefix
// means DefaultCountryPrefix. Input that is not a valid local number is
// returned unchanged.
func NormalizePhone(s, prefix string) string {
	if !ValidatePhone(s) {
		return s
	}
	if prefix == "" {
		prefix = DefaultCountryPrefix
	}
	return prefix + s[1:]
}

// IsInternationalPhone reports whether s already looks like a normalized number.
func IsInternationalPhone(s string) bool {
	return internationalPhonePattern.MatchString(s)
}

// ValidateUsername reports whether s has at least MinUsernameLength characters
// once surrounding whitespace is removed.
func ValidateUsername(s string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) >= MinUsernameLength
}

// ParseConsent coerces a checkbox-style form value to a boolean. ok is false
// when the value is not recognizable as a boolean.
func ParseConsent(s string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "on", "yes", "y":
		return true, true
	case "false", "0", "off", "no", "n":
		return false, true
	default:
		return false, false
	}
}

// Blank reports whether s is empty or only whitespace.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
