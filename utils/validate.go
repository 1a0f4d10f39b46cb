package utils

import "regexp"

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Password must be at least 6 characters with upper, lower, digit and a
	// special character.
	passwordRegexes = []*regexp.Regexp{
		regexp.MustCompile(`[a-z]`),
		regexp.MustCompile(`[A-Z]`),
		regexp.MustCompile(`\d`),
		regexp.MustCompile(`[@$!%*?&]`),
		regexp.MustCompile(`^[A-Za-z\d@$!%*?&]{6,}$`),
	}
)

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// IsStrongPassword reports whether s satisfies the password policy.
func IsStrongPassword(s string) bool {
	for _, re := range passwordRegexes {
		if !re.MatchString(s) {
			return false
		}
	}
	return true
}

// MissingFields returns the names from required whose value in fields is
// empty.
func MissingFields(fields map[string]string, required ...string) []string {
	var missing []string
	for _, name := range required {
		if fields[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// UniqueStrings returns values with duplicates removed, order preserved.
func UniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
