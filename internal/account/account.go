// Package account normalizes Snowflake account identifiers. Students paste
// all sorts of things into the account field: the bare identifier, the full
// hostname, or the whole registration URL. Extract accepts any of these and
// returns the identifier Snowflake expects.
package account

import (
	"regexp"
	"strings"
)

var (
	urlHostPattern    = regexp.MustCompile(`(?:https?|snowflake)://([^/]+)`)
	computingSuffix   = regexp.MustCompile(`\.snowflakecomputing\.com.*$`)
	accountAWSPattern = regexp.MustCompile(`^([a-zA-Z0-9]+(?:-[a-zA-Z0-9]+)?(?:\.[a-zA-Z0-9-]+)*\.aws)$`)
	accountPattern    = regexp.MustCompile(`^([a-zA-Z0-9]+(?:-[a-zA-Z0-9]+)?)$`)
	validPattern      = regexp.MustCompile(`^[a-zA-Z0-9]+(?:-[a-zA-Z0-9]+)?(?:\.aws)?$`)
)

// Extract pulls the account identifier out of whatever the student pasted.
//
//	jdehewj-vmb00970                                  -> jdehewj-vmb00970
//	jhkfheg-qb43765.snowflakecomputing.com            -> jhkfheg-qb43765
//	https://jhkfheg-qb43765.snowflakecomputing.com/…  -> jhkfheg-qb43765
//	jdehewj-vmb00970.aws                              -> jdehewj-vmb00970.aws
//
// Input that matches no known shape is returned unchanged so the validation
// step can report it.
func Extract(raw string) string {
	input := strings.TrimSpace(raw)
	if input == "" {
		return raw
	}

	// Full URL: take just the host
	if strings.HasPrefix(input, "http://") ||
		strings.HasPrefix(input, "https://") ||
		strings.HasPrefix(input, "snowflake://") {
		if m := urlHostPattern.FindStringSubmatch(input); m != nil {
			input = m[1]
		}
	}

	input = computingSuffix.ReplaceAllString(input, "")

	// Try the .aws form first, then the plain identifier
	if m := accountAWSPattern.FindStringSubmatch(input); m != nil {
		return m[1]
	}
	if m := accountPattern.FindStringSubmatch(input); m != nil {
		return m[1]
	}

	return raw
}

// IsValid reports whether the account looks like a Snowflake account
// identifier (e.g. frgcsyo-ie17820 or frgcsyo-ie17820.aws).
func IsValid(acct string) bool {
	if strings.TrimSpace(acct) == "" {
		return false
	}
	return validPattern.MatchString(acct)
}
