package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashString creates a hex SHA-256 hash of the input string
func HashString(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// HashEmail hashes an email after trimming and lowercasing, the normalization
// ad platforms match on
func HashEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ""
	}
	return HashString(email)
}

// HashPhone hashes phone digits prefixed with the country code when missing
func HashPhone(digits, countryCode string) string {
	if digits == "" {
		return ""
	}
	if !strings.HasPrefix(digits, countryCode) || len(digits) <= 11 {
		digits = countryCode + digits
	}
	return HashString(digits)
}

// ShortHash is a truncated hash for correlating log lines without logging PII
func ShortHash(input string) string {
	return HashString(input)[:12]
}
