package domain

import (
	"regexp"
	"strings"
	"time"
)

// MinPasswordLength is the minimum number of characters accepted at signup.
const MinPasswordLength = 8

// MaxPasswordBytes is the longest password bcrypt can digest.
const MaxPasswordBytes = 72

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User models a registered identity: credentials plus its embedded preferences.
type User struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Preferences  Preferences `json:"preferences"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// ValidEmail reports whether s has the shape local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// NormalizeEmail trims and lower-cases an address so lookups and the unique
// index agree on identity.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
