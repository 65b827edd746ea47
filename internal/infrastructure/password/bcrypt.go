// Package password hashes and verifies user passwords with bcrypt.
package password

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/newsfeed/newsfeed-api/internal/core/domain"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

// Bcrypt is a synchronous bcrypt PasswordHasher.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a Bcrypt hasher. A cost outside bcrypt's accepted range
// falls back to DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash returns a salted bcrypt digest of plaintext.
func (b *Bcrypt) Hash(_ context.Context, plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrHashing, err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches digest. Malformed digests simply
// do not match.
func (b *Bcrypt) Verify(_ context.Context, plaintext, digest string) (bool, error) {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil, nil
}
