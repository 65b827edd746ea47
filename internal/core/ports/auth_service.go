package ports

import (
	"context"

	"github.com/newsfeed/newsfeed-api/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to AuthService.Register.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput identifies a user by email or, when email is empty, by username.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (string, *domain.User, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	// Verify returns (false, nil) on mismatch. A non-nil error means the
	// comparison could not run at all.
	Verify(ctx context.Context, plaintext, digest string) (bool, error)
}

// TokenIssuer mints session tokens for an identity.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// TokenVerifier resolves a session token to the identity it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}
