package ports

import (
	"context"

	"github.com/newsfeed/newsfeed-api/internal/core/domain"
)

// UserRepository defines the persistence contract for identities.
type UserRepository interface {
	// Create inserts a new user. A uniqueness violation on email yields
	// domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// ExistsByUsernameAndEmail reports whether a user matches both fields.
	ExistsByUsernameAndEmail(ctx context.Context, username, email string) (bool, error)

	// UpdatePreferences atomically merges patch into the stored preferences
	// of user id and returns the updated user.
	UpdatePreferences(ctx context.Context, id string, patch domain.PreferencesPatch) (*domain.User, error)
}
