package ports

import (
	"context"

	"github.com/newsfeed/newsfeed-api/internal/core/domain"
)

type PreferenceService interface {
	Get(ctx context.Context, userID string) (domain.Preferences, error)
	Update(ctx context.Context, userID string, patch domain.PreferencesPatch) (domain.Preferences, error)
}
