package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/newsfeed/newsfeed-api/internal/api/metrics"
	"github.com/newsfeed/newsfeed-api/internal/core/domain"
	"github.com/newsfeed/newsfeed-api/internal/core/ports"
)

type preferenceService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

// NewPreferenceService returns a PreferenceService implementation.
func NewPreferenceService(repo ports.UserRepository, log zerolog.Logger) ports.PreferenceService {
	return &preferenceService{repo: repo, log: log}
}

// Get returns the full preferences of userID.
func (s *preferenceService) Get(ctx context.Context, userID string) (domain.Preferences, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("get preferences: %w", err)
	}
	return user.Preferences, nil
}

// Update validates patch and merges it into the stored preferences.
func (s *preferenceService) Update(ctx context.Context, userID string, patch domain.PreferencesPatch) (domain.Preferences, error) {
	patch = patch.Normalized()
	if err := patch.Validate(); err != nil {
		metrics.PreferenceUpdatesTotal.WithLabelValues("invalid").Inc()
		return domain.Preferences{}, err
	}

	user, err := s.repo.UpdatePreferences(ctx, userID, patch)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.PreferenceUpdatesTotal.WithLabelValues("not_found").Inc()
		} else {
			metrics.PreferenceUpdatesTotal.WithLabelValues("error").Inc()
		}
		return domain.Preferences{}, fmt.Errorf("update preferences: %w", err)
	}

	metrics.PreferenceUpdatesTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", userID).Msg("preferences updated")
	return user.Preferences, nil
}
