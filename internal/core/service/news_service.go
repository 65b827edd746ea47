package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/newsfeed/newsfeed-api/internal/api/metrics"
	"github.com/newsfeed/newsfeed-api/internal/core/ports"
)

type newsService struct {
	users    ports.UserRepository
	provider ports.NewsProvider
	cache    ports.NewsCache // nil disables caching
	log      zerolog.Logger
}

// NewNewsService returns a NewsService. cache may be nil.
func NewNewsService(users ports.UserRepository, provider ports.NewsProvider, cache ports.NewsCache, log zerolog.Logger) ports.NewsService {
	return &newsService{users: users, provider: provider, cache: cache, log: log}
}

// Personalized fetches news shaped by the preferences of userID.
func (s *newsService) Personalized(ctx context.Context, userID string) ([]byte, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("personalized news: %w", err)
	}

	prefs := user.Preferences
	q := ports.NewsQuery{
		Language:   prefs.Language,
		Region:     prefs.Region,
		Categories: prefs.Categories,
		Sources:    prefs.Sources,
	}
	key := q.CacheKey()

	// Cache failures are never fatal.
	if s.cache != nil {
		payload, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("user_id", userID).Msg("news cache read failed")
		case ok:
			metrics.NewsCacheTotal.WithLabelValues("hit").Inc()
			return payload, nil
		default:
			metrics.NewsCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	payload, err := s.provider.Fetch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("personalized news: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, payload); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("news cache write failed")
		}
	}
	return payload, nil
}
