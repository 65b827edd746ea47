package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/newsfeed/newsfeed-api/internal/core/domain"
	"github.com/newsfeed/newsfeed-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubProvider struct {
	payload []byte
	err     error
	calls   int
	lastQ   ports.NewsQuery
}

func (p *stubProvider) Fetch(_ context.Context, q ports.NewsQuery) ([]byte, error) {
	p.calls++
	p.lastQ = q
	return p.payload, p.err
}

type stubCache struct {
	entries map[string][]byte
	getErr  error
	setErr  error
}

func newStubCache() *stubCache { return &stubCache{entries: make(map[string][]byte)} }

func (c *stubCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *stubCache) Set(_ context.Context, key string, payload []byte) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = payload
	return nil
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestNewsService_UsesPreferences(t *testing.T) {
	repo, id := seededUserRepo(t)
	cats := []string{"science"}
	if _, err := repo.UpdatePreferences(context.Background(), id, domain.PreferencesPatch{Categories: &cats}); err != nil {
		t.Fatalf("seed prefs: %v", err)
	}
	provider := &stubProvider{payload: []byte(`{"articles":[]}`)}

	svc := NewNewsService(repo, provider, nil, zerolog.Nop())
	got, err := svc.Personalized(context.Background(), id)
	if err != nil {
		t.Fatalf("Personalized error: %v", err)
	}
	if string(got) != `{"articles":[]}` {
		t.Fatalf("unexpected payload: %s", got)
	}
	if provider.lastQ.Language != "en" || provider.lastQ.Region != "global" || len(provider.lastQ.Categories) != 1 {
		t.Fatalf("unexpected query: %+v", provider.lastQ)
	}
}

func TestNewsService_CachesPayload(t *testing.T) {
	repo, id := seededUserRepo(t)
	provider := &stubProvider{payload: []byte(`{"n":1}`)}
	cache := newStubCache()

	svc := NewNewsService(repo, provider, cache, zerolog.Nop())
	for i := 0; i < 3; i++ {
		if _, err := svc.Personalized(context.Background(), id); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if provider.calls != 1 {
		t.Fatalf("expected one upstream call, got %d", provider.calls)
	}
}

func TestNewsService_CacheErrorsAreNotFatal(t *testing.T) {
	repo, id := seededUserRepo(t)
	provider := &stubProvider{payload: []byte(`{}`)}
	cache := &stubCache{getErr: errors.New("redis down"), setErr: errors.New("redis down")}

	svc := NewNewsService(repo, provider, cache, zerolog.Nop())
	if _, err := svc.Personalized(context.Background(), id); err != nil {
		t.Fatalf("expected cache failure to be ignored, got %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("expected upstream call, got %d", provider.calls)
	}
}

func TestNewsService_UserNotFound(t *testing.T) {
	provider := &stubProvider{}
	svc := NewNewsService(newStubUserRepo(), provider, nil, zerolog.Nop())

	if _, err := svc.Personalized(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if provider.calls != 0 {
		t.Fatalf("provider must not be called for unknown user")
	}
}

func TestNewsService_UpstreamFailure(t *testing.T) {
	repo, id := seededUserRepo(t)
	provider := &stubProvider{err: domain.ErrNewsUnavailable}
	cache := newStubCache()

	svc := NewNewsService(repo, provider, cache, zerolog.Nop())
	if _, err := svc.Personalized(context.Background(), id); !errors.Is(err, domain.ErrNewsUnavailable) {
		t.Fatalf("expected ErrNewsUnavailable, got %v", err)
	}
	if len(cache.entries) != 0 {
		t.Fatalf("failures must not be cached")
	}
}
