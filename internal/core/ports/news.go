package ports

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// NewsQuery is the subset of preferences forwarded to the news provider.
type NewsQuery struct {
	Language   string
	Region     string
	Categories []string
	Sources    []string
}

// CacheKey returns a stable key for q. Fields are JSON-encoded before hashing
// so values containing separators cannot collide. A nil list and an empty one
// share a key.
func (q NewsQuery) CacheKey() string {
	raw, _ := json.Marshal([]any{q.Language, q.Region, orEmpty(q.Categories), orEmpty(q.Sources)})
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// NewsProvider fetches a raw JSON payload from the upstream news API.
type NewsProvider interface {
	Fetch(ctx context.Context, q NewsQuery) ([]byte, error)
}

// NewsCache stores upstream payloads keyed by NewsQuery.CacheKey.
type NewsCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
}

type NewsService interface {
	Personalized(ctx context.Context, userID string) ([]byte, error)
}
