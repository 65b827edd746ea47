//go:build integration

package mongo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/newsfeed/newsfeed-api/internal/core/domain"
)

func setupRepo(t *testing.T) (*UserRepository, *mongo.Database) {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcmongo.Run(ctx, "mongo:7")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)

	client, db, err := Connect(ctx, Config{URI: uri, Database: "newsfeed_test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Disconnect(context.Background(), client) })

	repo := NewUserRepository(db)
	require.NoError(t, repo.EnsureIndexes(ctx))
	return repo, db
}

func newUser(username, email string) *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Preferences:  domain.DefaultPreferences(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newUser("ana", "ana@x.com"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", byID.Email)
	assert.Equal(t, domain.DefaultPreferences(), byID.Preferences)

	byName, err := repo.FindByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = repo.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = repo.FindByID(ctx, "not-an-object-id")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_UniqueEmail(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, newUser("ana", "ana@x.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newUser("other", "ana@x.com"))
	assert.ErrorIs(t, err, domain.ErrUserExists)

	exists, err := repo.ExistsByUsernameAndEmail(ctx, "ana", "ana@x.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsernameAndEmail(ctx, "other", "ana@x.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_ConcurrentCreate(t *testing.T) {
	repo, _ := setupRepo(t)

	const n = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(context.Background(), newUser("race", "race@x.com"))
			if err != nil && !errors.Is(err, domain.ErrUserExists) {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}

func TestUserRepository_UpdatePreferences(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newUser("ana", "ana@x.com"))
	require.NoError(t, err)

	off := false
	got, err := repo.UpdatePreferences(ctx, created.ID, domain.PreferencesPatch{TrendingPreference: &off})
	require.NoError(t, err)

	want := domain.DefaultPreferences()
	want.TrendingPreference = false
	assert.Equal(t, want, got.Preferences)

	cats := []string{"tech"}
	got, err = repo.UpdatePreferences(ctx, created.ID, domain.PreferencesPatch{Categories: &cats})
	require.NoError(t, err)
	assert.Equal(t, []string{"tech"}, got.Preferences.Categories)
	assert.False(t, got.Preferences.TrendingPreference)

	unchanged, err := repo.UpdatePreferences(ctx, created.ID, domain.PreferencesPatch{})
	require.NoError(t, err)
	assert.Equal(t, got.Preferences, unchanged.Preferences)

	_, err = repo.UpdatePreferences(ctx, "64b000000000000000000000", domain.PreferencesPatch{TrendingPreference: &off})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_LegacyDocumentDefaults(t *testing.T) {
	repo, db := setupRepo(t)
	ctx := context.Background()

	res, err := db.Collection(collectionUsers).InsertOne(ctx, bson.M{
		"username":      "legacy",
		"email":         "legacy@x.com",
		"password_hash": "$2a$10$hash",
		"preferences":   bson.M{"language": "fr"},
	})
	require.NoError(t, err)

	u, err := repo.FindByEmail(ctx, "legacy@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, res.InsertedID)
	assert.Equal(t, "fr", u.Preferences.Language)
	assert.Equal(t, "global", u.Preferences.Region)
	assert.Equal(t, domain.FrequencyDaily, u.Preferences.ReadingFrequency)
	assert.True(t, u.Preferences.TrendingPreference)
	assert.Equal(t, []string{}, u.Preferences.Categories)
}
