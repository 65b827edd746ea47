package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/newsfeed/newsfeed-api/internal/core/domain"
	"github.com/newsfeed/newsfeed-api/internal/core/ports"
)

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

var _ ports.UserRepository = (*UserRepository)(nil)

type mongoPreferences struct {
	Categories       []string `bson:"categories"`
	Sources          []string `bson:"sources"`
	Language         string   `bson:"language"`
	Region           string   `bson:"region"`
	ReadingFrequency string   `bson:"reading_frequency"`
	// nil for documents written before the flag existed; read as true.
	TrendingPreference *bool `bson:"trending_preference,omitempty"`
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Preferences  mongoPreferences   `bson:"preferences"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func toMongoUser(u *domain.User) mongoUser {
	trending := u.Preferences.TrendingPreference
	return mongoUser{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Preferences: mongoPreferences{
			Categories:         nonNil(u.Preferences.Categories),
			Sources:            nonNil(u.Preferences.Sources),
			Language:           u.Preferences.Language,
			Region:             u.Preferences.Region,
			ReadingFrequency:   string(u.Preferences.ReadingFrequency),
			TrendingPreference: &trending,
		},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (m mongoUser) toDomain() *domain.User {
	trending := true
	if m.Preferences.TrendingPreference != nil {
		trending = *m.Preferences.TrendingPreference
	}
	prefs := domain.Preferences{
		Categories:         m.Preferences.Categories,
		Sources:            m.Preferences.Sources,
		Language:           m.Preferences.Language,
		Region:             m.Preferences.Region,
		ReadingFrequency:   domain.ReadingFrequency(m.Preferences.ReadingFrequency),
		TrendingPreference: trending,
	}
	return &domain.User{
		ID:           m.ID.Hex(),
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Preferences:  prefs.WithDefaults(),
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

// Create inserts user and returns it with the generated ID. A unique index
// violation on email is reported as domain.ErrUserExists.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoUser(user)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// ExistsByUsernameAndEmail reports whether a user matches both fields.
func (r *UserRepository) ExistsByUsernameAndEmail(ctx context.Context, username, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"username": username, "email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

// UpdatePreferences sets only the fields present in patch and returns the
// updated user. Concurrent patches touching different fields do not clobber
// each other.
func (r *UserRepository) UpdatePreferences(ctx context.Context, id string, patch domain.PreferencesPatch) (*domain.User, error) {
	patch = patch.Normalized()
	if patch.IsEmpty() {
		return r.FindByID(ctx, id)
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Categories != nil {
		set["preferences.categories"] = nonNil(*patch.Categories)
	}
	if patch.Sources != nil {
		set["preferences.sources"] = nonNil(*patch.Sources)
	}
	if patch.Language != nil {
		set["preferences.language"] = *patch.Language
	}
	if patch.Region != nil {
		set["preferences.region"] = *patch.Region
	}
	if patch.ReadingFrequency != nil {
		set["preferences.reading_frequency"] = string(*patch.ReadingFrequency)
	}
	if patch.TrendingPreference != nil {
		set["preferences.trending_preference"] = *patch.TrendingPreference
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoUser
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update preferences: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the unique email index that backs duplicate
// detection, plus a lookup index on username.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
		{Keys: bson.D{{Key: "username", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoUser
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
