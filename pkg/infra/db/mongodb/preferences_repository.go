package db

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
	"github.com/matchforge/platform/pkg/infra/metrics"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const preferencesCollection = "notification_preferences"

// PreferencesRepository persists per-user notification channel
// preferences, one document per user keyed by user_id.
type PreferencesRepository struct {
	collection *mongo.Collection
}

func NewPreferencesRepository(client *mongo.Client, dbName string) *PreferencesRepository {
	return &PreferencesRepository{collection: client.Database(dbName).Collection(preferencesCollection)}
}

// Get returns the zero-value preferences (ByType == nil) when the user has
// never saved any, letting the caller fall back to defaults.
func (r *PreferencesRepository) Get(ctx context.Context, userID uuid.UUID) (matchmaking_entities.NotificationPreferences, error) {
	var prefs matchmaking_entities.NotificationPreferences
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&prefs)
	if err == mongo.ErrNoDocuments {
		return matchmaking_entities.NotificationPreferences{}, nil
	}
	if err != nil {
		return matchmaking_entities.NotificationPreferences{}, err
	}
	return prefs, nil
}

func (r *PreferencesRepository) Put(ctx context.Context, prefs matchmaking_entities.NotificationPreferences) error {
	opts := options.Replace().SetUpsert(true)
	start := time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"user_id": prefs.UserID}, prefs, opts)
	metrics.RecordDBOperation("replace", preferencesCollection, time.Since(start))
	if err != nil {
		slog.ErrorContext(ctx, "failed to save notification preferences", "error", err, "user_id", prefs.UserID)
	}
	return err
}
