package db

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexDefinition represents a MongoDB index
type IndexDefinition struct {
	Collection string
	Name       string
	Keys       bson.D
	Options    *options.IndexOptions
}

// GetAllIndexes returns the index definitions backing the matchmaking,
// lobby, chat and notification collections.
func GetAllIndexes() []IndexDefinition {
	return []IndexDefinition{
		// Match Requests
		{
			Collection: "match_requests",
			Name:       "idx_requests_status_created",
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index(),
		},
		{
			Collection: "match_requests",
			Name:       "idx_requests_user_status",
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index(),
		},
		{
			Collection: "match_requests",
			Name:       "idx_requests_game_mode_region_tier",
			Keys: bson.D{
				{Key: "criteria.game_id", Value: 1},
				{Key: "criteria.mode", Value: 1},
				{Key: "criteria.region", Value: 1},
				{Key: "criteria.skill_tier", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index(),
		},
		{
			Collection: "match_requests",
			Name:       "idx_requests_expires_at",
			Keys: bson.D{
				{Key: "expires_at", Value: 1},
			},
			Options: options.Index().SetExpireAfterSeconds(0),
		},

		// Lobbies
		{
			Collection: "lobbies",
			Name:       "idx_lobbies_status",
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index(),
		},
		{
			Collection: "lobbies",
			Name:       "idx_lobbies_member_user_id",
			Keys: bson.D{
				{Key: "members.user_id", Value: 1},
			},
			Options: options.Index(),
		},
		{
			Collection: "lobbies",
			Name:       "idx_lobbies_game_region_tier",
			Keys: bson.D{
				{Key: "game_id", Value: 1},
				{Key: "region", Value: 1},
				{Key: "tier", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index(),
		},

		// Chat messages
		{
			Collection: "chat_messages",
			Name:       "idx_chat_lobby_sent_at",
			Keys: bson.D{
				{Key: "lobby_id", Value: 1},
				{Key: "sent_at", Value: -1},
			},
			Options: options.Index(),
		},

		// Notifications
		{
			Collection: "notifications",
			Name:       "idx_notifications_recipient_status_created",
			Keys: bson.D{
				{Key: "recipient_id", Value: 1},
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index(),
		},
	}
}

// CreateIndexes creates all indexes for the database
func CreateIndexes(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	indexes := GetAllIndexes()

	slog.InfoContext(ctx, "Creating MongoDB indexes", "total_indexes", len(indexes))

	successCount := 0
	errorCount := 0

	for _, idx := range indexes {
		collection := db.Collection(idx.Collection)

		model := mongo.IndexModel{
			Keys:    idx.Keys,
			Options: idx.Options.SetName(idx.Name),
		}

		indexName, err := collection.Indexes().CreateOne(ctx, model)
		if err != nil {
			// Check if it's a "duplicate key" error (index already exists)
			if mongo.IsDuplicateKeyError(err) {
				slog.WarnContext(ctx, "Index already exists",
					"collection", idx.Collection,
					"index", idx.Name)
				successCount++
				continue
			}

			slog.ErrorContext(ctx, "Failed to create index",
				"collection", idx.Collection,
				"index", idx.Name,
				"error", err)
			errorCount++
			continue
		}

		slog.InfoContext(ctx, "Created index",
			"collection", idx.Collection,
			"index", indexName)
		successCount++
	}

	slog.InfoContext(ctx, "Index creation complete",
		"success", successCount,
		"errors", errorCount,
		"total", len(indexes))

	if errorCount > 0 {
		return fmt.Errorf("failed to create %d indexes", errorCount)
	}

	return nil
}

// DropAllIndexes drops all custom indexes (keeps _id index)
func DropAllIndexes(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	indexes := GetAllIndexes()

	slog.InfoContext(ctx, "Dropping MongoDB indexes", "total_indexes", len(indexes))

	successCount := 0
	errorCount := 0

	for _, idx := range indexes {
		collection := db.Collection(idx.Collection)

		_, err := collection.Indexes().DropOne(ctx, idx.Name)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to drop index",
				"collection", idx.Collection,
				"index", idx.Name,
				"error", err)
			errorCount++
			continue
		}

		slog.InfoContext(ctx, "Dropped index",
			"collection", idx.Collection,
			"index", idx.Name)
		successCount++
	}

	slog.InfoContext(ctx, "Index drop complete",
		"success", successCount,
		"errors", errorCount,
		"total", len(indexes))

	if errorCount > 0 {
		return fmt.Errorf("failed to drop %d indexes", errorCount)
	}

	return nil
}

// ListIndexes lists all indexes in a collection
func ListIndexes(ctx context.Context, client *mongo.Client, dbName, collectionName string) ([]bson.M, error) {
	collection := client.Database(dbName).Collection(collectionName)
	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes: %w", err)
	}
	defer cursor.Close(ctx)

	var indexes []bson.M
	if err := cursor.All(ctx, &indexes); err != nil {
		return nil, fmt.Errorf("failed to decode indexes: %w", err)
	}

	return indexes, nil
}
