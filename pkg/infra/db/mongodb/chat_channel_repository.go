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

const chatChannelsCollection = "chat_channels"

// ChatChannelRepository persists ChatChannel aggregates directly against
// the mongo driver. Each channel is 1:1 with a Lobby, so its message log
// is stored inline rather than in a separate collection.
type ChatChannelRepository struct {
	collection *mongo.Collection
}

func NewChatChannelRepository(client *mongo.Client, dbName string) *ChatChannelRepository {
	return &ChatChannelRepository{collection: client.Database(dbName).Collection(chatChannelsCollection)}
}

func (r *ChatChannelRepository) Create(ctx context.Context, channel *matchmaking_entities.ChatChannel) (*matchmaking_entities.ChatChannel, error) {
	start := time.Now()
	_, err := r.collection.InsertOne(ctx, channel)
	metrics.RecordDBOperation("insert", chatChannelsCollection, time.Since(start))
	if err != nil {
		slog.ErrorContext(ctx, "failed to insert chat channel", "error", err, "lobby_id", channel.LobbyID)
		return nil, err
	}
	return channel, nil
}

func (r *ChatChannelRepository) Update(ctx context.Context, channel *matchmaking_entities.ChatChannel) (*matchmaking_entities.ChatChannel, error) {
	opts := options.Replace().SetUpsert(false)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": channel.ID}, channel, opts); err != nil {
		slog.ErrorContext(ctx, "failed to update chat channel", "error", err, "lobby_id", channel.LobbyID)
		return nil, err
	}
	return channel, nil
}

func (r *ChatChannelRepository) FindByLobbyID(ctx context.Context, lobbyID uuid.UUID) (*matchmaking_entities.ChatChannel, error) {
	var channel matchmaking_entities.ChatChannel
	err := r.collection.FindOne(ctx, bson.M{"lobby_id": lobbyID}).Decode(&channel)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &channel, nil
}
