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

const lobbiesCollection = "lobbies"

// LobbyRepository persists Lobby aggregates directly against the mongo
// driver, skipping the generic aggregation-pipeline search layer: every
// query here is a narrow, known shape (by id, by member).
type LobbyRepository struct {
	collection *mongo.Collection
}

func NewLobbyRepository(client *mongo.Client, dbName string) *LobbyRepository {
	return &LobbyRepository{collection: client.Database(dbName).Collection(lobbiesCollection)}
}

func (r *LobbyRepository) Create(ctx context.Context, lobby *matchmaking_entities.Lobby) (*matchmaking_entities.Lobby, error) {
	start := time.Now()
	_, err := r.collection.InsertOne(ctx, lobby)
	metrics.RecordDBOperation("insert", lobbiesCollection, time.Since(start))
	if err != nil {
		slog.ErrorContext(ctx, "failed to insert lobby", "error", err, "lobby_id", lobby.ID)
		return nil, err
	}
	return lobby, nil
}

func (r *LobbyRepository) Update(ctx context.Context, lobby *matchmaking_entities.Lobby) (*matchmaking_entities.Lobby, error) {
	opts := options.Replace().SetUpsert(false)
	start := time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": lobby.ID}, lobby, opts)
	metrics.RecordDBOperation("replace", lobbiesCollection, time.Since(start))
	if err != nil {
		slog.ErrorContext(ctx, "failed to update lobby", "error", err, "lobby_id", lobby.ID)
		return nil, err
	}
	return lobby, nil
}

func (r *LobbyRepository) FindByID(ctx context.Context, id uuid.UUID) (*matchmaking_entities.Lobby, error) {
	var lobby matchmaking_entities.Lobby
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&lobby)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lobby, nil
}

// FindByMember lists lobbies userID belongs to: active ones always, plus
// closed ones formed at or after since when includeHistory is set
// (spec §4.F "lobby history").
func (r *LobbyRepository) FindByMember(ctx context.Context, userID uuid.UUID, includeHistory bool, since time.Time) ([]*matchmaking_entities.Lobby, error) {
	memberMatch := bson.M{"members": bson.M{"$elemMatch": bson.M{"user_id": userID}}}

	query := memberMatch
	if !includeHistory {
		query = bson.M{"$and": []bson.M{
			memberMatch,
			{"status": bson.M{"$ne": matchmaking_entities.LobbyStatusClosed}},
		}}
	} else if !since.IsZero() {
		query = bson.M{"$and": []bson.M{
			memberMatch,
			{"$or": []bson.M{
				{"status": bson.M{"$ne": matchmaking_entities.LobbyStatusClosed}},
				{"formed_at": bson.M{"$gte": since}},
			}},
		}}
	}

	opts := options.Find().SetSort(bson.D{{Key: "formed_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var lobbies []*matchmaking_entities.Lobby
	if err := cursor.All(ctx, &lobbies); err != nil {
		return nil, err
	}
	return lobbies, nil
}
