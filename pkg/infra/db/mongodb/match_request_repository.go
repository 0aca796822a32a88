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

const matchRequestsCollection = "match_requests"

// MatchRequestRepository persists MatchRequest aggregates directly against
// the mongo driver, skipping the generic aggregation-pipeline search layer:
// every query here is a narrow, known shape (by id, by owner, by status).
type MatchRequestRepository struct {
	collection *mongo.Collection
}

func NewMatchRequestRepository(client *mongo.Client, dbName string) *MatchRequestRepository {
	return &MatchRequestRepository{collection: client.Database(dbName).Collection(matchRequestsCollection)}
}

func (r *MatchRequestRepository) Create(ctx context.Context, req *matchmaking_entities.MatchRequest) (*matchmaking_entities.MatchRequest, error) {
	start := time.Now()
	_, err := r.collection.InsertOne(ctx, req)
	metrics.RecordDBOperation("insert", matchRequestsCollection, time.Since(start))
	if err != nil {
		slog.ErrorContext(ctx, "failed to insert match request", "error", err, "request_id", req.ID)
		return nil, err
	}
	return req, nil
}

func (r *MatchRequestRepository) Update(ctx context.Context, req *matchmaking_entities.MatchRequest) (*matchmaking_entities.MatchRequest, error) {
	opts := options.Replace().SetUpsert(false)
	start := time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": req.ID}, req, opts)
	metrics.RecordDBOperation("replace", matchRequestsCollection, time.Since(start))
	if err != nil {
		slog.ErrorContext(ctx, "failed to update match request", "error", err, "request_id", req.ID)
		return nil, err
	}
	return req, nil
}

func (r *MatchRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*matchmaking_entities.MatchRequest, error) {
	var req matchmaking_entities.MatchRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// FindActiveByUserID enforces "at most one searching request per user" at
// the read path used by submit()'s duplicate check.
func (r *MatchRequestRepository) FindActiveByUserID(ctx context.Context, userID uuid.UUID) (*matchmaking_entities.MatchRequest, error) {
	var req matchmaking_entities.MatchRequest
	filter := bson.M{"owner_id": userID, "status": matchmaking_entities.RequestStatusSearching}
	err := r.collection.FindOne(ctx, filter).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *MatchRequestRepository) FindAllSearching(ctx context.Context) ([]*matchmaking_entities.MatchRequest, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"status": matchmaking_entities.RequestStatusSearching})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []*matchmaking_entities.MatchRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *MatchRequestRepository) FindHistory(ctx context.Context, userID uuid.UUID, filter matchmaking_entities.HistoryFilter, page matchmaking_entities.PageRequest) ([]*matchmaking_entities.MatchRequest, int64, error) {
	query := bson.M{"owner_id": userID}
	if filter.GameID != "" {
		query["primary_game_id"] = filter.GameID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "search_start_time", Value: -1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var requests []*matchmaking_entities.MatchRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}
