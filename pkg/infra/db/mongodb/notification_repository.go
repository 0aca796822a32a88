package db

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
	matchmaking_out "github.com/matchforge/platform/pkg/domain/matchmaking/ports/out"
	"github.com/matchforge/platform/pkg/infra/metrics"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const notificationsCollection = "notifications"

// NotificationRepository persists Notification records directly against
// the mongo driver.
type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(client *mongo.Client, dbName string) *NotificationRepository {
	return &NotificationRepository{collection: client.Database(dbName).Collection(notificationsCollection)}
}

func (r *NotificationRepository) Create(ctx context.Context, n *matchmaking_entities.Notification) (*matchmaking_entities.Notification, error) {
	start := time.Now()
	_, err := r.collection.InsertOne(ctx, n)
	metrics.RecordDBOperation("insert", notificationsCollection, time.Since(start))
	if err != nil {
		slog.ErrorContext(ctx, "failed to insert notification", "error", err, "notification_id", n.ID)
		return nil, err
	}
	return n, nil
}

func (r *NotificationRepository) Update(ctx context.Context, n *matchmaking_entities.Notification) (*matchmaking_entities.Notification, error) {
	opts := options.Replace().SetUpsert(false)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": n.ID}, n, opts); err != nil {
		slog.ErrorContext(ctx, "failed to update notification", "error", err, "notification_id", n.ID)
		return nil, err
	}
	return n, nil
}

func (r *NotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*matchmaking_entities.Notification, error) {
	var n matchmaking_entities.Notification
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) List(ctx context.Context, userID uuid.UUID, filter matchmaking_out.NotificationFilter, page matchmaking_entities.PageRequest) ([]*matchmaking_entities.Notification, int64, error) {
	query := bson.M{"recipient_id": userID}
	switch filter.Status {
	case "read":
		query["read"] = true
	case "unread":
		query["read"] = false
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var notifications []*matchmaking_entities.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"recipient_id": userID, "read": false})
}

func (r *NotificationRepository) MarkManyRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, now time.Time) error {
	filter := bson.M{"recipient_id": userID, "_id": bson.M{"$in": ids}}
	update := bson.M{"$set": bson.M{"read": true, "read_at": now, "updated_at": now}}
	_, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		slog.ErrorContext(ctx, "failed to mark notifications read", "error", err, "user_id", userID)
	}
	return err
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, now time.Time) error {
	filter := bson.M{"recipient_id": userID, "read": false}
	update := bson.M{"$set": bson.M{"read": true, "read_at": now, "updated_at": now}}
	_, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		slog.ErrorContext(ctx, "failed to mark all notifications read", "error", err, "user_id", userID)
	}
	return err
}

func (r *NotificationRepository) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "recipient_id": userID})
	return err
}

// Sweep deletes expired notifications, returning the count removed
// (spec §4.H retention job).
func (r *NotificationRepository) Sweep(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$ne": nil, "$lt": olderThan}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
