package matchmaking_services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	common "github.com/matchforge/platform/pkg/domain"
	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
	matchmaking_out "github.com/matchforge/platform/pkg/domain/matchmaking/ports/out"
	metrics "github.com/matchforge/platform/pkg/infra/metrics"
)

// NotificationService implements component H: create, markRead,
// markAllRead, sweep (spec §4.H). Push/email delivery itself is bounded,
// retryable, and asynchronous — this service only resolves the channel
// set, persists the record, and enqueues; it never blocks the caller on
// delivery outcome (spec §5 "enqueue is always eventually successful").
type NotificationService struct {
	notifications matchmaking_out.NotificationRepository
	preferences   matchmaking_out.PreferencesRepository
	dispatcher    matchmaking_out.NotificationDispatcher
	publisher     matchmaking_out.EventPublisher
}

func NewNotificationService(
	notifications matchmaking_out.NotificationRepository,
	preferences matchmaking_out.PreferencesRepository,
	dispatcher matchmaking_out.NotificationDispatcher,
	publisher matchmaking_out.EventPublisher,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		preferences:   preferences,
		dispatcher:    dispatcher,
		publisher:     publisher,
	}
}

// Create implements create() (spec §4.H).
func (s *NotificationService) Create(ctx context.Context, recipientID uuid.UUID, intent matchmaking_entities.Intent) (*matchmaking_entities.Notification, error) {
	prefs, err := s.preferences.Get(ctx, recipientID)
	if err != nil {
		slog.WarnContext(ctx, "failed to load notification preferences, using defaults", "error", err, "user_id", recipientID)
		prefs = matchmaking_entities.DefaultPreferences(recipientID)
	}

	channels := prefs.ChannelsFor(intent.Type, intent.Priority)

	owner := common.GetResourceOwner(ctx)
	owner.UserID = recipientID
	notification := matchmaking_entities.NewNotification(owner, recipientID, intent, channels, time.Now().UTC())

	persisted, err := s.notifications.Create(ctx, notification)
	if err != nil {
		return nil, common.NewErrInternal(err)
	}
	metrics.RecordNotificationCreated(intent.Type, string(intent.Priority))

	if channels[matchmaking_entities.ChannelInApp] && s.publisher != nil {
		if err := s.publisher.PublishNotificationNew(ctx, recipientID, persisted); err != nil {
			slog.WarnContext(ctx, "failed to publish notification:new", "error", err, "user_id", recipientID)
		}
	}

	if channels[matchmaking_entities.ChannelPush] {
		if err := s.dispatcher.EnqueuePush(ctx, persisted.ID, recipientID, intent.Title, intent.Body); err != nil {
			slog.ErrorContext(ctx, "failed to enqueue push notification", "error", err, "notification_id", persisted.ID)
		}
	}
	if channels[matchmaking_entities.ChannelEmail] {
		if err := s.dispatcher.EnqueueEmail(ctx, persisted.ID, recipientID, intent.Title, intent.Body); err != nil {
			slog.ErrorContext(ctx, "failed to enqueue email notification", "error", err, "notification_id", persisted.ID)
		}
	}

	return persisted, nil
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, filter matchmaking_out.NotificationFilter, page matchmaking_entities.PageRequest) ([]*matchmaking_entities.Notification, int64, error) {
	notifications, total, err := s.notifications.List(ctx, userID, filter, page)
	if err != nil {
		return nil, 0, common.NewErrInternal(err)
	}
	return notifications, total, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, common.NewErrInternal(err)
	}
	return count, nil
}

// MarkRead implements markRead() for a single id (PATCH /notifications/:id/read).
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return s.markReadMany(ctx, userID, []uuid.UUID{notificationID})
}

// MarkManyRead implements markRead() for a batch (spec §4.H).
func (s *NotificationService) MarkManyRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	return s.markReadMany(ctx, userID, ids)
}

func (s *NotificationService) markReadMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	now := time.Now().UTC()
	if err := s.notifications.MarkManyRead(ctx, userID, ids, now); err != nil {
		return common.NewErrInternal(err)
	}
	s.publishCount(ctx, userID)
	return nil
}

// MarkAllRead implements markAllRead() (spec §4.H).
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	now := time.Now().UTC()
	if err := s.notifications.MarkAllRead(ctx, userID, now); err != nil {
		return common.NewErrInternal(err)
	}
	s.publishCount(ctx, userID)
	return nil
}

func (s *NotificationService) Delete(ctx context.Context, userID, notificationID uuid.UUID) error {
	if err := s.notifications.Delete(ctx, userID, notificationID); err != nil {
		return common.NewErrInternal(err)
	}
	return nil
}

// Sweep implements sweep(daysToKeep=30) (spec §4.H).
func (s *NotificationService) Sweep(ctx context.Context, daysToKeep int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -daysToKeep)
	count, err := s.notifications.Sweep(ctx, cutoff)
	if err != nil {
		return 0, common.NewErrInternal(err)
	}
	return count, nil
}

// GetPreferences answers GET /notifications/settings, falling back to the
// defaults when the user has never saved any (spec §4.H).
func (s *NotificationService) GetPreferences(ctx context.Context, userID uuid.UUID) (*matchmaking_entities.NotificationPreferences, error) {
	prefs, err := s.preferences.Get(ctx, userID)
	if err != nil {
		return nil, common.NewErrInternal(err)
	}
	if prefs.ByType == nil {
		prefs = matchmaking_entities.DefaultPreferences(userID)
	}
	return &prefs, nil
}

// UpdatePreferences answers PUT /notifications/settings.
func (s *NotificationService) UpdatePreferences(ctx context.Context, userID uuid.UUID, prefs matchmaking_entities.NotificationPreferences) (*matchmaking_entities.NotificationPreferences, error) {
	prefs.UserID = userID
	if err := s.preferences.Put(ctx, prefs); err != nil {
		return nil, common.NewErrInternal(err)
	}
	return &prefs, nil
}

func (s *NotificationService) publishCount(ctx context.Context, userID uuid.UUID) {
	if s.publisher == nil {
		return
	}
	unread, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "failed to count unread notifications", "error", err, "user_id", userID)
		return
	}
	if err := s.publisher.PublishNotificationCount(ctx, userID, unread); err != nil {
		slog.WarnContext(ctx, "failed to publish notification:count", "error", err, "user_id", userID)
	}
}
