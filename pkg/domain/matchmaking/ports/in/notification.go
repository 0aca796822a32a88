package matchmaking_in

import (
	"context"

	"github.com/google/uuid"
	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
)

// CreateNotificationCommand is H's internal create() operation input,
// issued by other components (Coordinator, Lobby, Chat) — never exposed
// directly over HTTP (spec §4.H).
type CreateNotificationCommand struct {
	RecipientID uuid.UUID
	Intent      matchmaking_entities.Intent
}

// CreateNotificationCommandHandler implements H's create() operation.
type CreateNotificationCommandHandler interface {
	Exec(ctx context.Context, cmd CreateNotificationCommand) (*matchmaking_entities.Notification, error)
}

// ListNotificationsQuery is the GET /notifications query (spec §6).
type ListNotificationsQuery struct {
	Page     int
	Limit    int
	Status   string
	Type     string
	Priority string
}

// ListNotificationsResult is the paginated response.
type ListNotificationsResult struct {
	Notifications []*matchmaking_entities.Notification `json:"notifications"`
	Page          int                                  `json:"page"`
	Limit         int                                  `json:"limit"`
	Total         int64                                `json:"total"`
}

type ListNotificationsQueryHandler interface {
	Exec(ctx context.Context, userID uuid.UUID, query ListNotificationsQuery) (*ListNotificationsResult, error)
}

// GetUnreadNotificationCountQueryHandler answers GET /notifications/count.
type GetUnreadNotificationCountQueryHandler interface {
	Exec(ctx context.Context, userID uuid.UUID) (int64, error)
}

// MarkNotificationReadCommandHandler answers PATCH /notifications/:id/read.
type MarkNotificationReadCommandHandler interface {
	Exec(ctx context.Context, userID, notificationID uuid.UUID) error
}

// MarkNotificationsReadCommand is the POST /notifications/mark-read body.
type MarkNotificationsReadCommand struct {
	NotificationIDs []uuid.UUID `json:"notification_ids"`
}

type MarkNotificationsReadCommandHandler interface {
	Exec(ctx context.Context, userID uuid.UUID, cmd MarkNotificationsReadCommand) error
}

// MarkAllNotificationsReadCommandHandler answers POST /notifications/mark-all-read.
type MarkAllNotificationsReadCommandHandler interface {
	Exec(ctx context.Context, userID uuid.UUID) error
}

// DeleteNotificationCommandHandler answers DELETE /notifications/:id.
type DeleteNotificationCommandHandler interface {
	Exec(ctx context.Context, userID, notificationID uuid.UUID) error
}

// NotificationSettings is the GET|PUT /notifications/settings payload.
type NotificationSettings struct {
	Preferences matchmaking_entities.NotificationPreferences `json:"preferences"`
}

type GetNotificationSettingsQueryHandler interface {
	Exec(ctx context.Context, userID uuid.UUID) (*NotificationSettings, error)
}

type UpdateNotificationSettingsCommandHandler interface {
	Exec(ctx context.Context, userID uuid.UUID, settings NotificationSettings) (*NotificationSettings, error)
}
