package matchmaking_usecases

import (
	"context"

	"github.com/google/uuid"
	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
	matchmaking_in "github.com/matchforge/platform/pkg/domain/matchmaking/ports/in"
	matchmaking_out "github.com/matchforge/platform/pkg/domain/matchmaking/ports/out"
	matchmaking_services "github.com/matchforge/platform/pkg/domain/matchmaking/services"
)

type CreateNotificationUseCase struct {
	notifications *matchmaking_services.NotificationService
}

func NewCreateNotificationUseCase(n *matchmaking_services.NotificationService) *CreateNotificationUseCase {
	return &CreateNotificationUseCase{notifications: n}
}

func (uc *CreateNotificationUseCase) Exec(ctx context.Context, cmd matchmaking_in.CreateNotificationCommand) (*matchmaking_entities.Notification, error) {
	return uc.notifications.Create(ctx, cmd.RecipientID, cmd.Intent)
}

type ListNotificationsUseCase struct {
	notifications *matchmaking_services.NotificationService
}

func NewListNotificationsUseCase(n *matchmaking_services.NotificationService) *ListNotificationsUseCase {
	return &ListNotificationsUseCase{notifications: n}
}

func (uc *ListNotificationsUseCase) Exec(ctx context.Context, userID uuid.UUID, query matchmaking_in.ListNotificationsQuery) (*matchmaking_in.ListNotificationsResult, error) {
	page := matchmaking_entities.PageRequest{Page: query.Page, Limit: query.Limit}.Normalize()
	filter := matchmaking_out.NotificationFilter{
		Status:   query.Status,
		Type:     query.Type,
		Priority: matchmaking_entities.NotificationPriority(query.Priority),
	}

	notifications, total, err := uc.notifications.List(ctx, userID, filter, page)
	if err != nil {
		return nil, err
	}

	return &matchmaking_in.ListNotificationsResult{
		Notifications: notifications,
		Page:          page.Page,
		Limit:         page.Limit,
		Total:         total,
	}, nil
}

type GetUnreadNotificationCountUseCase struct {
	notifications *matchmaking_services.NotificationService
}

func NewGetUnreadNotificationCountUseCase(n *matchmaking_services.NotificationService) *GetUnreadNotificationCountUseCase {
	return &GetUnreadNotificationCountUseCase{notifications: n}
}

func (uc *GetUnreadNotificationCountUseCase) Exec(ctx context.Context, userID uuid.UUID) (int64, error) {
	return uc.notifications.UnreadCount(ctx, userID)
}

type MarkNotificationReadUseCase struct {
	notifications *matchmaking_services.NotificationService
}

func NewMarkNotificationReadUseCase(n *matchmaking_services.NotificationService) *MarkNotificationReadUseCase {
	return &MarkNotificationReadUseCase{notifications: n}
}

func (uc *MarkNotificationReadUseCase) Exec(ctx context.Context, userID, notificationID uuid.UUID) error {
	return uc.notifications.MarkRead(ctx, userID, notificationID)
}

type MarkNotificationsReadUseCase struct {
	notifications *matchmaking_services.NotificationService
}

func NewMarkNotificationsReadUseCase(n *matchmaking_services.NotificationService) *MarkNotificationsReadUseCase {
	return &MarkNotificationsReadUseCase{notifications: n}
}

func (uc *MarkNotificationsReadUseCase) Exec(ctx context.Context, userID uuid.UUID, cmd matchmaking_in.MarkNotificationsReadCommand) error {
	return uc.notifications.MarkManyRead(ctx, userID, cmd.NotificationIDs)
}

type MarkAllNotificationsReadUseCase struct {
	notifications *matchmaking_services.NotificationService
}

func NewMarkAllNotificationsReadUseCase(n *matchmaking_services.NotificationService) *MarkAllNotificationsReadUseCase {
	return &MarkAllNotificationsReadUseCase{notifications: n}
}

func (uc *MarkAllNotificationsReadUseCase) Exec(ctx context.Context, userID uuid.UUID) error {
	return uc.notifications.MarkAllRead(ctx, userID)
}

type DeleteNotificationUseCase struct {
	notifications *matchmaking_services.NotificationService
}

func NewDeleteNotificationUseCase(n *matchmaking_services.NotificationService) *DeleteNotificationUseCase {
	return &DeleteNotificationUseCase{notifications: n}
}

func (uc *DeleteNotificationUseCase) Exec(ctx context.Context, userID, notificationID uuid.UUID) error {
	return uc.notifications.Delete(ctx, userID, notificationID)
}

type GetNotificationSettingsUseCase struct {
	notifications *matchmaking_services.NotificationService
}

func NewGetNotificationSettingsUseCase(n *matchmaking_services.NotificationService) *GetNotificationSettingsUseCase {
	return &GetNotificationSettingsUseCase{notifications: n}
}

func (uc *GetNotificationSettingsUseCase) Exec(ctx context.Context, userID uuid.UUID) (*matchmaking_in.NotificationSettings, error) {
	prefs, err := uc.notifications.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &matchmaking_in.NotificationSettings{Preferences: *prefs}, nil
}

type UpdateNotificationSettingsUseCase struct {
	notifications *matchmaking_services.NotificationService
}

func NewUpdateNotificationSettingsUseCase(n *matchmaking_services.NotificationService) *UpdateNotificationSettingsUseCase {
	return &UpdateNotificationSettingsUseCase{notifications: n}
}

func (uc *UpdateNotificationSettingsUseCase) Exec(ctx context.Context, userID uuid.UUID, settings matchmaking_in.NotificationSettings) (*matchmaking_in.NotificationSettings, error) {
	prefs, err := uc.notifications.UpdatePreferences(ctx, userID, settings.Preferences)
	if err != nil {
		return nil, err
	}
	return &matchmaking_in.NotificationSettings{Preferences: *prefs}, nil
}
