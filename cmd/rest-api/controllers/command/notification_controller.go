package cmd_controllers

import (
	"context"
	"net/http"

	"github.com/matchforge/platform/cmd/rest-api/controllers"
	common "github.com/matchforge/platform/pkg/domain"
	matchmaking_in "github.com/matchforge/platform/pkg/domain/matchmaking/ports/in"
)

// NotificationController exposes H's mutating operations (spec §4.H, §6).
type NotificationController struct {
	helper         *controllers.ControllerHelper
	MarkRead       matchmaking_in.MarkNotificationReadCommandHandler
	MarkManyRead   matchmaking_in.MarkNotificationsReadCommandHandler
	MarkAllRead    matchmaking_in.MarkAllNotificationsReadCommandHandler
	Delete         matchmaking_in.DeleteNotificationCommandHandler
	UpdateSettings matchmaking_in.UpdateNotificationSettingsCommandHandler
}

func NewNotificationController(
	markRead matchmaking_in.MarkNotificationReadCommandHandler,
	markManyRead matchmaking_in.MarkNotificationsReadCommandHandler,
	markAllRead matchmaking_in.MarkAllNotificationsReadCommandHandler,
	delete_ matchmaking_in.DeleteNotificationCommandHandler,
	updateSettings matchmaking_in.UpdateNotificationSettingsCommandHandler,
) *NotificationController {
	return &NotificationController{
		helper:         controllers.NewControllerHelper(),
		MarkRead:       markRead,
		MarkManyRead:   markManyRead,
		MarkAllRead:    markAllRead,
		Delete:         delete_,
		UpdateSettings: updateSettings,
	}
}

// MarkRead handles PATCH /notifications/:id/read.
func (ctrl *NotificationController) MarkNotificationRead(apiContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := common.GetResourceOwner(r.Context()).UserID
		notificationID, ok := controllers.PathUUID(w, r, "id")
		if !ok {
			return
		}

		err := ctrl.MarkRead.Exec(r.Context(), userID, notificationID)
		if ctrl.helper.HandleError(w, r, err, "failed to mark notification read") {
			return
		}

		ctrl.helper.WriteNoContent(w, r)
	}
}

// MarkManyRead handles POST /notifications/mark-read.
func (ctrl *NotificationController) MarkNotificationsRead(apiContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := common.GetResourceOwner(r.Context()).UserID

		var cmd matchmaking_in.MarkNotificationsReadCommand
		if err := ctrl.helper.DecodeJSONRequest(w, r, &cmd); err != nil {
			return
		}

		err := ctrl.MarkManyRead.Exec(r.Context(), userID, cmd)
		if ctrl.helper.HandleError(w, r, err, "failed to mark notifications read") {
			return
		}

		ctrl.helper.WriteNoContent(w, r)
	}
}

// MarkAllRead handles POST /notifications/mark-all-read.
func (ctrl *NotificationController) MarkAllNotificationsRead(apiContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := common.GetResourceOwner(r.Context()).UserID

		err := ctrl.MarkAllRead.Exec(r.Context(), userID)
		if ctrl.helper.HandleError(w, r, err, "failed to mark all notifications read") {
			return
		}

		ctrl.helper.WriteNoContent(w, r)
	}
}

// Delete handles DELETE /notifications/:id.
func (ctrl *NotificationController) DeleteNotification(apiContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := common.GetResourceOwner(r.Context()).UserID
		notificationID, ok := controllers.PathUUID(w, r, "id")
		if !ok {
			return
		}

		err := ctrl.Delete.Exec(r.Context(), userID, notificationID)
		if ctrl.helper.HandleError(w, r, err, "failed to delete notification") {
			return
		}

		ctrl.helper.WriteNoContent(w, r)
	}
}

// UpdateSettings handles PUT /notifications/settings.
func (ctrl *NotificationController) UpdateNotificationSettings(apiContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := common.GetResourceOwner(r.Context()).UserID

		var settings matchmaking_in.NotificationSettings
		if err := ctrl.helper.DecodeJSONRequest(w, r, &settings); err != nil {
			return
		}

		updated, err := ctrl.UpdateSettings.Exec(r.Context(), userID, settings)
		if ctrl.helper.HandleError(w, r, err, "failed to update notification settings") {
			return
		}

		ctrl.helper.WriteOK(w, r, updated)
	}
}
