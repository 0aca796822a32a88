package query_controllers

import (
	"context"
	"net/http"

	"github.com/matchforge/platform/cmd/rest-api/controllers"
	common "github.com/matchforge/platform/pkg/domain"
	matchmaking_in "github.com/matchforge/platform/pkg/domain/matchmaking/ports/in"
)

// NotificationQueryController exposes H's read operations (spec §4.H, §6).
type NotificationQueryController struct {
	helper       *controllers.ControllerHelper
	List         matchmaking_in.ListNotificationsQueryHandler
	UnreadCount  matchmaking_in.GetUnreadNotificationCountQueryHandler
	GetSettings  matchmaking_in.GetNotificationSettingsQueryHandler
}

func NewNotificationQueryController(
	list matchmaking_in.ListNotificationsQueryHandler,
	unreadCount matchmaking_in.GetUnreadNotificationCountQueryHandler,
	getSettings matchmaking_in.GetNotificationSettingsQueryHandler,
) *NotificationQueryController {
	return &NotificationQueryController{
		helper:      controllers.NewControllerHelper(),
		List:        list,
		UnreadCount: unreadCount,
		GetSettings: getSettings,
	}
}

// ListNotifications handles GET /notifications.
func (ctrl *NotificationQueryController) ListNotifications(apiContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := common.GetResourceOwner(r.Context()).UserID
		q := r.URL.Query()

		query := matchmaking_in.ListNotificationsQuery{
			Page:     atoiDefault(q.Get("page"), 1),
			Limit:    atoiDefault(q.Get("limit"), 20),
			Status:   q.Get("status"),
			Type:     q.Get("type"),
			Priority: q.Get("priority"),
		}

		result, err := ctrl.List.Exec(r.Context(), userID, query)
		if ctrl.helper.HandleError(w, r, err, "failed to list notifications") {
			return
		}

		ctrl.helper.WriteOK(w, r, result)
	}
}

// GetUnreadCount handles GET /notifications/count.
func (ctrl *NotificationQueryController) GetUnreadCount(apiContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := common.GetResourceOwner(r.Context()).UserID

		count, err := ctrl.UnreadCount.Exec(r.Context(), userID)
		if ctrl.helper.HandleError(w, r, err, "failed to get unread notification count") {
			return
		}

		ctrl.helper.WriteOK(w, r, map[string]interface{}{"unread_count": count})
	}
}

// GetSettings handles GET /notifications/settings.
func (ctrl *NotificationQueryController) GetNotificationSettings(apiContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := common.GetResourceOwner(r.Context()).UserID

		settings, err := ctrl.GetSettings.Exec(r.Context(), userID)
		if ctrl.helper.HandleError(w, r, err, "failed to get notification settings") {
			return
		}

		ctrl.helper.WriteOK(w, r, settings)
	}
}
