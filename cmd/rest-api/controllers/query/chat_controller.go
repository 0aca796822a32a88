package query_controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/matchforge/platform/cmd/rest-api/controllers"
	common "github.com/matchforge/platform/pkg/domain"
	matchmaking_in "github.com/matchforge/platform/pkg/domain/matchmaking/ports/in"
)

// ChatQueryController exposes G's history() operation (spec §4.G, §6: GET
// /chat/lobby/:id/messages).
type ChatQueryController struct {
	helper  *controllers.ControllerHelper
	History matchmaking_in.GetChatHistoryQueryHandler
}

func NewChatQueryController(history matchmaking_in.GetChatHistoryQueryHandler) *ChatQueryController {
	return &ChatQueryController{helper: controllers.NewControllerHelper(), History: history}
}

// GetHistory handles GET /chat/lobby/:id/messages.
func (ctrl *ChatQueryController) GetHistory(apiContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := common.GetResourceOwner(r.Context()).UserID
		lobbyID, ok := controllers.PathUUID(w, r, "id")
		if !ok {
			return
		}

		query := matchmaking_in.GetChatHistoryQuery{Limit: atoiDefault(r.URL.Query().Get("limit"), 50)}
		if before := r.URL.Query().Get("before"); before != "" {
			if t, err := time.Parse(time.RFC3339, before); err == nil {
				query.Before = &t
			}
		}

		history, err := ctrl.History.Exec(r.Context(), userID, lobbyID, query)
		if ctrl.helper.HandleError(w, r, err, "failed to get chat history") {
			return
		}

		ctrl.helper.WriteOK(w, r, history)
	}
}
