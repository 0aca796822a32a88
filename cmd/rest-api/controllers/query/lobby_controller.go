package query_controllers

import (
	"context"
	"net/http"

	"github.com/matchforge/platform/cmd/rest-api/controllers"
	common "github.com/matchforge/platform/pkg/domain"
	matchmaking_in "github.com/matchforge/platform/pkg/domain/matchmaking/ports/in"
)

// LobbyQueryController exposes F's read operations (spec §4.F, §6:
// GET /lobbies, GET /lobbies/:id).
type LobbyQueryController struct {
	helper *controllers.ControllerHelper
	Get    matchmaking_in.GetLobbyQueryHandler
	List   matchmaking_in.ListLobbiesQueryHandler
}

func NewLobbyQueryController(get matchmaking_in.GetLobbyQueryHandler, list matchmaking_in.ListLobbiesQueryHandler) *LobbyQueryController {
	return &LobbyQueryController{helper: controllers.NewControllerHelper(), Get: get, List: list}
}

// GetLobby handles GET /lobbies/:id.
func (ctrl *LobbyQueryController) GetLobby(apiContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := common.GetResourceOwner(r.Context()).UserID
		lobbyID, ok := controllers.PathUUID(w, r, "id")
		if !ok {
			return
		}

		lobby, err := ctrl.Get.Exec(r.Context(), userID, lobbyID)
		if ctrl.helper.HandleError(w, r, err, "failed to get lobby") {
			return
		}

		ctrl.helper.WriteOK(w, r, lobby)
	}
}

// ListLobbies handles GET /lobbies.
func (ctrl *LobbyQueryController) ListLobbies(apiContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := common.GetResourceOwner(r.Context()).UserID

		query := matchmaking_in.ListLobbiesQuery{
			IncludeHistory: r.URL.Query().Get("include_history") == "true",
		}

		lobbies, err := ctrl.List.Exec(r.Context(), userID, query)
		if ctrl.helper.HandleError(w, r, err, "failed to list lobbies") {
			return
		}

		ctrl.helper.WriteOK(w, r, lobbies)
	}
}
