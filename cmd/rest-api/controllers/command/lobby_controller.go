package cmd_controllers

import (
	"context"
	"net/http"

	"github.com/matchforge/platform/cmd/rest-api/controllers"
	common "github.com/matchforge/platform/pkg/domain"
	matchmaking_in "github.com/matchforge/platform/pkg/domain/matchmaking/ports/in"
)

// LobbyController exposes F's lifecycle transitions (spec §4.F, §6:
// /lobbies/:id/{join,leave,ready,start,close}).
type LobbyController struct {
	helper *controllers.ControllerHelper
	Join   matchmaking_in.JoinLobbyCommandHandler
	Leave  matchmaking_in.LeaveLobbyCommandHandler
	Ready  matchmaking_in.SetLobbyReadyCommandHandler
	Start  matchmaking_in.StartLobbyCommandHandler
	Close  matchmaking_in.CloseLobbyCommandHandler
}

func NewLobbyController(
	join matchmaking_in.JoinLobbyCommandHandler,
	leave matchmaking_in.LeaveLobbyCommandHandler,
	ready matchmaking_in.SetLobbyReadyCommandHandler,
	start matchmaking_in.StartLobbyCommandHandler,
	close_ matchmaking_in.CloseLobbyCommandHandler,
) *LobbyController {
	return &LobbyController{
		helper: controllers.NewControllerHelper(),
		Join:   join,
		Leave:  leave,
		Ready:  ready,
		Start:  start,
		Close:  close_,
	}
}

// Join handles POST /lobbies/:id/join.
func (ctrl *LobbyController) JoinLobby(apiContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := common.GetResourceOwner(r.Context()).UserID
		lobbyID, ok := controllers.PathUUID(w, r, "id")
		if !ok {
			return
		}

		lobby, err := ctrl.Join.Exec(r.Context(), userID, lobbyID)
		if ctrl.helper.HandleError(w, r, err, "failed to join lobby") {
			return
		}

		ctrl.helper.WriteOK(w, r, lobby)
	}
}

// Leave handles POST /lobbies/:id/leave.
func (ctrl *LobbyController) LeaveLobby(apiContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := common.GetResourceOwner(r.Context()).UserID
		lobbyID, ok := controllers.PathUUID(w, r, "id")
		if !ok {
			return
		}

		lobby, err := ctrl.Leave.Exec(r.Context(), userID, lobbyID)
		if ctrl.helper.HandleError(w, r, err, "failed to leave lobby") {
			return
		}

		ctrl.helper.WriteOK(w, r, lobby)
	}
}

// Ready handles POST /lobbies/:id/ready.
func (ctrl *LobbyController) SetReady(apiContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := common.GetResourceOwner(r.Context()).UserID
		lobbyID, ok := controllers.PathUUID(w, r, "id")
		if !ok {
			return
		}

		var cmd matchmaking_in.SetLobbyReadyCommand
		if err := ctrl.helper.DecodeJSONRequest(w, r, &cmd); err != nil {
			return
		}

		lobby, err := ctrl.Ready.Exec(r.Context(), userID, lobbyID, cmd)
		if ctrl.helper.HandleError(w, r, err, "failed to set lobby ready state") {
			return
		}

		ctrl.helper.WriteOK(w, r, lobby)
	}
}

// Start handles POST /lobbies/:id/start.
func (ctrl *LobbyController) StartLobby(apiContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := common.GetResourceOwner(r.Context()).UserID
		lobbyID, ok := controllers.PathUUID(w, r, "id")
		if !ok {
			return
		}

		lobby, err := ctrl.Start.Exec(r.Context(), userID, lobbyID)
		if ctrl.helper.HandleError(w, r, err, "failed to start lobby") {
			return
		}

		ctrl.helper.WriteOK(w, r, lobby)
	}
}

// Close handles DELETE /lobbies/:id.
func (ctrl *LobbyController) CloseLobby(apiContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := common.GetResourceOwner(r.Context()).UserID
		lobbyID, ok := controllers.PathUUID(w, r, "id")
		if !ok {
			return
		}

		lobby, err := ctrl.Close.Exec(r.Context(), userID, lobbyID)
		if ctrl.helper.HandleError(w, r, err, "failed to close lobby") {
			return
		}

		ctrl.helper.WriteOK(w, r, lobby)
	}
}
