package cmd_controllers

import (
	"context"
	"net/http"

	"github.com/matchforge/platform/cmd/rest-api/controllers"
	common "github.com/matchforge/platform/pkg/domain"
	matchmaking_in "github.com/matchforge/platform/pkg/domain/matchmaking/ports/in"
)

// MatchmakingController exposes the Coordinator's mutating operations
// (spec §4.E, §6: POST /matchmaking, DELETE /matchmaking/:requestId).
type MatchmakingController struct {
	submit *controllers.ControllerHelper
	Submit matchmaking_in.SubmitMatchRequestCommandHandler
	Cancel matchmaking_in.CancelMatchRequestCommandHandler
}

func NewMatchmakingController(submit matchmaking_in.SubmitMatchRequestCommandHandler, cancel matchmaking_in.CancelMatchRequestCommandHandler) *MatchmakingController {
	return &MatchmakingController{submit: controllers.NewControllerHelper(), Submit: submit, Cancel: cancel}
}

// SubmitMatchRequest handles POST /matchmaking.
func (ctrl *MatchmakingController) SubmitMatchRequest(apiContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := common.GetResourceOwner(r.Context()).UserID

		var cmd matchmaking_in.SubmitMatchRequestCommand
		if err := ctrl.submit.DecodeJSONRequest(w, r, &cmd); err != nil {
			return
		}

		request, err := ctrl.Submit.Exec(r.Context(), userID, cmd)
		if ctrl.submit.HandleError(w, r, err, "failed to submit match request") {
			return
		}

		ctrl.submit.WriteCreated(w, r, request)
	}
}

// CancelMatchRequest handles DELETE /matchmaking/:requestId.
func (ctrl *MatchmakingController) CancelMatchRequest(apiContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := common.GetResourceOwner(r.Context()).UserID

		requestID, ok := controllers.PathUUID(w, r, "requestId")
		if !ok {
			return
		}

		request, err := ctrl.Cancel.Exec(r.Context(), userID, requestID)
		if ctrl.submit.HandleError(w, r, err, "failed to cancel match request") {
			return
		}

		ctrl.submit.WriteOK(w, r, request)
	}
}
