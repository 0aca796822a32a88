package cmd_controllers

import (
	"context"
	"net/http"

	"github.com/matchforge/platform/cmd/rest-api/controllers"
	common "github.com/matchforge/platform/pkg/domain"
	matchmaking_in "github.com/matchforge/platform/pkg/domain/matchmaking/ports/in"
)

// ChatController exposes G's post() operation (spec §4.G, §6: POST
// /chat/lobby/:id/messages).
type ChatController struct {
	helper *controllers.ControllerHelper
	Post   matchmaking_in.PostChatMessageCommandHandler
}

func NewChatController(post matchmaking_in.PostChatMessageCommandHandler) *ChatController {
	return &ChatController{helper: controllers.NewControllerHelper(), Post: post}
}

// PostMessage handles POST /chat/lobby/:id/messages.
func (ctrl *ChatController) PostMessage(apiContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		senderID := common.GetResourceOwner(r.Context()).UserID
		lobbyID, ok := controllers.PathUUID(w, r, "id")
		if !ok {
			return
		}

		var cmd matchmaking_in.PostChatMessageCommand
		if err := ctrl.helper.DecodeJSONRequest(w, r, &cmd); err != nil {
			return
		}

		message, err := ctrl.Post.Exec(r.Context(), senderID, lobbyID, cmd)
		if ctrl.helper.HandleError(w, r, err, "failed to post chat message") {
			return
		}

		ctrl.helper.WriteCreated(w, r, message)
	}
}
