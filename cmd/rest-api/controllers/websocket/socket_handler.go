// Package websocket_controllers upgrades authenticated HTTP requests onto
// the realtime push fabric (spec §6 "Socket channel"), generalizing the
// teacher's per-lobby upgrade handler to the hub's user-room model.
package websocket_controllers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	common "github.com/matchforge/platform/pkg/domain"
	wsHub "github.com/matchforge/platform/pkg/infra/websocket"
)

// SocketHandler upgrades GET /ws into a persistent client connection,
// registered to the hub under the caller's user room.
type SocketHandler struct {
	hub      *wsHub.Hub
	upgrader websocket.Upgrader
}

func NewSocketHandler(hub *wsHub.Hub) *SocketHandler {
	return &SocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Upgrade handles GET /ws. Authentication runs upstream in AuthMiddleware;
// an unauthenticated caller is rejected before the handshake.
func (h *SocketHandler) Upgrade(apiContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := common.GetResourceOwner(r.Context())
		if !common.IsAuthenticated(r.Context()) {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to upgrade socket connection", "error", err)
			return
		}

		client := wsHub.NewClient(owner.UserID, conn)
		h.hub.Register(client)

		go client.WritePump()
		go client.ReadPump(h.hub)

		slog.InfoContext(r.Context(), "socket client connected", "user_id", owner.UserID)
	}
}
