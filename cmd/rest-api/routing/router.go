package routing

import (
	"context"
	"net/http"

	"github.com/golobby/container/v3"
	"github.com/gorilla/mux"

	"github.com/matchforge/platform/cmd/rest-api/controllers"
	cmd_controllers "github.com/matchforge/platform/cmd/rest-api/controllers/command"
	query_controllers "github.com/matchforge/platform/cmd/rest-api/controllers/query"
	websocket_controllers "github.com/matchforge/platform/cmd/rest-api/controllers/websocket"
	"github.com/matchforge/platform/cmd/rest-api/middlewares"
	matchmaking_in "github.com/matchforge/platform/pkg/domain/matchmaking/ports/in"
	metrics "github.com/matchforge/platform/pkg/infra/metrics"
	websocket "github.com/matchforge/platform/pkg/infra/websocket"
)

const (
	Health  = "/health"
	Ready   = "/health/ready"
	Live    = "/health/live"
	Metrics = "/metrics"

	Matchmaking        = "/matchmaking"
	MatchmakingStatus  = "/matchmaking/status"
	MatchmakingByID    = "/matchmaking/{requestId}"
	MatchmakingHistory = "/matchmaking/history"
	MatchmakingStats   = "/matchmaking/stats"

	Lobbies    = "/lobbies"
	LobbyByID  = "/lobbies/{id}"
	LobbyJoin  = "/lobbies/{id}/join"
	LobbyLeave = "/lobbies/{id}/leave"
	LobbyReady = "/lobbies/{id}/ready"
	LobbyStart = "/lobbies/{id}/start"
	LobbyClose = "/lobbies/{id}/close"

	ChatMessages = "/chat/lobby/{id}/messages"

	Notifications         = "/notifications"
	NotificationCount     = "/notifications/count"
	NotificationSettings  = "/notifications/settings"
	NotificationMarkRead  = "/notifications/{id}/read"
	NotificationsMarkRead = "/notifications/mark-read"
	NotificationsMarkAll  = "/notifications/mark-all-read"
	NotificationByID      = "/notifications/{id}"

	Socket = "/ws"
)

// NewRouter wires the HTTP surface for matchmaking, lobby lifecycle, chat
// and notifications, resolving every inbound port from the container and
// layering the shared middleware chain over each route.
func NewRouter(ctx context.Context, c container.Container) http.Handler {
	auth := middlewares.NewAuthMiddleware()
	cors := middlewares.NewCORSMiddleware()
	rateLimit := middlewares.NewRateLimitMiddleware()

	healthController := controllers.NewHealthController(c)

	var submitMatchRequest matchmaking_in.SubmitMatchRequestCommandHandler
	mustResolve(c, &submitMatchRequest)
	var cancelMatchRequest matchmaking_in.CancelMatchRequestCommandHandler
	mustResolve(c, &cancelMatchRequest)
	matchmakingController := cmd_controllers.NewMatchmakingController(submitMatchRequest, cancelMatchRequest)

	var matchmakingStatus matchmaking_in.GetMatchmakingStatusQueryHandler
	mustResolve(c, &matchmakingStatus)
	var matchHistory matchmaking_in.GetMatchHistoryQueryHandler
	mustResolve(c, &matchHistory)
	var matchmakingStats matchmaking_in.GetMatchmakingStatsQueryHandler
	mustResolve(c, &matchmakingStats)
	matchmakingQueryController := query_controllers.NewMatchmakingQueryController(matchmakingStatus, matchHistory, matchmakingStats)

	var joinLobby matchmaking_in.JoinLobbyCommandHandler
	mustResolve(c, &joinLobby)
	var leaveLobby matchmaking_in.LeaveLobbyCommandHandler
	mustResolve(c, &leaveLobby)
	var setReady matchmaking_in.SetLobbyReadyCommandHandler
	mustResolve(c, &setReady)
	var startLobby matchmaking_in.StartLobbyCommandHandler
	mustResolve(c, &startLobby)
	var closeLobby matchmaking_in.CloseLobbyCommandHandler
	mustResolve(c, &closeLobby)
	lobbyController := cmd_controllers.NewLobbyController(joinLobby, leaveLobby, setReady, startLobby, closeLobby)

	var getLobby matchmaking_in.GetLobbyQueryHandler
	mustResolve(c, &getLobby)
	var listLobbies matchmaking_in.ListLobbiesQueryHandler
	mustResolve(c, &listLobbies)
	lobbyQueryController := query_controllers.NewLobbyQueryController(getLobby, listLobbies)

	var postChatMessage matchmaking_in.PostChatMessageCommandHandler
	mustResolve(c, &postChatMessage)
	chatController := cmd_controllers.NewChatController(postChatMessage)

	var chatHistory matchmaking_in.GetChatHistoryQueryHandler
	mustResolve(c, &chatHistory)
	chatQueryController := query_controllers.NewChatQueryController(chatHistory)

	var markRead matchmaking_in.MarkNotificationReadCommandHandler
	mustResolve(c, &markRead)
	var markManyRead matchmaking_in.MarkNotificationsReadCommandHandler
	mustResolve(c, &markManyRead)
	var markAllRead matchmaking_in.MarkAllNotificationsReadCommandHandler
	mustResolve(c, &markAllRead)
	var deleteNotification matchmaking_in.DeleteNotificationCommandHandler
	mustResolve(c, &deleteNotification)
	var updateSettings matchmaking_in.UpdateNotificationSettingsCommandHandler
	mustResolve(c, &updateSettings)
	notificationController := cmd_controllers.NewNotificationController(markRead, markManyRead, markAllRead, deleteNotification, updateSettings)

	var listNotifications matchmaking_in.ListNotificationsQueryHandler
	mustResolve(c, &listNotifications)
	var unreadCount matchmaking_in.GetUnreadNotificationCountQueryHandler
	mustResolve(c, &unreadCount)
	var getSettings matchmaking_in.GetNotificationSettingsQueryHandler
	mustResolve(c, &getSettings)
	notificationQueryController := query_controllers.NewNotificationQueryController(listNotifications, unreadCount, getSettings)

	var hub *websocket.Hub
	mustResolve(c, &hub)
	socketHandler := websocket_controllers.NewSocketHandler(hub)

	r := mux.NewRouter()
	r.Use(cors.Handler)
	r.Use(middlewares.ErrorMiddleware)
	r.Use(metrics.Middleware)
	r.Use(rateLimit.Handler)

	r.HandleFunc(Health, healthController.HealthCheck(ctx)).Methods(http.MethodGet)
	r.HandleFunc(Ready, healthController.ReadinessCheck(ctx)).Methods(http.MethodGet)
	r.HandleFunc(Live, healthController.LivenessCheck(ctx)).Methods(http.MethodGet)
	r.Handle(Metrics, healthController.MetricsHandler()).Methods(http.MethodGet)

	authed := r.NewRoute().Subrouter()
	authed.Use(auth.Handler)
	authed.Use(middlewares.RequireAuthentication())

	authed.HandleFunc(Matchmaking, matchmakingController.SubmitMatchRequest(ctx)).Methods(http.MethodPost)
	authed.HandleFunc(MatchmakingStatus, matchmakingQueryController.GetStatus(ctx)).Methods(http.MethodGet)
	authed.HandleFunc(MatchmakingByID, matchmakingController.CancelMatchRequest(ctx)).Methods(http.MethodDelete)
	authed.HandleFunc(MatchmakingHistory, matchmakingQueryController.GetHistory(ctx)).Methods(http.MethodGet)

	admin := r.NewRoute().Subrouter()
	admin.Use(auth.Handler)
	admin.Use(middlewares.RequireAdmin())
	admin.HandleFunc(MatchmakingStats, matchmakingQueryController.GetStats(ctx)).Methods(http.MethodGet)

	authed.HandleFunc(Lobbies, lobbyQueryController.ListLobbies(ctx)).Methods(http.MethodGet)
	authed.HandleFunc(LobbyByID, lobbyQueryController.GetLobby(ctx)).Methods(http.MethodGet)
	authed.HandleFunc(LobbyByID, lobbyController.CloseLobby(ctx)).Methods(http.MethodDelete)
	authed.HandleFunc(LobbyClose, lobbyController.CloseLobby(ctx)).Methods(http.MethodPost)
	authed.HandleFunc(LobbyJoin, lobbyController.JoinLobby(ctx)).Methods(http.MethodPost)
	authed.HandleFunc(LobbyLeave, lobbyController.LeaveLobby(ctx)).Methods(http.MethodPost)
	authed.HandleFunc(LobbyReady, lobbyController.SetReady(ctx)).Methods(http.MethodPost)
	authed.HandleFunc(LobbyStart, lobbyController.StartLobby(ctx)).Methods(http.MethodPost)

	authed.HandleFunc(ChatMessages, chatController.PostMessage(ctx)).Methods(http.MethodPost)
	authed.HandleFunc(ChatMessages, chatQueryController.GetHistory(ctx)).Methods(http.MethodGet)

	authed.HandleFunc(Notifications, notificationQueryController.ListNotifications(ctx)).Methods(http.MethodGet)
	authed.HandleFunc(NotificationCount, notificationQueryController.GetUnreadCount(ctx)).Methods(http.MethodGet)
	authed.HandleFunc(NotificationSettings, notificationQueryController.GetNotificationSettings(ctx)).Methods(http.MethodGet)
	authed.HandleFunc(NotificationSettings, notificationController.UpdateNotificationSettings(ctx)).Methods(http.MethodPut)
	authed.HandleFunc(NotificationMarkRead, notificationController.MarkNotificationRead(ctx)).Methods(http.MethodPatch)
	authed.HandleFunc(NotificationsMarkRead, notificationController.MarkNotificationsRead(ctx)).Methods(http.MethodPost)
	authed.HandleFunc(NotificationsMarkAll, notificationController.MarkAllNotificationsRead(ctx)).Methods(http.MethodPost)
	authed.HandleFunc(NotificationByID, notificationController.DeleteNotification(ctx)).Methods(http.MethodDelete)

	authed.HandleFunc(Socket, socketHandler.Upgrade(ctx)).Methods(http.MethodGet)

	return r
}

func mustResolve(c container.Container, target interface{}) {
	if err := c.Resolve(target); err != nil {
		panic(err)
	}
}
