package matchmaking_out

import (
	"context"

	"github.com/google/uuid"
	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
)

// EventPublisher is the Socket Fan-out port (component I). Every domain
// service that mutates a MatchRequest, Lobby, ChatChannel or Notification
// publishes through this interface instead of touching a transport
// directly, so HTTP/internal callers never reach into sockets themselves
// (spec §9 "Mixed concerns" redesign note).
type EventPublisher interface {
	// PublishMatchmakingStatus sends a matchmaking:status event to
	// matchrequest:<requestID>.
	PublishMatchmakingStatus(ctx context.Context, requestID uuid.UUID, event MatchmakingStatusEvent) error

	// PublishLobbyCreated sends lobby:created to each participant's
	// user:<id> room and subscribes that room to lobby:<lobbyID>.
	PublishLobbyCreated(ctx context.Context, lobbyID uuid.UUID, participantIDs []uuid.UUID) error

	// PublishLobbyUpdated sends lobby:update to lobby:<lobbyID>.
	PublishLobbyUpdated(ctx context.Context, lobbyID uuid.UUID, lobby *matchmaking_entities.Lobby) error

	// PublishLobbyMemberEvent sends lobby:member:joined|left|ready.
	PublishLobbyMemberEvent(ctx context.Context, lobbyID uuid.UUID, kind LobbyMemberEventKind, member matchmaking_entities.LobbyMember) error

	// PublishChatMessage sends chat:message to lobby:<lobbyID>.
	PublishChatMessage(ctx context.Context, lobbyID uuid.UUID, message matchmaking_entities.ChatMessage) error

	// PublishChatTyping sends the transient chat:typing event.
	PublishChatTyping(ctx context.Context, lobbyID uuid.UUID, userID uuid.UUID, isTyping bool) error

	// PublishNotificationNew sends notification:new to user:<userID>.
	PublishNotificationNew(ctx context.Context, userID uuid.UUID, notification *matchmaking_entities.Notification) error

	// PublishNotificationCount sends notification:count to user:<userID>.
	PublishNotificationCount(ctx context.Context, userID uuid.UUID, unread int64) error
}

// LobbyMemberEventKind distinguishes the three lobby:member:* events.
type LobbyMemberEventKind string

const (
	LobbyMemberJoined LobbyMemberEventKind = "joined"
	LobbyMemberLeft    LobbyMemberEventKind = "left"
	LobbyMemberReady   LobbyMemberEventKind = "ready"
)

// MatchmakingStatusEvent is the payload of matchmaking:status
// (spec §6 socket contract).
type MatchmakingStatusEvent struct {
	State             matchmaking_entities.RequestStatus `json:"state"`
	SearchTime        *float64                           `json:"searchTime,omitempty"`
	PotentialMatches  *int                                `json:"potentialMatches,omitempty"`
	EstimatedTime     *float64                           `json:"estimatedTime,omitempty"`
	LobbyID           *uuid.UUID                          `json:"lobbyId,omitempty"`
	Participants      []uuid.UUID                         `json:"participants,omitempty"`
}
