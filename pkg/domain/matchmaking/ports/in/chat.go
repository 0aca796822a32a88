package matchmaking_in

import (
	"context"
	"time"

	"github.com/google/uuid"
	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
)

// PostChatMessageCommand is the POST /chat/lobby/:id/messages body
// (spec §6).
type PostChatMessageCommand struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type,omitempty"`
}

// PostChatMessageCommandHandler implements G's post() operation (spec §4.G).
type PostChatMessageCommandHandler interface {
	Exec(ctx context.Context, senderID, lobbyID uuid.UUID, cmd PostChatMessageCommand) (*matchmaking_entities.ChatMessage, error)
}

// GetChatHistoryQuery is the GET /chat/lobby/:id/messages query (spec §6).
type GetChatHistoryQuery struct {
	Limit  int
	Before *time.Time
}

// ChatHistoryResult is the response body for GET /chat/lobby/:id/messages.
type ChatHistoryResult struct {
	ChatID   uuid.UUID                       `json:"chat_id"`
	Messages []matchmaking_entities.ChatMessage `json:"messages"`
	HasMore  bool                             `json:"has_more"`
}

// GetChatHistoryQueryHandler implements G's history() operation.
type GetChatHistoryQueryHandler interface {
	Exec(ctx context.Context, userID, lobbyID uuid.UUID, query GetChatHistoryQuery) (*ChatHistoryResult, error)
}
