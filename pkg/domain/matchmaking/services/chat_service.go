package matchmaking_services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	common "github.com/matchforge/platform/pkg/domain"
	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
	matchmaking_out "github.com/matchforge/platform/pkg/domain/matchmaking/ports/out"
	metrics "github.com/matchforge/platform/pkg/infra/metrics"
)

// ChatService implements component G: post/history/systemPost, plus the
// transient typing indicator (spec §4.G).
type ChatService struct {
	channels  matchmaking_out.ChatChannelRepository
	lobbies   matchmaking_out.LobbyRepository
	publisher matchmaking_out.EventPublisher
}

func NewChatService(channels matchmaking_out.ChatChannelRepository, lobbies matchmaking_out.LobbyRepository, publisher matchmaking_out.EventPublisher) *ChatService {
	return &ChatService{channels: channels, lobbies: lobbies, publisher: publisher}
}

func (s *ChatService) loadChannel(ctx context.Context, lobbyID uuid.UUID) (*matchmaking_entities.ChatChannel, error) {
	channel, err := s.channels.FindByLobbyID(ctx, lobbyID)
	if err != nil {
		return nil, common.NewErrInternal(err)
	}
	if channel == nil {
		return nil, common.NewErrNotFound(common.ResourceTypeChatChannel, "lobby_id", lobbyID)
	}
	return channel, nil
}

// Post implements post(): sender must be a current active lobby member
// (spec §4.G).
func (s *ChatService) Post(ctx context.Context, senderID, lobbyID uuid.UUID, content string, contentType matchmaking_entities.ChatContentType) (*matchmaking_entities.ChatMessage, error) {
	lobby, err := s.lobbies.FindByID(ctx, lobbyID)
	if err != nil {
		return nil, common.NewErrInternal(err)
	}
	if lobby == nil {
		return nil, common.NewErrNotFound(common.ResourceTypeLobby, "id", lobbyID)
	}
	idx := lobby.MemberIndex(senderID)
	if idx < 0 || (lobby.Members[idx].Status != matchmaking_entities.MemberStatusJoined && lobby.Members[idx].Status != matchmaking_entities.MemberStatusReady) {
		return nil, common.NewErrForbidden("sender is not a current member of this lobby")
	}

	channel, err := s.loadChannel(ctx, lobbyID)
	if err != nil {
		return nil, err
	}

	msg, err := channel.Post(senderID, content, contentType, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if _, err := s.channels.Update(ctx, channel); err != nil {
		return nil, common.NewErrInternal(err)
	}

	metrics.RecordChatMessagePosted(string(contentType))
	s.publish(ctx, lobbyID, msg)
	return &msg, nil
}

// History implements history(): requires current or past membership
// (spec §4.G).
func (s *ChatService) History(ctx context.Context, userID, lobbyID uuid.UUID, limit int, before *time.Time) ([]matchmaking_entities.ChatMessage, bool, error) {
	channel, err := s.loadChannel(ctx, lobbyID)
	if err != nil {
		return nil, false, err
	}
	if !channel.IsParticipant(userID) {
		return nil, false, common.NewErrForbidden("user has never been a member of this lobby")
	}

	messages, hasMore := channel.History(limit, before)
	return messages, hasMore, nil
}

// SystemPost implements systemPost(): internal, triggered by F's state
// transitions (spec §4.G).
func (s *ChatService) SystemPost(ctx context.Context, lobbyID uuid.UUID, text string) error {
	channel, err := s.loadChannel(ctx, lobbyID)
	if err != nil {
		return err
	}

	msg := channel.SystemPost(text, time.Now().UTC())
	if _, err := s.channels.Update(ctx, channel); err != nil {
		return common.NewErrInternal(err)
	}

	metrics.RecordChatMessagePosted(string(matchmaking_entities.ChatContentSystem))
	s.publish(ctx, lobbyID, msg)
	return nil
}

// Typing emits the transient ChatTyping event; it is never persisted
// (spec §4.G).
func (s *ChatService) Typing(ctx context.Context, lobbyID, userID uuid.UUID, isTyping bool) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishChatTyping(ctx, lobbyID, userID, isTyping); err != nil {
		slog.WarnContext(ctx, "failed to publish chat typing", "error", err, "lobby_id", lobbyID)
	}
}

func (s *ChatService) publish(ctx context.Context, lobbyID uuid.UUID, msg matchmaking_entities.ChatMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishChatMessage(ctx, lobbyID, msg); err != nil {
		slog.WarnContext(ctx, "failed to publish chat message", "error", err, "lobby_id", lobbyID)
	}
}
