package matchmaking_usecases

import (
	"context"

	"github.com/google/uuid"
	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
	matchmaking_in "github.com/matchforge/platform/pkg/domain/matchmaking/ports/in"
	matchmaking_services "github.com/matchforge/platform/pkg/domain/matchmaking/services"
)

type PostChatMessageUseCase struct {
	chat *matchmaking_services.ChatService
}

func NewPostChatMessageUseCase(chat *matchmaking_services.ChatService) *PostChatMessageUseCase {
	return &PostChatMessageUseCase{chat: chat}
}

func (uc *PostChatMessageUseCase) Exec(ctx context.Context, senderID, lobbyID uuid.UUID, cmd matchmaking_in.PostChatMessageCommand) (*matchmaking_entities.ChatMessage, error) {
	contentType := matchmaking_entities.ChatContentType(cmd.ContentType)
	return uc.chat.Post(ctx, senderID, lobbyID, cmd.Content, contentType)
}

type GetChatHistoryUseCase struct {
	chat *matchmaking_services.ChatService
}

func NewGetChatHistoryUseCase(chat *matchmaking_services.ChatService) *GetChatHistoryUseCase {
	return &GetChatHistoryUseCase{chat: chat}
}

func (uc *GetChatHistoryUseCase) Exec(ctx context.Context, userID, lobbyID uuid.UUID, query matchmaking_in.GetChatHistoryQuery) (*matchmaking_in.ChatHistoryResult, error) {
	messages, hasMore, err := uc.chat.History(ctx, userID, lobbyID, query.Limit, query.Before)
	if err != nil {
		return nil, err
	}
	return &matchmaking_in.ChatHistoryResult{ChatID: lobbyID, Messages: messages, HasMore: hasMore}, nil
}
