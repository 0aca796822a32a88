package matchmaking_usecases

import (
	"context"

	"github.com/google/uuid"
	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
	matchmaking_in "github.com/matchforge/platform/pkg/domain/matchmaking/ports/in"
	matchmaking_services "github.com/matchforge/platform/pkg/domain/matchmaking/services"
)

type JoinLobbyUseCase struct {
	lobbies *matchmaking_services.LobbyStateMachine
}

func NewJoinLobbyUseCase(lobbies *matchmaking_services.LobbyStateMachine) *JoinLobbyUseCase {
	return &JoinLobbyUseCase{lobbies: lobbies}
}

func (uc *JoinLobbyUseCase) Exec(ctx context.Context, userID, lobbyID uuid.UUID) (*matchmaking_entities.Lobby, error) {
	return uc.lobbies.Join(ctx, userID, lobbyID)
}

type LeaveLobbyUseCase struct {
	lobbies *matchmaking_services.LobbyStateMachine
}

func NewLeaveLobbyUseCase(lobbies *matchmaking_services.LobbyStateMachine) *LeaveLobbyUseCase {
	return &LeaveLobbyUseCase{lobbies: lobbies}
}

func (uc *LeaveLobbyUseCase) Exec(ctx context.Context, userID, lobbyID uuid.UUID) (*matchmaking_entities.Lobby, error) {
	return uc.lobbies.Leave(ctx, userID, lobbyID)
}

type SetLobbyReadyUseCase struct {
	lobbies *matchmaking_services.LobbyStateMachine
}

func NewSetLobbyReadyUseCase(lobbies *matchmaking_services.LobbyStateMachine) *SetLobbyReadyUseCase {
	return &SetLobbyReadyUseCase{lobbies: lobbies}
}

func (uc *SetLobbyReadyUseCase) Exec(ctx context.Context, userID, lobbyID uuid.UUID, cmd matchmaking_in.SetLobbyReadyCommand) (*matchmaking_entities.Lobby, error) {
	return uc.lobbies.SetReady(ctx, userID, lobbyID, cmd.Ready)
}

type StartLobbyUseCase struct {
	lobbies *matchmaking_services.LobbyStateMachine
}

func NewStartLobbyUseCase(lobbies *matchmaking_services.LobbyStateMachine) *StartLobbyUseCase {
	return &StartLobbyUseCase{lobbies: lobbies}
}

func (uc *StartLobbyUseCase) Exec(ctx context.Context, userID, lobbyID uuid.UUID) (*matchmaking_entities.Lobby, error) {
	return uc.lobbies.Start(ctx, userID, lobbyID)
}

type CloseLobbyUseCase struct {
	lobbies *matchmaking_services.LobbyStateMachine
}

func NewCloseLobbyUseCase(lobbies *matchmaking_services.LobbyStateMachine) *CloseLobbyUseCase {
	return &CloseLobbyUseCase{lobbies: lobbies}
}

func (uc *CloseLobbyUseCase) Exec(ctx context.Context, userID, lobbyID uuid.UUID) (*matchmaking_entities.Lobby, error) {
	return uc.lobbies.Close(ctx, userID, lobbyID)
}

type GetLobbyUseCase struct {
	lobbies *matchmaking_services.LobbyStateMachine
}

func NewGetLobbyUseCase(lobbies *matchmaking_services.LobbyStateMachine) *GetLobbyUseCase {
	return &GetLobbyUseCase{lobbies: lobbies}
}

func (uc *GetLobbyUseCase) Exec(ctx context.Context, userID, lobbyID uuid.UUID) (*matchmaking_entities.Lobby, error) {
	return uc.lobbies.Get(ctx, userID, lobbyID)
}

type ListLobbiesUseCase struct {
	lobbies *matchmaking_services.LobbyStateMachine
}

func NewListLobbiesUseCase(lobbies *matchmaking_services.LobbyStateMachine) *ListLobbiesUseCase {
	return &ListLobbiesUseCase{lobbies: lobbies}
}

func (uc *ListLobbiesUseCase) Exec(ctx context.Context, userID uuid.UUID, query matchmaking_in.ListLobbiesQuery) ([]*matchmaking_entities.Lobby, error) {
	return uc.lobbies.List(ctx, userID, query.IncludeHistory)
}
