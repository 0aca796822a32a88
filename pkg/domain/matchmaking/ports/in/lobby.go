package matchmaking_in

import (
	"context"

	"github.com/google/uuid"
	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
)

// JoinLobbyCommandHandler implements F's join() operation (spec §4.F).
type JoinLobbyCommandHandler interface {
	Exec(ctx context.Context, userID, lobbyID uuid.UUID) (*matchmaking_entities.Lobby, error)
}

// LeaveLobbyCommandHandler implements F's leave() operation (spec §4.F).
type LeaveLobbyCommandHandler interface {
	Exec(ctx context.Context, userID, lobbyID uuid.UUID) (*matchmaking_entities.Lobby, error)
}

// SetLobbyReadyCommand is the POST /lobbies/:id/ready body (spec §6).
type SetLobbyReadyCommand struct {
	Ready bool `json:"ready"`
}

// SetLobbyReadyCommandHandler implements F's setReady() operation.
type SetLobbyReadyCommandHandler interface {
	Exec(ctx context.Context, userID, lobbyID uuid.UUID, cmd SetLobbyReadyCommand) (*matchmaking_entities.Lobby, error)
}

// StartLobbyCommandHandler implements F's start() operation, host-only.
type StartLobbyCommandHandler interface {
	Exec(ctx context.Context, userID, lobbyID uuid.UUID) (*matchmaking_entities.Lobby, error)
}

// CloseLobbyCommandHandler implements F's close() operation.
type CloseLobbyCommandHandler interface {
	Exec(ctx context.Context, userID, lobbyID uuid.UUID) (*matchmaking_entities.Lobby, error)
}

// GetLobbyQueryHandler answers GET /lobbies/:id.
type GetLobbyQueryHandler interface {
	Exec(ctx context.Context, userID, lobbyID uuid.UUID) (*matchmaking_entities.Lobby, error)
}

// ListLobbiesQuery is the GET /lobbies query (spec §6).
type ListLobbiesQuery struct {
	IncludeHistory bool
}

// ListLobbiesQueryHandler implements F's list() operation.
type ListLobbiesQueryHandler interface {
	Exec(ctx context.Context, userID uuid.UUID, query ListLobbiesQuery) ([]*matchmaking_entities.Lobby, error)
}
