// Package matchmaking_usecases adapts the matchmaking domain services to
// the ports/in handler interfaces the HTTP controllers depend on.
package matchmaking_usecases

import (
	"context"

	"github.com/google/uuid"
	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
	matchmaking_in "github.com/matchforge/platform/pkg/domain/matchmaking/ports/in"
	matchmaking_services "github.com/matchforge/platform/pkg/domain/matchmaking/services"
)

type SubmitMatchRequestUseCase struct {
	coordinator *matchmaking_services.MatchmakingCoordinator
}

func NewSubmitMatchRequestUseCase(c *matchmaking_services.MatchmakingCoordinator) *SubmitMatchRequestUseCase {
	return &SubmitMatchRequestUseCase{coordinator: c}
}

func (uc *SubmitMatchRequestUseCase) Exec(ctx context.Context, userID uuid.UUID, cmd matchmaking_in.SubmitMatchRequestCommand) (*matchmaking_entities.MatchRequest, error) {
	return uc.coordinator.Submit(ctx, userID, cmd)
}

type CancelMatchRequestUseCase struct {
	coordinator *matchmaking_services.MatchmakingCoordinator
}

func NewCancelMatchRequestUseCase(c *matchmaking_services.MatchmakingCoordinator) *CancelMatchRequestUseCase {
	return &CancelMatchRequestUseCase{coordinator: c}
}

func (uc *CancelMatchRequestUseCase) Exec(ctx context.Context, userID, requestID uuid.UUID) (*matchmaking_entities.MatchRequest, error) {
	return uc.coordinator.Cancel(ctx, userID, requestID)
}

type GetMatchmakingStatusUseCase struct {
	coordinator *matchmaking_services.MatchmakingCoordinator
}

func NewGetMatchmakingStatusUseCase(c *matchmaking_services.MatchmakingCoordinator) *GetMatchmakingStatusUseCase {
	return &GetMatchmakingStatusUseCase{coordinator: c}
}

func (uc *GetMatchmakingStatusUseCase) Exec(ctx context.Context, userID uuid.UUID) (*matchmaking_entities.MatchRequest, *matchmaking_entities.QueueInfo, error) {
	return uc.coordinator.Status(ctx, userID)
}

type GetMatchHistoryUseCase struct {
	coordinator *matchmaking_services.MatchmakingCoordinator
}

func NewGetMatchHistoryUseCase(c *matchmaking_services.MatchmakingCoordinator) *GetMatchHistoryUseCase {
	return &GetMatchHistoryUseCase{coordinator: c}
}

func (uc *GetMatchHistoryUseCase) Exec(ctx context.Context, userID uuid.UUID, query matchmaking_in.GetMatchHistoryQuery) (*matchmaking_entities.HistoryPage, error) {
	return uc.coordinator.History(ctx, userID, query)
}

type GetMatchmakingStatsUseCase struct {
	coordinator *matchmaking_services.MatchmakingCoordinator
}

func NewGetMatchmakingStatsUseCase(c *matchmaking_services.MatchmakingCoordinator) *GetMatchmakingStatsUseCase {
	return &GetMatchmakingStatsUseCase{coordinator: c}
}

func (uc *GetMatchmakingStatsUseCase) Exec(ctx context.Context, hours int) (*matchmaking_in.MatchmakingStats, error) {
	return uc.coordinator.Stats(ctx, hours)
}
