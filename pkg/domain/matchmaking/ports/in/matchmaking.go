package matchmaking_in

import (
	"context"
	"time"

	"github.com/google/uuid"
	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
)

// SubmitMatchRequestCommand is the POST /matchmaking body (spec §6).
type SubmitMatchRequestCommand struct {
	Games              []GameWeightInput `json:"games"`
	GameMode           string            `json:"game_mode"`
	Regions            []string          `json:"regions"`
	RegionPreference   string            `json:"region_preference"`
	Languages          []string          `json:"languages"`
	LanguagePreference string            `json:"language_preference"`
	SkillPreference    string            `json:"skill_preference"`
	GroupSize          GroupSizeInput    `json:"group_size"`
	ScheduledTime      *time.Time        `json:"scheduled_time,omitempty"`
	PreselectedUsers   []uuid.UUID       `json:"preselected_users,omitempty"`
}

type GameWeightInput struct {
	GameID string `json:"game_id"`
	Weight int    `json:"weight"`
}

type GroupSizeInput struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// SubmitMatchRequestCommandHandler implements the Coordinator's submit()
// operation (spec §4.E).
type SubmitMatchRequestCommandHandler interface {
	Exec(ctx context.Context, userID uuid.UUID, cmd SubmitMatchRequestCommand) (*matchmaking_entities.MatchRequest, error)
}

// CancelMatchRequestCommandHandler implements the Coordinator's cancel()
// operation (spec §4.E).
type CancelMatchRequestCommandHandler interface {
	Exec(ctx context.Context, userID uuid.UUID, requestID uuid.UUID) (*matchmaking_entities.MatchRequest, error)
}

// GetMatchmakingStatusQueryHandler implements the Coordinator's status()
// operation (spec §4.E).
type GetMatchmakingStatusQueryHandler interface {
	Exec(ctx context.Context, userID uuid.UUID) (*matchmaking_entities.MatchRequest, *matchmaking_entities.QueueInfo, error)
}

// GetMatchHistoryQuery is the GET /matchmaking/history query (spec §6).
type GetMatchHistoryQuery struct {
	Page   int
	Limit  int
	GameID string
	Status string
}

// GetMatchHistoryQueryHandler implements the Coordinator's history()
// operation (spec §4.E).
type GetMatchHistoryQueryHandler interface {
	Exec(ctx context.Context, userID uuid.UUID, query GetMatchHistoryQuery) (*matchmaking_entities.HistoryPage, error)
}

// MatchmakingStats answers GET /matchmaking/stats (spec §6, admin-only).
type MatchmakingStats struct {
	Queues    []QueueStat `json:"queues"`
	Matches   MatchStat   `json:"matches"`
	Timestamp time.Time   `json:"timestamp"`
}

type QueueStat struct {
	GameID string `json:"game_id"`
	Mode   string `json:"mode"`
	Region string `json:"region"`
	Size   int    `json:"size"`
}

type MatchStat struct {
	FormedLastHour  int64         `json:"formed_last_hour"`
	AverageWaitTime time.Duration `json:"average_wait_time"`
}

// GetMatchmakingStatsQueryHandler implements the admin stats endpoint
// (SPEC_FULL supplemental feature, reusing the Coordinator's rolling
// statistics).
type GetMatchmakingStatsQueryHandler interface {
	Exec(ctx context.Context, hours int) (*MatchmakingStats, error)
}
