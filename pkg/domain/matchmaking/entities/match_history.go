package matchmaking_entities

import (
	"time"

	"github.com/google/uuid"
)

// MatchHistoryEntry is one row of a user's matchmaking history (spec §4.E
// "history"), derived from a terminal MatchRequest.
type MatchHistoryEntry struct {
	RequestID   uuid.UUID     `json:"request_id"`
	GameID      string        `json:"game_id"`
	Status      RequestStatus `json:"status"`
	LobbyID     *uuid.UUID    `json:"lobby_id,omitempty"`
	SearchStart time.Time     `json:"search_start_time"`
	ResolvedAt  time.Time     `json:"resolved_at"`
	WaitTime    time.Duration `json:"wait_time"`
}

// HistoryFilter narrows a history page by game and/or status.
type HistoryFilter struct {
	GameID string
	Status RequestStatus
}

// PageRequest is the generic page/limit pair every listing endpoint accepts.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps page/limit to sane defaults.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	return p
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// HistoryPage is the paginated response for matchmaking history.
type HistoryPage struct {
	Entries    []MatchHistoryEntry `json:"entries"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	Total      int64               `json:"total"`
	HasMore    bool                `json:"has_more"`
}

// QueueInfo answers the status() operation's live queue summary
// (spec §4.E status, §6 GET /matchmaking/status).
type QueueInfo struct {
	Position           int           `json:"position"`
	PotentialMatches   int           `json:"potential_matches"`
	EstimatedWaitTime  time.Duration `json:"estimated_wait_time"`
	Confidence         string        `json:"confidence"`
}
