package matchmaking_entities

import (
	"sort"
	"time"

	"github.com/google/uuid"
	common "github.com/matchforge/platform/pkg/domain"
	matchmaking_vo "github.com/matchforge/platform/pkg/domain/matchmaking/valueobjects"
)

// LobbyStatus is the lifecycle state of a Lobby (spec §4.F). It moves
// forward along forming -> ready -> active -> closed, except that a ready
// lobby reverts to forming when a member clears their ready flag.
type LobbyStatus string

const (
	LobbyStatusForming LobbyStatus = "forming"
	LobbyStatusReady   LobbyStatus = "ready"
	LobbyStatusActive  LobbyStatus = "active"
	LobbyStatusClosed  LobbyStatus = "closed"
)

var lobbyStatusRank = map[LobbyStatus]int{
	LobbyStatusForming: 0,
	LobbyStatusReady:   1,
	LobbyStatusActive:  2,
	LobbyStatusClosed:  3,
}

// CanAdvanceTo reports whether moving from s to next respects the monotonic
// forming -> ready -> active -> closed order.
func (s LobbyStatus) CanAdvanceTo(next LobbyStatus) bool {
	return lobbyStatusRank[next] >= lobbyStatusRank[s]
}

// MemberStatus is the per-member slot state inside a Lobby's roster.
type MemberStatus string

const (
	MemberStatusJoined MemberStatus = "joined"
	MemberStatusReady  MemberStatus = "ready"
	MemberStatusLeft   MemberStatus = "left"
	MemberStatusKicked MemberStatus = "kicked"
)

// LobbyMember is one roster slot. At most one entry exists per user; a
// rejoin reuses the slot rather than appending a new one (spec §3).
type LobbyMember struct {
	UserID    uuid.UUID    `json:"user_id" bson:"user_id"`
	Status    MemberStatus `json:"status" bson:"status"`
	IsHost    bool         `json:"is_host" bson:"is_host"`
	ReadyFlag bool         `json:"ready_flag" bson:"ready_flag"`
	JoinedAt  time.Time    `json:"joined_at" bson:"joined_at"`
	LeftAt    *time.Time   `json:"left_at,omitempty" bson:"left_at,omitempty"`
}

func (m LobbyMember) isActive() bool {
	return m.Status == MemberStatusJoined || m.Status == MemberStatusReady
}

// LobbyCapacity is the joint acceptable member-count window the Formation
// Engine committed the match with.
type LobbyCapacity struct {
	Min int `json:"min" bson:"min"`
	Max int `json:"max" bson:"max"`
}

// LobbySettings are the per-lobby behavioral flags (spec §3).
type LobbySettings struct {
	IsPrivate      bool `json:"is_private" bson:"is_private"`
	AllowSpectators bool `json:"allow_spectators" bson:"allow_spectators"`
	AutoStart      bool `json:"auto_start" bson:"auto_start"`
	AutoClose      bool `json:"auto_close" bson:"auto_close"`
}

func DefaultLobbySettings() LobbySettings {
	return LobbySettings{AutoStart: true, AutoClose: true}
}

// Lobby is created only by the Coordinator on a formed match (spec §3/§4.E).
// Version increments on every mutation so LobbyUpdated snapshots can be
// dropped out of order by clients (spec §5).
type Lobby struct {
	common.BaseEntity `bson:",inline"`

	GameID   string                  `json:"game_id" bson:"game_id"`
	GameMode matchmaking_vo.GameMode `json:"game_mode" bson:"game_mode"`
	Region   matchmaking_vo.Region   `json:"region" bson:"region"`
	HostID   uuid.UUID               `json:"host_id" bson:"host_id"`

	Members  []LobbyMember `json:"members" bson:"members"`
	Capacity LobbyCapacity `json:"capacity" bson:"capacity"`
	Settings LobbySettings `json:"settings" bson:"settings"`

	Status    LobbyStatus `json:"status" bson:"status"`
	Version   int         `json:"version" bson:"version"`
	FormedAt  time.Time   `json:"formed_at" bson:"formed_at"`
	ReadyAt   *time.Time  `json:"ready_at,omitempty" bson:"ready_at,omitempty"`
	ActiveAt  *time.Time  `json:"active_at,omitempty" bson:"active_at,omitempty"`
	ClosedAt  *time.Time  `json:"closed_at,omitempty" bson:"closed_at,omitempty"`

	SourceMatchRequestIDs []uuid.UUID `json:"source_match_request_ids" bson:"source_match_request_ids"`
}

// NewLobby constructs a forming Lobby from a formed match's participants.
// hostID must be one of memberIDs (the formation's seed participant).
func NewLobby(owner common.ResourceOwner, gameID string, mode matchmaking_vo.GameMode, region matchmaking_vo.Region, memberIDs []uuid.UUID, hostID uuid.UUID, capacity LobbyCapacity, sourceRequestIDs []uuid.UUID, now time.Time) *Lobby {
	members := make([]LobbyMember, 0, len(memberIDs))
	for _, id := range memberIDs {
		members = append(members, LobbyMember{
			UserID:   id,
			Status:   MemberStatusJoined,
			IsHost:   id == hostID,
			JoinedAt: now,
		})
	}

	return &Lobby{
		BaseEntity:            common.NewEntity(owner),
		GameID:                gameID,
		GameMode:              mode,
		Region:                region,
		HostID:                hostID,
		Members:               members,
		Capacity:              capacity,
		Settings:              DefaultLobbySettings(),
		Status:                LobbyStatusForming,
		Version:               1,
		FormedAt:              now,
		SourceMatchRequestIDs: sourceRequestIDs,
	}
}

func (l *Lobby) bump(now time.Time) {
	l.Version++
	l.UpdatedAt = now
}

// MemberIndex returns the slot index for userID, or -1.
func (l *Lobby) MemberIndex(userID uuid.UUID) int {
	for i, m := range l.Members {
		if m.UserID == userID {
			return i
		}
	}
	return -1
}

// MemberCount is the count of joined+ready slots (spec §3).
func (l *Lobby) MemberCount() int {
	n := 0
	for _, m := range l.Members {
		if m.isActive() {
			n++
		}
	}
	return n
}

// ReadyCount is the count of active slots with readyFlag=true.
func (l *Lobby) ReadyCount() int {
	n := 0
	for _, m := range l.Members {
		if m.isActive() && m.ReadyFlag {
			n++
		}
	}
	return n
}

// Join adds or rejoins userID. Only legal in status=forming.
func (l *Lobby) Join(userID uuid.UUID, now time.Time) error {
	if l.Status == LobbyStatusClosed || l.Status == LobbyStatusActive || l.Status == LobbyStatusReady {
		return common.NewErrIllegalState("lobby is not accepting joins")
	}

	idx := l.MemberIndex(userID)
	if idx >= 0 {
		m := l.Members[idx]
		if m.isActive() {
			return nil
		}
		if l.MemberCount() >= l.Capacity.Max {
			return common.NewErrLobbyFull(l.Capacity.Max)
		}
		l.Members[idx].Status = MemberStatusJoined
		l.Members[idx].ReadyFlag = false
		l.Members[idx].JoinedAt = now
		l.Members[idx].LeftAt = nil
		l.bump(now)
		return nil
	}

	if l.MemberCount() >= l.Capacity.Max {
		return common.NewErrLobbyFull(l.Capacity.Max)
	}
	l.Members = append(l.Members, LobbyMember{UserID: userID, Status: MemberStatusJoined, JoinedAt: now})
	l.bump(now)
	return nil
}

// Leave marks userID as having left and, if they were host, transfers host
// to the longest-joined remaining active member (tie-break by userId
// ascending). Returns whether the lobby became empty (caller closes it).
func (l *Lobby) Leave(userID uuid.UUID, now time.Time) (becameEmpty bool, newHostID uuid.UUID, err error) {
	idx := l.MemberIndex(userID)
	if idx < 0 || !l.Members[idx].isActive() {
		return false, uuid.Nil, common.NewErrIllegalState("user is not an active member of this lobby")
	}

	wasHost := l.Members[idx].IsHost
	l.Members[idx].Status = MemberStatusLeft
	l.Members[idx].ReadyFlag = false
	l.Members[idx].LeftAt = &now
	l.Members[idx].IsHost = false

	if l.MemberCount() == 0 {
		l.bump(now)
		return true, uuid.Nil, nil
	}

	if wasHost {
		newHostID = l.electHost()
		for i := range l.Members {
			l.Members[i].IsHost = l.Members[i].UserID == newHostID
		}
		l.HostID = newHostID
	}

	l.bump(now)
	return false, newHostID, nil
}

// electHost picks the longest-joined active member, ties broken by userId
// ascending (spec §4.F).
func (l *Lobby) electHost() uuid.UUID {
	candidates := make([]LobbyMember, 0, len(l.Members))
	for _, m := range l.Members {
		if m.isActive() {
			candidates = append(candidates, m)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].JoinedAt.Equal(candidates[j].JoinedAt) {
			return candidates[i].UserID.String() < candidates[j].UserID.String()
		}
		return candidates[i].JoinedAt.Before(candidates[j].JoinedAt)
	})
	if len(candidates) == 0 {
		return uuid.Nil
	}
	return candidates[0].UserID
}

// SetReady updates a member's ready flag, or returns an error if the lobby
// is not in a state where readiness can change. It does not change the
// lobby status; the caller applies the forming<->ready transition with
// EvaluateReadiness.
func (l *Lobby) SetReady(userID uuid.UUID, ready bool, now time.Time) error {
	if l.Status != LobbyStatusForming && l.Status != LobbyStatusReady {
		return common.NewErrIllegalState("lobby is not accepting ready changes")
	}
	idx := l.MemberIndex(userID)
	if idx < 0 || !l.Members[idx].isActive() {
		return common.NewErrIllegalState("user is not an active member of this lobby")
	}
	l.Members[idx].ReadyFlag = ready
	if ready {
		l.Members[idx].Status = MemberStatusReady
	} else {
		l.Members[idx].Status = MemberStatusJoined
	}
	l.bump(now)
	return nil
}

// EvaluateReadiness transitions forming->ready or ready->forming based on
// the current member readiness, per spec §4.F. Returns true if status
// changed to ready (caller should start the auto-start timer), and true for
// reverted if status changed back to forming (caller should cancel it).
func (l *Lobby) EvaluateReadiness(now time.Time) (becameReady, reverted bool) {
	count := l.MemberCount()
	allReady := count > 0 && l.ReadyCount() == count && count >= l.Capacity.Min

	switch l.Status {
	case LobbyStatusForming:
		if allReady {
			l.Status = LobbyStatusReady
			l.ReadyAt = &now
			l.bump(now)
			return true, false
		}
	case LobbyStatusReady:
		if !allReady {
			l.Status = LobbyStatusForming
			l.ReadyAt = nil
			l.bump(now)
			return false, true
		}
	}
	return false, false
}

// Start transitions ready->active. Only legal when status=ready.
func (l *Lobby) Start(now time.Time) error {
	if l.Status != LobbyStatusReady {
		return common.NewErrIllegalState("lobby must be ready to start")
	}
	l.Status = LobbyStatusActive
	l.ActiveAt = &now
	l.bump(now)
	return nil
}

// Close transitions to closed from any non-terminal state.
func (l *Lobby) Close(now time.Time) error {
	if l.Status == LobbyStatusClosed {
		return nil
	}
	l.Status = LobbyStatusClosed
	l.ClosedAt = &now
	l.bump(now)
	return nil
}

// BelowMinimum reports whether the active member count has fallen under
// the capacity minimum while active, a trigger for auto-close (spec §4.F).
func (l *Lobby) BelowMinimum() bool {
	return l.MemberCount() < l.Capacity.Min
}
