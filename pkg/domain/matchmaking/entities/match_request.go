package matchmaking_entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	common "github.com/matchforge/platform/pkg/domain"
	matchmaking_vo "github.com/matchforge/platform/pkg/domain/matchmaking/valueobjects"
)

// RequestStatus is the MatchRequest lifecycle state (spec §3: searching is
// the only non-terminal state; once terminal a request never reopens).
type RequestStatus string

const (
	RequestStatusSearching RequestStatus = "searching"
	RequestStatusMatched   RequestStatus = "matched"
	RequestStatusCancelled RequestStatus = "cancelled"
	RequestStatusExpired   RequestStatus = "expired"
)

func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusMatched || s == RequestStatusCancelled || s == RequestStatusExpired
}

// MatchRequest is the aggregate root submitted by a player looking for a
// match (spec §3 "MatchRequest"). At most one request per user may be
// searching at any instant; that invariant is enforced by the Coordinator
// and the Queue Index, not by this type.
type MatchRequest struct {
	common.BaseEntity `bson:",inline"`

	OwnerID uuid.UUID `json:"owner_id" bson:"owner_id"`

	Games            []matchmaking_vo.GameWeight      `json:"games" bson:"games"`
	GameMode         matchmaking_vo.GameMode           `json:"game_mode" bson:"game_mode"`
	Regions          []matchmaking_vo.Region           `json:"regions" bson:"regions"`
	RegionPreference matchmaking_vo.MatchPreference    `json:"region_preference" bson:"region_preference"`
	Languages        []string                          `json:"languages" bson:"languages"`
	LanguagePreference matchmaking_vo.MatchPreference  `json:"language_preference" bson:"language_preference"`
	SkillPreference  matchmaking_vo.SkillPreference    `json:"skill_preference" bson:"skill_preference"`
	GroupSize        matchmaking_vo.GroupSize          `json:"group_size" bson:"group_size"`
	ScheduledTime    *time.Time                        `json:"scheduled_time,omitempty" bson:"scheduled_time,omitempty"`
	PreselectedUsers []uuid.UUID                       `json:"preselected_users,omitempty" bson:"preselected_users,omitempty"`

	Status          RequestStatus `json:"status" bson:"status"`
	SearchStartTime time.Time     `json:"search_start_time" bson:"search_start_time"`
	RelaxationLevel matchmaking_vo.RelaxationLevel `json:"relaxation_level" bson:"relaxation_level"`
	PrimaryGameID   string        `json:"primary_game_id" bson:"primary_game_id"`

	MatchedLobbyID *uuid.UUID `json:"matched_lobby_id,omitempty" bson:"matched_lobby_id,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	ExpiredAt      *time.Time `json:"expired_at,omitempty" bson:"expired_at,omitempty"`

	// Indexed is false for a scheduled request until its searchStartTime
	// arrives; the Coordinator's tick inserts it into the Queue Index on
	// the first pass where IsActivated is true (spec §9 scheduledTime).
	Indexed bool `json:"indexed" bson:"indexed"`
}

// Criteria is the client-facing submission payload validated before a
// MatchRequest is constructed (spec §3 "Criteria").
type Criteria struct {
	Games              []matchmaking_vo.GameWeight
	GameMode           matchmaking_vo.GameMode
	Regions            []matchmaking_vo.Region
	RegionPreference   matchmaking_vo.MatchPreference
	Languages          []string
	LanguagePreference matchmaking_vo.MatchPreference
	SkillPreference    matchmaking_vo.SkillPreference
	GroupSize          matchmaking_vo.GroupSize
	ScheduledTime      *time.Time
	PreselectedUsers   []uuid.UUID
}

// Validate enforces the field-level invariants of spec §3 and returns a
// field->message map suitable for a VALIDATION_ERROR details payload.
func (c Criteria) Validate(now time.Time) map[string]string {
	errs := map[string]string{}

	if len(c.Games) == 0 {
		errs["games"] = "at least one game is required"
	} else if len(c.Games) > 5 {
		errs["games"] = "at most 5 games are allowed"
	} else {
		for _, g := range c.Games {
			if err := g.Validate(); err != nil {
				errs["games"] = err.Error()
				break
			}
		}
	}

	if !c.GameMode.IsValid() {
		errs["game_mode"] = fmt.Sprintf("invalid game mode: %s", c.GameMode)
	}

	if len(c.Regions) == 0 {
		errs["regions"] = "at least one region is required"
	} else {
		for _, r := range c.Regions {
			if !r.IsValid() {
				errs["regions"] = fmt.Sprintf("invalid region: %s", r)
				break
			}
		}
	}

	if !c.RegionPreference.IsValid() {
		errs["region_preference"] = fmt.Sprintf("invalid region preference: %s", c.RegionPreference)
	}

	if len(c.Languages) > 10 {
		errs["languages"] = "at most 10 languages are allowed"
	}
	for _, l := range c.Languages {
		if len(l) < 2 || len(l) > 5 {
			errs["languages"] = fmt.Sprintf("invalid language code: %s", l)
			break
		}
	}

	if !c.LanguagePreference.IsValid() {
		errs["language_preference"] = fmt.Sprintf("invalid language preference: %s", c.LanguagePreference)
	}

	if !c.SkillPreference.IsValid() {
		errs["skill_preference"] = fmt.Sprintf("invalid skill preference: %s", c.SkillPreference)
	}

	if err := c.GroupSize.Validate(); err != nil {
		errs["group_size"] = err.Error()
	}

	if c.ScheduledTime != nil && c.ScheduledTime.After(now.Add(7*24*time.Hour)) {
		errs["scheduled_time"] = "scheduled time cannot be more than 7 days out"
	}

	return errs
}

// PrimaryGame returns the game with the highest weight, breaking ties by
// array order (spec §3 "primaryGameId").
func (c Criteria) PrimaryGame() string {
	if len(c.Games) == 0 {
		return ""
	}
	best := c.Games[0]
	for _, g := range c.Games[1:] {
		if g.Weight > best.Weight {
			best = g
		}
	}
	return best.GameID
}

// NewMatchRequest constructs a searching MatchRequest. searchStartTime is
// `now`, unless a future ScheduledTime is given, in which case the request
// activates then (spec §9 Open Question on scheduledTime).
func NewMatchRequest(owner common.ResourceOwner, ownerID uuid.UUID, c Criteria, now time.Time) *MatchRequest {
	searchStart := now
	if c.ScheduledTime != nil && c.ScheduledTime.After(now) {
		searchStart = *c.ScheduledTime
	}

	return &MatchRequest{
		BaseEntity:         common.NewEntity(owner),
		OwnerID:            ownerID,
		Games:              c.Games,
		GameMode:           c.GameMode,
		Regions:            c.Regions,
		RegionPreference:   c.RegionPreference,
		Languages:          c.Languages,
		LanguagePreference: c.LanguagePreference,
		SkillPreference:    c.SkillPreference,
		GroupSize:          c.GroupSize,
		ScheduledTime:      c.ScheduledTime,
		PreselectedUsers:   c.PreselectedUsers,
		Status:             RequestStatusSearching,
		SearchStartTime:    searchStart,
		RelaxationLevel:    matchmaking_vo.RelaxationLevel0,
		PrimaryGameID:      c.PrimaryGame(),
	}
}

// IsActivated reports whether a scheduled request's search time has arrived
// and it is therefore eligible for Queue Index insertion.
func (r *MatchRequest) IsActivated(now time.Time) bool {
	return !r.SearchStartTime.After(now)
}

// SearchDuration is a pure virtual, never persisted (spec §9).
func (r *MatchRequest) SearchDuration(now time.Time) time.Duration {
	return now.Sub(r.SearchStartTime)
}

// EffectiveCriteria derives the widened criteria view for the request's
// current relaxation level (spec §4.C).
func (r *MatchRequest) EffectiveCriteria() matchmaking_vo.EffectiveCriteria {
	regionPref := r.RegionPreference
	langPref := r.LanguagePreference
	for level := matchmaking_vo.RelaxationLevel(0); level < r.RelaxationLevel; level++ {
		regionPref = regionPref.Relax()
		langPref = langPref.Relax()
	}
	return matchmaking_vo.EffectiveCriteria{
		SkillRadius:        r.RelaxationLevel.SkillRadius(),
		RegionPreference:   regionPref,
		LanguagePreference: langPref,
	}
}

// AdvanceRelaxation bumps the relaxation level by one, if not already
// terminal. RelaxationLevel is monotonically non-decreasing (spec §3).
func (r *MatchRequest) AdvanceRelaxation() bool {
	if r.RelaxationLevel >= matchmaking_vo.RelaxationLevel3 {
		return false
	}
	r.RelaxationLevel++
	r.UpdatedAt = time.Now().UTC()
	return true
}

// RelaxationLevelFor computes the level a request should be at given its
// search duration and the configured thresholds (spec §4.C: 30/90/180s).
func RelaxationLevelFor(duration time.Duration, at1, at2, at3 time.Duration) matchmaking_vo.RelaxationLevel {
	switch {
	case duration >= at3:
		return matchmaking_vo.RelaxationLevel3
	case duration >= at2:
		return matchmaking_vo.RelaxationLevel2
	case duration >= at1:
		return matchmaking_vo.RelaxationLevel1
	default:
		return matchmaking_vo.RelaxationLevel0
	}
}

// MarkIndexed records that this request has been inserted into the Queue
// Index, so the tick's activation pass does not re-insert it.
func (r *MatchRequest) MarkIndexed(now time.Time) {
	r.Indexed = true
	r.UpdatedAt = now
}

func (r *MatchRequest) MarkMatched(lobbyID uuid.UUID, now time.Time) error {
	if r.Status != RequestStatusSearching {
		return fmt.Errorf("cannot mark matched: request %s is %s", r.ID, r.Status)
	}
	r.Status = RequestStatusMatched
	r.MatchedLobbyID = &lobbyID
	r.UpdatedAt = now
	return nil
}

func (r *MatchRequest) MarkCancelled(now time.Time) error {
	if r.Status != RequestStatusSearching {
		return fmt.Errorf("cannot cancel: request %s is %s", r.ID, r.Status)
	}
	r.Status = RequestStatusCancelled
	r.CancelledAt = &now
	r.UpdatedAt = now
	return nil
}

func (r *MatchRequest) MarkExpired(now time.Time) error {
	if r.Status != RequestStatusSearching {
		return fmt.Errorf("cannot expire: request %s is %s", r.ID, r.Status)
	}
	r.Status = RequestStatusExpired
	r.ExpiredAt = &now
	r.UpdatedAt = now
	return nil
}
