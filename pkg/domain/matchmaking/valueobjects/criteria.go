package matchmaking_vo

import "fmt"

// GameMode is the mode a MatchRequest is searching under. Mismatched modes
// are a hard gate in the Compatibility Scorer (spec §4.B).
type GameMode string

const (
	GameModeCasual      GameMode = "casual"
	GameModeCompetitive GameMode = "competitive"
	GameModeRanked      GameMode = "ranked"
	GameModeCustom      GameMode = "custom"
)

func (m GameMode) IsValid() bool {
	switch m {
	case GameModeCasual, GameModeCompetitive, GameModeRanked, GameModeCustom:
		return true
	default:
		return false
	}
}

// Region is a matchmaking region. ANY is a wildcard that always overlaps.
type Region string

const (
	RegionNA  Region = "NA"
	RegionEU  Region = "EU"
	RegionAS  Region = "AS"
	RegionSA  Region = "SA"
	RegionOC  Region = "OC"
	RegionAF  Region = "AF"
	RegionAny Region = "ANY"
)

func (r Region) IsValid() bool {
	switch r {
	case RegionNA, RegionEU, RegionAS, RegionSA, RegionOC, RegionAF, RegionAny:
		return true
	default:
		return false
	}
}

// MatchPreference controls how strictly a dimension (region, language) is
// enforced, and how relaxation is allowed to widen it (spec §4.C).
type MatchPreference string

const (
	PreferenceStrict   MatchPreference = "strict"
	PreferencePreferred MatchPreference = "preferred"
	PreferenceAny      MatchPreference = "any"
)

func (p MatchPreference) IsValid() bool {
	switch p {
	case PreferenceStrict, PreferencePreferred, PreferenceAny:
		return true
	default:
		return false
	}
}

// Relax widens a preference by exactly one notch, per the §4.C schedule
// (strict -> preferred -> any -> any).
func (p MatchPreference) Relax() MatchPreference {
	switch p {
	case PreferenceStrict:
		return PreferencePreferred
	case PreferencePreferred:
		return PreferenceAny
	default:
		return PreferenceAny
	}
}

// SkillPreference controls whether skill proximity is scored at all.
type SkillPreference string

const (
	SkillPreferenceSimilar SkillPreference = "similar"
	SkillPreferenceAny     SkillPreference = "any"
)

func (p SkillPreference) IsValid() bool {
	return p == SkillPreferenceSimilar || p == SkillPreferenceAny
}

// GameWeight pairs a game with its weight in a multi-game request; the
// primary game is the highest-weighted entry (spec §3, ties by array order).
type GameWeight struct {
	GameID string `json:"game_id" bson:"game_id"`
	Weight int    `json:"weight" bson:"weight"`
}

func (g GameWeight) Validate() error {
	if g.GameID == "" {
		return fmt.Errorf("game_id is required")
	}
	if g.Weight < 1 || g.Weight > 10 {
		return fmt.Errorf("game weight must be between 1 and 10, got %d", g.Weight)
	}
	return nil
}

// GroupSize is the joint acceptable party size window for a request.
type GroupSize struct {
	Min int `json:"min" bson:"min"`
	Max int `json:"max" bson:"max"`
}

func (g GroupSize) Validate() error {
	if g.Min < 1 {
		return fmt.Errorf("group size min must be >= 1")
	}
	if g.Max > 100 {
		return fmt.Errorf("group size max must be <= 100")
	}
	if g.Min > g.Max {
		return fmt.Errorf("group size min (%d) cannot exceed max (%d)", g.Min, g.Max)
	}
	return nil
}

// Overlaps reports whether the two windows share at least one common size.
func (g GroupSize) Overlaps(o GroupSize) bool {
	return g.Min <= o.Max && o.Min <= g.Max
}

// RelaxationLevel is the discrete widening step a request has reached.
type RelaxationLevel int

const (
	RelaxationLevel0 RelaxationLevel = 0
	RelaxationLevel1 RelaxationLevel = 1
	RelaxationLevel2 RelaxationLevel = 2
	RelaxationLevel3 RelaxationLevel = 3
)

// SkillRadius returns the acceptable |skillA-skillB| window at this level
// (spec §4.C schedule: 10/20/35/60).
func (l RelaxationLevel) SkillRadius() float64 {
	switch l {
	case RelaxationLevel0:
		return 10
	case RelaxationLevel1:
		return 20
	case RelaxationLevel2:
		return 35
	default:
		return 60
	}
}

// EffectiveCriteria is the widened view of a request's criteria at its
// current relaxation level. It is computed on demand and never persisted
// (spec §4.C: "the stored criteria are never mutated").
type EffectiveCriteria struct {
	SkillRadius      float64
	RegionPreference MatchPreference
	LanguagePreference MatchPreference
}
