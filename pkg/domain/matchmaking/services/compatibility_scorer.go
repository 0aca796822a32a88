package matchmaking_services

import (
	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
	matchmaking_vo "github.com/matchforge/platform/pkg/domain/matchmaking/valueobjects"
)

// Weights for the group-level compatibility score (spec §4.B).
const (
	weightRegion    = 30.0
	weightLanguage  = 15.0
	weightSkill     = 25.0
	weightGroupSize = 10.0
	weightKarma     = 10.0
	weightWaitTime  = 10.0
)

const minPairwiseScore = 50.0

// EnrichedRequest is a MatchRequest plus the owner's skill/karma on the
// candidate bucket's game, the inputs the Compatibility Scorer needs
// (spec §4.B "request + the owner's per-game skillLevel").
type EnrichedRequest struct {
	Request      *matchmaking_entities.MatchRequest
	SkillLevel   float64
	Karma        float64
	SearchedFor  float64 // seconds searching, for the wait-time bonus
}

// CompatibilityScorer is pure: it holds no state and mutates nothing
// (spec §4.B "Pure").
type CompatibilityScorer struct{}

func NewCompatibilityScorer() *CompatibilityScorer {
	return &CompatibilityScorer{}
}

// PairwiseScore scores two enriched requests. A mode mismatch is a hard
// gate: the pair is not comparable and scores 0.
func (s *CompatibilityScorer) PairwiseScore(a, b EnrichedRequest) float64 {
	if a.Request.GameMode != b.Request.GameMode {
		return 0
	}

	total := 0.0
	total += s.regionScore(a, b)
	total += s.languageScore(a, b)
	total += s.skillScore(a, b)
	total += s.groupSizeScore(a, b)
	total += s.karmaScore(a, b)
	total += s.waitTimeScore(a, b)

	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	return total
}

// GroupScore averages every pairwise score across a candidate group and
// applies the same mode gate at the group level.
func (s *CompatibilityScorer) GroupScore(group []EnrichedRequest) float64 {
	if len(group) < 2 {
		return 0
	}

	sum := 0.0
	pairs := 0
	for i := 0; i < len(group); i++ {
		for j := i + 1; j < len(group); j++ {
			score := s.PairwiseScore(group[i], group[j])
			if score == 0 {
				return 0
			}
			sum += score
			pairs++
		}
	}
	if pairs == 0 {
		return 0
	}
	return sum / float64(pairs)
}

func regionSet(r *matchmaking_entities.MatchRequest) map[matchmaking_vo.Region]bool {
	set := make(map[matchmaking_vo.Region]bool, len(r.Regions))
	for _, region := range r.Regions {
		set[region] = true
	}
	return set
}

func (s *CompatibilityScorer) regionScore(a, b EnrichedRequest) float64 {
	aRegions, bRegions := regionSet(a.Request), regionSet(b.Request)
	if aRegions[matchmaking_vo.RegionAny] || bRegions[matchmaking_vo.RegionAny] {
		return weightRegion
	}

	overlap := 0
	for r := range aRegions {
		if bRegions[r] {
			overlap++
		}
	}

	aCriteria, bCriteria := a.Request.EffectiveCriteria(), b.Request.EffectiveCriteria()
	strict := aCriteria.RegionPreference == matchmaking_vo.PreferenceStrict || bCriteria.RegionPreference == matchmaking_vo.PreferenceStrict

	if strict {
		if overlap == 0 {
			return 0
		}
		return weightRegion
	}

	minSize := len(aRegions)
	if len(bRegions) < minSize {
		minSize = len(bRegions)
	}
	if minSize == 0 {
		return 0
	}
	return weightRegion * float64(overlap) / float64(minSize)
}

func languageSet(langs []string) map[string]bool {
	set := make(map[string]bool, len(langs))
	for _, l := range langs {
		set[l] = true
	}
	return set
}

func (s *CompatibilityScorer) languageScore(a, b EnrichedRequest) float64 {
	if len(a.Request.Languages) == 0 || len(b.Request.Languages) == 0 {
		return weightLanguage
	}

	aLangs, bLangs := languageSet(a.Request.Languages), languageSet(b.Request.Languages)
	overlap := 0
	for l := range aLangs {
		if bLangs[l] {
			overlap++
		}
	}

	aCriteria, bCriteria := a.Request.EffectiveCriteria(), b.Request.EffectiveCriteria()
	strict := aCriteria.LanguagePreference == matchmaking_vo.PreferenceStrict || bCriteria.LanguagePreference == matchmaking_vo.PreferenceStrict

	if strict {
		if overlap == 0 {
			return 0
		}
		return weightLanguage
	}

	minSize := len(aLangs)
	if len(bLangs) < minSize {
		minSize = len(bLangs)
	}
	if minSize == 0 {
		return 0
	}
	return weightLanguage * float64(overlap) / float64(minSize)
}

func (s *CompatibilityScorer) skillScore(a, b EnrichedRequest) float64 {
	if a.Request.SkillPreference == matchmaking_vo.SkillPreferenceAny || b.Request.SkillPreference == matchmaking_vo.SkillPreferenceAny {
		return weightSkill
	}

	radius := a.Request.RelaxationLevel.SkillRadius()
	if b.Request.RelaxationLevel.SkillRadius() > radius {
		radius = b.Request.RelaxationLevel.SkillRadius()
	}
	if radius <= 0 {
		radius = 1
	}

	diff := a.SkillLevel - b.SkillLevel
	if diff < 0 {
		diff = -diff
	}
	proximity := 1 - diff/radius
	if proximity < 0 {
		proximity = 0
	}
	return weightSkill * proximity
}

func (s *CompatibilityScorer) groupSizeScore(a, b EnrichedRequest) float64 {
	if a.Request.GroupSize.Overlaps(b.Request.GroupSize) {
		return weightGroupSize
	}
	return 0
}

func (s *CompatibilityScorer) karmaScore(a, b EnrichedRequest) float64 {
	avg := (a.Karma + b.Karma) / 2
	if avg < 0 {
		avg = 0
	}
	if avg > 100 {
		avg = 100
	}
	return weightKarma * avg / 100
}

func (s *CompatibilityScorer) waitTimeScore(a, b EnrichedRequest) float64 {
	const waitCap = 180.0
	waitFactor := func(seconds float64) float64 {
		f := seconds / waitCap
		if f > 1 {
			f = 1
		}
		if f < 0 {
			f = 0
		}
		return f
	}
	avg := (waitFactor(a.SearchedFor) + waitFactor(b.SearchedFor)) / 2
	return weightWaitTime * avg
}

// olderRequestWins breaks a score tie by searchStartTime, older first
// (spec §4.B "Tie-breaks").
func olderRequestWins(a, b *matchmaking_entities.MatchRequest) bool {
	return a.SearchStartTime.Before(b.SearchStartTime)
}
