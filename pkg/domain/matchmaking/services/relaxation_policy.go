package matchmaking_services

import (
	"time"

	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
	matchmaking_vo "github.com/matchforge/platform/pkg/domain/matchmaking/valueobjects"
)

// RelaxationPolicy evaluates whether a searching request's relaxation
// level needs to advance, per the fixed 30s/90s/180s schedule (spec §4.C).
// It is configuration-driven so tests can use a compressed schedule.
type RelaxationPolicy struct {
	level1At time.Duration
	level2At time.Duration
	level3At time.Duration
}

func NewRelaxationPolicy(level1At, level2At, level3At time.Duration) *RelaxationPolicy {
	return &RelaxationPolicy{level1At: level1At, level2At: level2At, level3At: level3At}
}

// TargetLevel returns the level req.SearchDuration(now) warrants.
func (p *RelaxationPolicy) TargetLevel(req *matchmaking_entities.MatchRequest, now time.Time) matchmaking_vo.RelaxationLevel {
	return matchmaking_entities.RelaxationLevelFor(req.SearchDuration(now), p.level1At, p.level2At, p.level3At)
}

// Evaluate advances req's relaxation level in place if the target level is
// higher than its current one, returning whether it changed. On true the
// tick's advanceRelaxations persists the request and re-processes the
// bucket of its first region only; no CriteriaRelaxed event is published.
func (p *RelaxationPolicy) Evaluate(req *matchmaking_entities.MatchRequest, now time.Time) bool {
	target := p.TargetLevel(req, now)
	changed := false
	for req.RelaxationLevel < target {
		if !req.AdvanceRelaxation() {
			break
		}
		changed = true
	}
	return changed
}
