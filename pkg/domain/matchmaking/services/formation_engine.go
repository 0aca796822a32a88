package matchmaking_services

// CommittedMatch is one group the Formation Engine assembled from a
// bucket's snapshot (spec §4.D, step 3.d).
type CommittedMatch struct {
	Participants []EnrichedRequest
	Score        float64
	JointMin     int
	JointMax     int
}

// FormationEngine runs the greedy per-bucket grouping algorithm
// (spec §4.D). It is deterministic: identical snapshots and skills always
// produce identical committed matches in identical order.
type FormationEngine struct {
	scorer *CompatibilityScorer
}

func NewFormationEngine(scorer *CompatibilityScorer) *FormationEngine {
	return &FormationEngine{scorer: scorer}
}

// Form runs steps 1-3 of spec §4.D over a bucket's ordered snapshot
// (oldest searchStartTime first) and returns every committed match.
func (e *FormationEngine) Form(snapshot []EnrichedRequest) []CommittedMatch {
	usable := e.dropUnsatisfiable(snapshot)
	used := make(map[*EnrichedRequest]bool, len(usable))

	var matches []CommittedMatch
	for i := range usable {
		seed := &usable[i]
		if used[seed] {
			continue
		}

		group, jointMin, jointMax := e.growGroup(seed, usable, used)
		if len(group) >= jointMin {
			score := e.scorer.GroupScore(group)
			matches = append(matches, CommittedMatch{
				Participants: group,
				Score:        score,
				JointMin:     jointMin,
				JointMax:     jointMax,
			})
			for j := range group {
				for k := range usable {
					if usable[k].Request.ID == group[j].Request.ID {
						used[&usable[k]] = true
					}
				}
			}
		}
	}

	return matches
}

// dropUnsatisfiable removes requests whose [min,max] window cannot overlap
// any other request's window in the bucket at all (spec §4.D step 1).
func (e *FormationEngine) dropUnsatisfiable(snapshot []EnrichedRequest) []EnrichedRequest {
	kept := make([]EnrichedRequest, 0, len(snapshot))
	for _, candidate := range snapshot {
		satisfiable := false
		for _, other := range snapshot {
			if other.Request.ID == candidate.Request.ID {
				continue
			}
			if candidate.Request.GroupSize.Overlaps(other.Request.GroupSize) {
				satisfiable = true
				break
			}
		}
		if satisfiable || len(snapshot) == 1 {
			kept = append(kept, candidate)
		}
	}
	return kept
}

// growGroup implements step 2 for a single seed: target group size, then
// greedy highest-pairwise-score addition (spec §4.D steps 2.a-2.c).
func (e *FormationEngine) growGroup(seed *EnrichedRequest, pool []EnrichedRequest, used map[*EnrichedRequest]bool) ([]EnrichedRequest, int, int) {
	jointMin, jointMax := seed.Request.GroupSize.Min, seed.Request.GroupSize.Max
	group := []EnrichedRequest{*seed}
	inGroup := map[*EnrichedRequest]bool{seed: true}

	for {
		if len(group) >= jointMax {
			break
		}

		var best *EnrichedRequest
		bestScore := 0.0

		for i := range pool {
			cand := &pool[i]
			if used[cand] || inGroup[cand] {
				continue
			}
			if cand.Request.GroupSize.Min > jointMax || cand.Request.GroupSize.Max < jointMin {
				continue
			}

			score := e.minPairwiseAgainstGroup(*cand, group)
			if score < minPairwiseScore {
				continue
			}
			if score > bestScore || (score == bestScore && best != nil && olderRequestWins(cand.Request, best.Request)) {
				bestScore = score
				best = cand
			}
		}

		if best == nil {
			break
		}

		newMin := jointMin
		if best.Request.GroupSize.Min > newMin {
			newMin = best.Request.GroupSize.Min
		}
		newMax := jointMax
		if best.Request.GroupSize.Max < newMax {
			newMax = best.Request.GroupSize.Max
		}
		if newMin > newMax {
			break
		}
		jointMin, jointMax = newMin, newMax

		group = append(group, *best)
		inGroup[best] = true

		if len(group) >= jointMin && bestScore < minPairwiseScore {
			break
		}
	}

	return group, jointMin, jointMax
}

// minPairwiseAgainstGroup is the lowest pairwise score between candidate
// and every current group member — a candidate only joins if it clears the
// gate against everyone already in the group.
func (e *FormationEngine) minPairwiseAgainstGroup(candidate EnrichedRequest, group []EnrichedRequest) float64 {
	min := 100.0
	for _, member := range group {
		score := e.scorer.PairwiseScore(candidate, member)
		if score < min {
			min = score
		}
	}
	return min
}
