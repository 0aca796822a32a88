package matchmaking_out

import (
	"context"

	"github.com/google/uuid"
)

// PlayerProfileClient is the external collaborator the Coordinator and
// Compatibility Scorer consult for per-game skill, karma, and account
// eligibility (spec §1 out-of-scope "ranking/skill inference" — the core
// only consumes the numbers, it never computes them).
type PlayerProfileClient interface {
	// SkillLevel returns the caller's skill rating for gameID, defaulting
	// to 50 when the profile has none (spec §4.D step 2).
	SkillLevel(ctx context.Context, userID uuid.UUID, gameID string) (float64, error)

	// Karma returns a 0-100 reputation score (spec §4.B "Karma").
	Karma(ctx context.Context, userID uuid.UUID) (float64, error)

	// IsEligible reports whether the account is in good standing
	// (spec §4.E "UserIneligible").
	IsEligible(ctx context.Context, userID uuid.UUID) (bool, error)
}
