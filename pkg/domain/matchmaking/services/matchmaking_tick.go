package matchmaking_services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	common "github.com/matchforge/platform/pkg/domain"
	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
	matchmaking_in "github.com/matchforge/platform/pkg/domain/matchmaking/ports/in"
	matchmaking_out "github.com/matchforge/platform/pkg/domain/matchmaking/ports/out"
	matchmaking_vo "github.com/matchforge/platform/pkg/domain/matchmaking/valueobjects"
	metrics "github.com/matchforge/platform/pkg/infra/metrics"
)

// Tick runs one processor pass over every bucket (spec §4.E "Processor
// tick"). If a previous tick is still running it is skipped outright —
// the re-entrancy guard is a non-blocking channel send, never a wait.
func (c *MatchmakingCoordinator) Tick(ctx context.Context) {
	select {
	case c.processing <- struct{}{}:
	default:
		slog.DebugContext(ctx, "skipping tick: previous tick still running")
		return
	}
	defer func() { <-c.processing }()

	tickStart := time.Now().UTC()
	defer func() { metrics.RecordMatchmakingTickDuration("ok", time.Since(tickStart)) }()

	now := tickStart

	c.activateScheduled(ctx, now)

	for _, key := range c.queue.Buckets() {
		metrics.SetMatchmakingQueueDepth(key.GameID, key.Mode, key.Region, len(c.queue.List(key.GameID, key.Mode, key.Region)))
		c.processBucket(ctx, key, now)
	}

	c.advanceRelaxations(ctx, now)
}

// ProcessBucket runs 4.D+finalize for a single bucket, used by the
// event-driven pass triggered from Queue Index's RequestAdded signal
// (spec §4.E "secondary event-driven pass").
func (c *MatchmakingCoordinator) ProcessBucket(ctx context.Context, gameID, mode, region string) {
	c.processBucket(ctx, matchmaking_out.BucketKey{GameID: gameID, Mode: mode, Region: region}, time.Now().UTC())
}

func (c *MatchmakingCoordinator) processBucket(ctx context.Context, key matchmaking_out.BucketKey, now time.Time) {
	refs := c.queue.List(key.GameID, key.Mode, key.Region)
	if len(refs) < c.cfg.MinGroupSize {
		return
	}

	enriched, err := c.enrich(ctx, refs, key.GameID, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to enrich bucket", "error", err, "game_id", key.GameID, "mode", key.Mode, "region", key.Region)
		return
	}
	if len(enriched) == 0 {
		return
	}

	matches := c.formation.Form(enriched)
	for _, match := range matches {
		if err := c.finalize(ctx, match); err != nil {
			slog.ErrorContext(ctx, "failed to finalize match", "error", err, "game_id", key.GameID)
		}
	}
}

// enrich resolves each ref's owning MatchRequest and per-user skill/karma
// (spec §4.D step 2: "default 50 when absent").
func (c *MatchmakingCoordinator) enrich(ctx context.Context, refs []matchmaking_out.QueueRef, gameID string, now time.Time) ([]EnrichedRequest, error) {
	enriched := make([]EnrichedRequest, 0, len(refs))
	for _, ref := range refs {
		req, err := c.requests.FindByID(ctx, ref.RequestID)
		if err != nil {
			return nil, err
		}
		if req == nil || req.Status != matchmaking_entities.RequestStatusSearching {
			continue
		}

		skill, err := c.profiles.SkillLevel(ctx, req.OwnerID, gameID)
		if err != nil {
			skill = 50
		}
		karma, err := c.profiles.Karma(ctx, req.OwnerID)
		if err != nil {
			karma = 50
		}

		enriched = append(enriched, EnrichedRequest{
			Request:     req,
			SkillLevel:  skill,
			Karma:       karma,
			SearchedFor: req.SearchDuration(now).Seconds(),
		})
	}
	return enriched, nil
}

// activateScheduled inserts searching requests whose scheduledTime has
// arrived but which have not yet been indexed (spec §9 scheduledTime
// decision).
func (c *MatchmakingCoordinator) activateScheduled(ctx context.Context, now time.Time) {
	all, err := c.requests.FindAllSearching(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list searching requests", "error", err)
		return
	}
	for _, req := range all {
		if !req.Indexed && req.IsActivated(now) {
			if err := c.activate(ctx, req, now); err != nil {
				slog.ErrorContext(ctx, "failed to activate scheduled request", "error", err, "request_id", req.ID)
			}
		}
	}
}

// advanceRelaxations walks searching requests and bumps relaxation level
// where warranted, re-processing the affected bucket immediately
// (spec §4.C "CriteriaRelaxed").
func (c *MatchmakingCoordinator) advanceRelaxations(ctx context.Context, now time.Time) {
	all, err := c.requests.FindAllSearching(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list searching requests for relaxation", "error", err)
		return
	}

	for _, req := range all {
		if !req.Indexed || req.SearchDuration(now) < 30*time.Second {
			continue
		}
		if c.relaxation.Evaluate(req, now) {
			if _, err := c.requests.Update(ctx, req); err != nil {
				slog.ErrorContext(ctx, "failed to persist relaxed request", "error", err, "request_id", req.ID)
				continue
			}
			if len(req.Regions) > 0 {
				c.ProcessBucket(ctx, req.PrimaryGameID, string(req.GameMode), string(req.Regions[0]))
			}
		}
	}
}

// finalize commits a formed match into a Lobby (spec §4.E "finalize").
func (c *MatchmakingCoordinator) finalize(ctx context.Context, match CommittedMatch) error {
	now := time.Now().UTC()

	participants := make([]*matchmaking_entities.MatchRequest, 0, len(match.Participants))
	for _, p := range match.Participants {
		fresh, err := c.requests.FindByID(ctx, p.Request.ID)
		if err != nil {
			return err
		}
		if fresh == nil || fresh.Status != matchmaking_entities.RequestStatusSearching {
			slog.InfoContext(ctx, "aborting match: participant no longer searching", "request_id", p.Request.ID)
			return nil
		}
		participants = append(participants, fresh)
	}

	memberIDs := make([]uuid.UUID, 0, len(participants))
	sourceIDs := make([]uuid.UUID, 0, len(participants))
	for _, p := range participants {
		memberIDs = append(memberIDs, p.OwnerID)
		sourceIDs = append(sourceIDs, p.ID)
	}

	host := participants[0].OwnerID
	seed := match.Participants[0].Request
	owner := seed.ResourceOwner

	lobby := matchmaking_entities.NewLobby(
		owner,
		seed.PrimaryGameID,
		seed.GameMode,
		firstRegionOrAny(seed.Regions),
		memberIDs,
		host,
		matchmaking_entities.LobbyCapacity{Min: match.JointMin, Max: match.JointMax},
		sourceIDs,
		now,
	)

	persistedLobby, err := c.lobbies.Create(ctx, lobby)
	if err != nil {
		return common.NewErrInternal(err)
	}
	metrics.RecordLobbyCreated(persistedLobby.GameID)
	metrics.AddLobbyActive(persistedLobby.GameID, string(persistedLobby.Status), 1)
	metrics.RecordMatchmakingMatchFormed(persistedLobby.GameID, string(persistedLobby.GameMode), string(persistedLobby.Region))

	channel := matchmaking_entities.NewChatChannel(owner, persistedLobby.ID, memberIDs)
	if _, err := c.chats.Create(ctx, channel); err != nil {
		slog.ErrorContext(ctx, "failed to create chat channel for lobby", "error", err, "lobby_id", persistedLobby.ID)
	}

	for _, p := range participants {
		if err := p.MarkMatched(persistedLobby.ID, now); err != nil {
			continue
		}
		if _, err := c.requests.Update(ctx, p); err != nil {
			slog.ErrorContext(ctx, "failed to mark request matched", "error", err, "request_id", p.ID)
		}
		c.queue.Remove(p.OwnerID, p.ID)
		c.waits.RecordMatch(p.SearchDuration(now))
		metrics.RecordMatchmakingWaitTime(p.PrimaryGameID, string(p.GameMode), submittedRegion(p.Regions), "matched", p.SearchDuration(now))
		c.publishStatus(ctx, p, &persistedLobby.ID)
	}

	if c.publisher != nil {
		if err := c.publisher.PublishLobbyCreated(ctx, persistedLobby.ID, memberIDs); err != nil {
			slog.WarnContext(ctx, "failed to publish lobby created", "error", err, "lobby_id", persistedLobby.ID)
		}
	}

	if c.notify != nil {
		for _, userID := range memberIDs {
			_, err := c.notify.Exec(ctx, matchmaking_in.CreateNotificationCommand{
				RecipientID: userID,
				Intent: matchmaking_entities.Intent{
					Type:     "match_found",
					Priority: matchmaking_entities.PriorityHigh,
					Title:    "Match found",
					Body:     "Your match is ready.",
					Data:     map[string]interface{}{"lobby_id": persistedLobby.ID},
				},
			})
			if err != nil {
				slog.WarnContext(ctx, "failed to enqueue match_found notification", "error", err, "user_id", userID)
			}
		}
	}

	return nil
}

// Sweep expires Queue Index entries older than RequestTTL and marks their
// owning MatchRequests expired, emitting RequestExpired via the status
// channel (spec §4.A "sweep()").
func (c *MatchmakingCoordinator) Sweep(ctx context.Context) {
	now := time.Now().UTC()
	expired := c.queue.Sweep(c.cfg.RequestTTL, now)

	for _, ref := range expired {
		req, err := c.requests.FindByID(ctx, ref.RequestID)
		if err != nil || req == nil {
			continue
		}
		if err := req.MarkExpired(now); err != nil {
			continue
		}
		if _, err := c.requests.Update(ctx, req); err != nil {
			slog.ErrorContext(ctx, "failed to persist expired request", "error", err, "request_id", req.ID)
			continue
		}
		slog.InfoContext(ctx, "match request expired", "request_id", req.ID, "user_id", req.OwnerID)
		metrics.RecordMatchmakingRequestCancelled(req.PrimaryGameID, string(req.GameMode), "expired")
		metrics.RecordMatchmakingWaitTime(req.PrimaryGameID, string(req.GameMode), submittedRegion(req.Regions), "expired", req.SearchDuration(now))
		c.publishStatus(ctx, req, nil)
	}
}

func firstRegionOrAny(regions []matchmaking_vo.Region) matchmaking_vo.Region {
	if len(regions) == 0 {
		return matchmaking_vo.RegionAny
	}
	return regions[0]
}
