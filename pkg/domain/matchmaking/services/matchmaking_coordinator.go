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

// CoordinatorConfig holds the tunables named in spec §4.E.
type CoordinatorConfig struct {
	MinGroupSize       int
	RequestTTL         time.Duration
	TickInterval       time.Duration
	RelaxationLevel1At time.Duration
	RelaxationLevel2At time.Duration
	RelaxationLevel3At time.Duration
}

// MatchmakingCoordinator implements component E: submit/cancel/status/
// history plus the internal processor tick and finalize.
type MatchmakingCoordinator struct {
	requests  matchmaking_out.MatchRequestRepository
	lobbies   matchmaking_out.LobbyRepository
	chats     matchmaking_out.ChatChannelRepository
	queue     matchmaking_out.QueueIndex
	catalogue matchmaking_out.GameCatalogueClient
	profiles  matchmaking_out.PlayerProfileClient
	publisher matchmaking_out.EventPublisher
	notify    matchmaking_in.CreateNotificationCommandHandler

	formation  *FormationEngine
	relaxation *RelaxationPolicy
	waits      *WaitEstimator

	cfg CoordinatorConfig

	processing chan struct{} // 1-buffered: held while a tick runs, re-entrancy guard
}

func NewMatchmakingCoordinator(
	requests matchmaking_out.MatchRequestRepository,
	lobbies matchmaking_out.LobbyRepository,
	chats matchmaking_out.ChatChannelRepository,
	queue matchmaking_out.QueueIndex,
	catalogue matchmaking_out.GameCatalogueClient,
	profiles matchmaking_out.PlayerProfileClient,
	publisher matchmaking_out.EventPublisher,
	notify matchmaking_in.CreateNotificationCommandHandler,
	cfg CoordinatorConfig,
) *MatchmakingCoordinator {
	scorer := NewCompatibilityScorer()
	return &MatchmakingCoordinator{
		requests:   requests,
		lobbies:    lobbies,
		chats:      chats,
		queue:      queue,
		catalogue:  catalogue,
		profiles:   profiles,
		publisher:  publisher,
		notify:     notify,
		formation:  NewFormationEngine(scorer),
		relaxation: NewRelaxationPolicy(cfg.RelaxationLevel1At, cfg.RelaxationLevel2At, cfg.RelaxationLevel3At),
		waits:      NewWaitEstimator(),
		cfg:        cfg,
		processing: make(chan struct{}, 1),
	}
}

func toCriteria(cmd matchmaking_in.SubmitMatchRequestCommand) matchmaking_entities.Criteria {
	games := make([]matchmaking_vo.GameWeight, 0, len(cmd.Games))
	for _, g := range cmd.Games {
		games = append(games, matchmaking_vo.GameWeight{GameID: g.GameID, Weight: g.Weight})
	}
	return matchmaking_entities.Criteria{
		Games:              games,
		GameMode:           matchmaking_vo.GameMode(cmd.GameMode),
		Regions:            toRegions(cmd.Regions),
		RegionPreference:   matchmaking_vo.MatchPreference(cmd.RegionPreference),
		Languages:          cmd.Languages,
		LanguagePreference: matchmaking_vo.MatchPreference(cmd.LanguagePreference),
		SkillPreference:    matchmaking_vo.SkillPreference(cmd.SkillPreference),
		GroupSize:          matchmaking_vo.GroupSize{Min: cmd.GroupSize.Min, Max: cmd.GroupSize.Max},
		ScheduledTime:      cmd.ScheduledTime,
		PreselectedUsers:   cmd.PreselectedUsers,
	}
}

func toRegions(in []string) []matchmaking_vo.Region {
	out := make([]matchmaking_vo.Region, 0, len(in))
	for _, r := range in {
		out = append(out, matchmaking_vo.Region(r))
	}
	return out
}

// Submit implements the Coordinator's submit() operation (spec §4.E).
func (c *MatchmakingCoordinator) Submit(ctx context.Context, userID uuid.UUID, cmd matchmaking_in.SubmitMatchRequestCommand) (*matchmaking_entities.MatchRequest, error) {
	now := time.Now().UTC()
	criteria := toCriteria(cmd)

	if errs := criteria.Validate(now); len(errs) > 0 {
		return nil, common.NewErrValidation(errs)
	}

	eligible, err := c.profiles.IsEligible(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "eligibility check failed", "error", err, "user_id", userID)
		return nil, common.NewErrInternal(err)
	}
	if !eligible {
		return nil, common.NewErrUserIneligible("account is not in good standing")
	}

	existing, err := c.requests.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, common.NewErrInternal(err)
	}
	if existing != nil {
		return nil, common.NewErrActiveRequestExists(existing.ID)
	}

	for _, g := range criteria.Games {
		exists, err := c.catalogue.GameExists(ctx, g.GameID)
		if err != nil {
			return nil, common.NewErrCatalogueUnavailable(err)
		}
		if !exists {
			return nil, common.NewErrInvalidGame(g.GameID)
		}
	}

	owner := common.GetResourceOwner(ctx)
	req := matchmaking_entities.NewMatchRequest(owner, userID, criteria, now)

	persisted, err := c.requests.Create(ctx, req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to persist match request", "error", err, "user_id", userID)
		return nil, common.NewErrInternal(err)
	}

	if persisted.IsActivated(now) {
		if err := c.activate(ctx, persisted, now); err != nil {
			return nil, err
		}
	}

	slog.InfoContext(ctx, "match request submitted", "request_id", persisted.ID, "user_id", userID, "primary_game", persisted.PrimaryGameID)
	metrics.RecordMatchmakingRequestSubmitted(persisted.PrimaryGameID, string(persisted.GameMode), submittedRegion(persisted.Regions))
	c.publishStatus(ctx, persisted, nil)
	return persisted, nil
}

func submittedRegion(regions []matchmaking_vo.Region) string {
	if len(regions) == 0 {
		return string(matchmaking_vo.RegionAny)
	}
	return string(regions[0])
}

// activate inserts req into the Queue Index and persists the resulting
// Indexed flag.
func (c *MatchmakingCoordinator) activate(ctx context.Context, req *matchmaking_entities.MatchRequest, now time.Time) error {
	regions := make([]string, 0, len(req.Regions))
	for _, r := range req.Regions {
		regions = append(regions, string(r))
	}

	ref := matchmaking_out.QueueRef{
		RequestID:       req.ID,
		UserID:          req.OwnerID,
		GameID:          req.PrimaryGameID,
		Mode:            string(req.GameMode),
		Regions:         regions,
		SearchStartTime: req.SearchStartTime,
	}

	if err := c.queue.Add(ref); err != nil {
		slog.ErrorContext(ctx, "failed to index match request", "error", err, "request_id", req.ID)
		return common.NewErrInternal(err)
	}

	req.MarkIndexed(now)
	if _, err := c.requests.Update(ctx, req); err != nil {
		slog.ErrorContext(ctx, "failed to persist indexed flag", "error", err, "request_id", req.ID)
	}
	return nil
}

// Cancel implements the Coordinator's cancel() operation (spec §4.E).
func (c *MatchmakingCoordinator) Cancel(ctx context.Context, userID, requestID uuid.UUID) (*matchmaking_entities.MatchRequest, error) {
	req, err := c.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, common.NewErrInternal(err)
	}
	if req == nil || req.OwnerID != userID || req.Status != matchmaking_entities.RequestStatusSearching {
		return nil, common.NewErrNotFound(common.ResourceTypeMatchRequest, "id", requestID)
	}

	now := time.Now().UTC()
	if err := req.MarkCancelled(now); err != nil {
		return nil, common.NewErrIllegalState(err.Error())
	}

	updated, err := c.requests.Update(ctx, req)
	if err != nil {
		return nil, common.NewErrInternal(err)
	}
	c.queue.Remove(userID, requestID)

	slog.InfoContext(ctx, "match request cancelled", "request_id", requestID, "user_id", userID)
	metrics.RecordMatchmakingRequestCancelled(updated.PrimaryGameID, string(updated.GameMode), "user_cancelled")
	metrics.RecordMatchmakingWaitTime(updated.PrimaryGameID, string(updated.GameMode), submittedRegion(updated.Regions), "cancelled", updated.SearchDuration(now))
	c.publishStatus(ctx, updated, nil)
	return updated, nil
}

// Status implements the Coordinator's status() operation (spec §4.E).
func (c *MatchmakingCoordinator) Status(ctx context.Context, userID uuid.UUID) (*matchmaking_entities.MatchRequest, *matchmaking_entities.QueueInfo, error) {
	req, err := c.requests.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, nil, common.NewErrInternal(err)
	}
	if req == nil {
		return nil, nil, nil
	}

	if len(req.Regions) == 0 {
		return req, &matchmaking_entities.QueueInfo{Confidence: "low"}, nil
	}

	bucket := c.queue.List(req.PrimaryGameID, string(req.GameMode), string(req.Regions[0]))
	potential := len(bucket) - 1
	if potential < 0 {
		potential = 0
	}

	position := 0
	for i, ref := range bucket {
		if ref.RequestID == req.ID {
			position = i + 1
			break
		}
	}

	estimate, confidence := c.waits.Estimate(len(bucket), c.cfg.MinGroupSize)

	return req, &matchmaking_entities.QueueInfo{
		Position:          position,
		PotentialMatches:  potential,
		EstimatedWaitTime: estimate,
		Confidence:        confidence,
	}, nil
}

// History implements the Coordinator's history() operation (spec §4.E).
func (c *MatchmakingCoordinator) History(ctx context.Context, userID uuid.UUID, query matchmaking_in.GetMatchHistoryQuery) (*matchmaking_entities.HistoryPage, error) {
	page := matchmaking_entities.PageRequest{Page: query.Page, Limit: query.Limit}.Normalize()
	filter := matchmaking_entities.HistoryFilter{GameID: query.GameID, Status: matchmaking_entities.RequestStatus(query.Status)}

	reqs, total, err := c.requests.FindHistory(ctx, userID, filter, page)
	if err != nil {
		return nil, common.NewErrInternal(err)
	}

	entries := make([]matchmaking_entities.MatchHistoryEntry, 0, len(reqs))
	for _, r := range reqs {
		resolvedAt := r.UpdatedAt
		entries = append(entries, matchmaking_entities.MatchHistoryEntry{
			RequestID:   r.ID,
			GameID:      r.PrimaryGameID,
			Status:      r.Status,
			LobbyID:     r.MatchedLobbyID,
			SearchStart: r.SearchStartTime,
			ResolvedAt:  resolvedAt,
			WaitTime:    resolvedAt.Sub(r.SearchStartTime),
		})
	}

	return &matchmaking_entities.HistoryPage{
		Entries: entries,
		Page:    page.Page,
		Limit:   page.Limit,
		Total:   total,
		HasMore: int64(page.Offset()+len(entries)) < total,
	}, nil
}

// Stats implements the admin-only GET /matchmaking/stats endpoint, reusing
// the tick's rolling statistics (SPEC_FULL supplemental feature).
func (c *MatchmakingCoordinator) Stats(ctx context.Context, hours int) (*matchmaking_in.MatchmakingStats, error) {
	var queues []matchmaking_in.QueueStat
	for _, key := range c.queue.Buckets() {
		bucket := c.queue.List(key.GameID, key.Mode, key.Region)
		queues = append(queues, matchmaking_in.QueueStat{GameID: key.GameID, Mode: key.Mode, Region: key.Region, Size: len(bucket)})
	}

	avgWait := c.waits.average()
	return &matchmaking_in.MatchmakingStats{
		Queues: queues,
		Matches: matchmaking_in.MatchStat{
			FormedLastHour:  int64(c.waits.MatchesFormedSince()),
			AverageWaitTime: avgWait,
		},
		Timestamp: time.Now().UTC(),
	}, nil
}

// publishStatus emits MatchmakingStatusChanged to matchrequest:<id>
// (spec §4.E). Socket failures are logged, never surfaced to the caller.
func (c *MatchmakingCoordinator) publishStatus(ctx context.Context, req *matchmaking_entities.MatchRequest, lobbyID *uuid.UUID) {
	if c.publisher == nil {
		return
	}
	event := matchmaking_out.MatchmakingStatusEvent{State: req.Status, LobbyID: lobbyID}
	if err := c.publisher.PublishMatchmakingStatus(ctx, req.ID, event); err != nil {
		slog.WarnContext(ctx, "failed to publish matchmaking status", "error", err, "request_id", req.ID)
	}
}
