package matchmaking_services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	common "github.com/matchforge/platform/pkg/domain"
	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
	matchmaking_out "github.com/matchforge/platform/pkg/domain/matchmaking/ports/out"
	metrics "github.com/matchforge/platform/pkg/infra/metrics"
)

// LobbyStateMachine implements component F: membership, readiness, host
// election/transfer, and the auto-start timer (spec §4.F). System chat
// messages for transitions are routed through ChatService so they are both
// persisted and published to lobby:<id> subscribers (spec §2, §4.G).
type LobbyStateMachine struct {
	lobbies     matchmaking_out.LobbyRepository
	chats       matchmaking_out.ChatChannelRepository
	chatService *ChatService
	publisher   matchmaking_out.EventPublisher

	autoStartDelay time.Duration

	timersMu sync.Mutex
	timers   map[uuid.UUID]*time.Timer
}

func NewLobbyStateMachine(lobbies matchmaking_out.LobbyRepository, chats matchmaking_out.ChatChannelRepository, chatService *ChatService, publisher matchmaking_out.EventPublisher, autoStartDelay time.Duration) *LobbyStateMachine {
	return &LobbyStateMachine{
		lobbies:        lobbies,
		chats:          chats,
		chatService:    chatService,
		publisher:      publisher,
		autoStartDelay: autoStartDelay,
		timers:         make(map[uuid.UUID]*time.Timer),
	}
}

// systemPost posts and publishes a transition message via ChatService,
// logging on failure rather than failing the caller's operation.
func (s *LobbyStateMachine) systemPost(ctx context.Context, lobbyID uuid.UUID, text string) {
	if s.chatService == nil {
		return
	}
	if err := s.chatService.SystemPost(ctx, lobbyID, text); err != nil {
		slog.WarnContext(ctx, "failed to post system chat message", "error", err, "lobby_id", lobbyID, "text", text)
	}
}

// transitionStatus keeps the lobby_active_current gauge in step with a
// status change; call with the status before and after the mutation.
func transitionStatus(game string, from, to matchmaking_entities.LobbyStatus) {
	if from == to {
		return
	}
	metrics.AddLobbyActive(game, string(from), -1)
	metrics.AddLobbyActive(game, string(to), 1)
}

func (s *LobbyStateMachine) loadOwned(ctx context.Context, lobbyID uuid.UUID) (*matchmaking_entities.Lobby, error) {
	lobby, err := s.lobbies.FindByID(ctx, lobbyID)
	if err != nil {
		return nil, common.NewErrInternal(err)
	}
	if lobby == nil {
		return nil, common.NewErrNotFound(common.ResourceTypeLobby, "id", lobbyID)
	}
	return lobby, nil
}

// Join implements join() (spec §4.F).
func (s *LobbyStateMachine) Join(ctx context.Context, userID, lobbyID uuid.UUID) (*matchmaking_entities.Lobby, error) {
	lobby, err := s.loadOwned(ctx, lobbyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	wasNew := lobby.MemberIndex(userID) < 0
	if err := lobby.Join(userID, now); err != nil {
		return nil, err
	}

	updated, err := s.lobbies.Update(ctx, lobby)
	if err != nil {
		return nil, common.NewErrInternal(err)
	}

	if s.chats != nil {
		if channel, err := s.chats.FindByLobbyID(ctx, lobbyID); err == nil && channel != nil {
			channel.AddParticipant(userID)
			_, _ = s.chats.Update(ctx, channel)
		}
	}
	s.systemPost(ctx, lobbyID, fmt.Sprintf("%s joined", userID))

	if wasNew {
		s.publishMember(ctx, updated, matchmaking_out.LobbyMemberJoined, userID)
	}
	s.publishUpdated(ctx, updated)
	return updated, nil
}

// Leave implements leave() (spec §4.F).
func (s *LobbyStateMachine) Leave(ctx context.Context, userID, lobbyID uuid.UUID) (*matchmaking_entities.Lobby, error) {
	lobby, err := s.loadOwned(ctx, lobbyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	prevStatus := lobby.Status
	becameEmpty, newHostID, err := lobby.Leave(userID, now)
	if err != nil {
		return nil, err
	}

	switch {
	case becameEmpty:
		_ = lobby.Close(now)
		s.cancelAutoStart(lobbyID)
		transitionStatus(lobby.GameID, prevStatus, lobby.Status)
		metrics.RecordLobbyAutoClose(lobby.GameID)
		metrics.RecordLobbyLifecycle(lobby.GameID, "emptied", now.Sub(lobby.FormedAt))
	case lobby.Status == matchmaking_entities.LobbyStatusActive && lobby.BelowMinimum():
		_ = lobby.Close(now)
		s.cancelAutoStart(lobbyID)
		transitionStatus(lobby.GameID, prevStatus, lobby.Status)
		metrics.RecordLobbyAutoClose(lobby.GameID)
		metrics.RecordLobbyLifecycle(lobby.GameID, "below_minimum", now.Sub(lobby.FormedAt))
	default:
		s.evaluateReadiness(ctx, lobby, now)
	}

	updated, err := s.lobbies.Update(ctx, lobby)
	if err != nil {
		return nil, common.NewErrInternal(err)
	}

	s.systemPost(ctx, lobbyID, fmt.Sprintf("%s left", userID))
	if newHostID != uuid.Nil {
		s.systemPost(ctx, lobbyID, fmt.Sprintf("Host is now %s", newHostID))
	}

	s.publishMember(ctx, updated, matchmaking_out.LobbyMemberLeft, userID)
	s.publishUpdated(ctx, updated)
	return updated, nil
}

// SetReady implements setReady() (spec §4.F).
func (s *LobbyStateMachine) SetReady(ctx context.Context, userID, lobbyID uuid.UUID, ready bool) (*matchmaking_entities.Lobby, error) {
	lobby, err := s.loadOwned(ctx, lobbyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := lobby.SetReady(userID, ready, now); err != nil {
		return nil, err
	}

	s.evaluateReadiness(ctx, lobby, now)

	updated, err := s.lobbies.Update(ctx, lobby)
	if err != nil {
		return nil, common.NewErrInternal(err)
	}

	s.publishMember(ctx, updated, matchmaking_out.LobbyMemberReady, userID)
	s.publishUpdated(ctx, updated)
	return updated, nil
}

// evaluateReadiness applies the forming<->ready transition and arms/
// disarms the auto-start timer accordingly (spec §4.F "Auto-start").
func (s *LobbyStateMachine) evaluateReadiness(ctx context.Context, lobby *matchmaking_entities.Lobby, now time.Time) {
	becameReady, reverted := lobby.EvaluateReadiness(now)
	if becameReady {
		transitionStatus(lobby.GameID, matchmaking_entities.LobbyStatusForming, matchmaking_entities.LobbyStatusReady)
		s.systemPost(ctx, lobby.ID, "All players ready!")
		s.armAutoStart(lobby.ID)
	}
	if reverted {
		transitionStatus(lobby.GameID, matchmaking_entities.LobbyStatusReady, matchmaking_entities.LobbyStatusForming)
		s.cancelAutoStart(lobby.ID)
	}
}

func (s *LobbyStateMachine) armAutoStart(lobbyID uuid.UUID) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()

	if existing, ok := s.timers[lobbyID]; ok {
		existing.Stop()
	}
	s.timers[lobbyID] = time.AfterFunc(s.autoStartDelay, func() {
		ctx := context.Background()
		if _, err := s.startAsHost(ctx, lobbyID); err != nil {
			slog.WarnContext(ctx, "auto-start failed", "error", err, "lobby_id", lobbyID)
		}
	})
}

func (s *LobbyStateMachine) cancelAutoStart(lobbyID uuid.UUID) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()

	if existing, ok := s.timers[lobbyID]; ok {
		existing.Stop()
		delete(s.timers, lobbyID)
	}
}

// startAsHost fires on auto-start, bypassing the host-only check in Start.
func (s *LobbyStateMachine) startAsHost(ctx context.Context, lobbyID uuid.UUID) (*matchmaking_entities.Lobby, error) {
	lobby, err := s.loadOwned(ctx, lobbyID)
	if err != nil {
		return nil, err
	}
	return s.start(ctx, lobby)
}

// Start implements start(), host-only (spec §4.F).
func (s *LobbyStateMachine) Start(ctx context.Context, userID, lobbyID uuid.UUID) (*matchmaking_entities.Lobby, error) {
	lobby, err := s.loadOwned(ctx, lobbyID)
	if err != nil {
		return nil, err
	}
	if lobby.HostID != userID {
		return nil, common.NewErrForbidden("only the host may start the lobby")
	}
	return s.start(ctx, lobby)
}

func (s *LobbyStateMachine) start(ctx context.Context, lobby *matchmaking_entities.Lobby) (*matchmaking_entities.Lobby, error) {
	now := time.Now().UTC()
	if err := lobby.Start(now); err != nil {
		return nil, err
	}
	transitionStatus(lobby.GameID, matchmaking_entities.LobbyStatusReady, matchmaking_entities.LobbyStatusActive)
	s.cancelAutoStart(lobby.ID)

	updated, err := s.lobbies.Update(ctx, lobby)
	if err != nil {
		return nil, common.NewErrInternal(err)
	}

	s.systemPost(ctx, lobby.ID, "Game started!")

	s.publishUpdated(ctx, updated)
	return updated, nil
}

// Close implements close(), host or a trusted internal caller (spec §4.F).
// Passing userID=uuid.Nil authorizes an internal/system-initiated close.
func (s *LobbyStateMachine) Close(ctx context.Context, userID, lobbyID uuid.UUID) (*matchmaking_entities.Lobby, error) {
	lobby, err := s.loadOwned(ctx, lobbyID)
	if err != nil {
		return nil, err
	}
	if userID != uuid.Nil && lobby.HostID != userID {
		return nil, common.NewErrForbidden("only the host may close the lobby")
	}

	now := time.Now().UTC()
	prevStatus := lobby.Status
	if err := lobby.Close(now); err != nil {
		return nil, common.NewErrInternal(err)
	}
	transitionStatus(lobby.GameID, prevStatus, lobby.Status)
	metrics.RecordLobbyLifecycle(lobby.GameID, "closed", now.Sub(lobby.FormedAt))
	s.cancelAutoStart(lobbyID)

	updated, err := s.lobbies.Update(ctx, lobby)
	if err != nil {
		return nil, common.NewErrInternal(err)
	}

	s.publishUpdated(ctx, updated)
	return updated, nil
}

// Get implements a plain lookup for GET /lobbies/:id, 404ing non-members
// to avoid enumeration (spec §7).
func (s *LobbyStateMachine) Get(ctx context.Context, userID, lobbyID uuid.UUID) (*matchmaking_entities.Lobby, error) {
	lobby, err := s.loadOwned(ctx, lobbyID)
	if err != nil {
		return nil, err
	}
	if lobby.MemberIndex(userID) < 0 {
		return nil, common.NewErrNotFound(common.ResourceTypeLobby, "id", lobbyID)
	}
	return lobby, nil
}

// List implements list() (spec §4.F).
func (s *LobbyStateMachine) List(ctx context.Context, userID uuid.UUID, includeHistory bool) ([]*matchmaking_entities.Lobby, error) {
	since := time.Now().UTC().Add(-24 * time.Hour)
	lobbies, err := s.lobbies.FindByMember(ctx, userID, includeHistory, since)
	if err != nil {
		return nil, common.NewErrInternal(err)
	}
	return lobbies, nil
}

func (s *LobbyStateMachine) publishUpdated(ctx context.Context, lobby *matchmaking_entities.Lobby) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLobbyUpdated(ctx, lobby.ID, lobby); err != nil {
		slog.WarnContext(ctx, "failed to publish lobby update", "error", err, "lobby_id", lobby.ID)
	}
}

func (s *LobbyStateMachine) publishMember(ctx context.Context, lobby *matchmaking_entities.Lobby, kind matchmaking_out.LobbyMemberEventKind, userID uuid.UUID) {
	if s.publisher == nil {
		return
	}
	idx := lobby.MemberIndex(userID)
	var member matchmaking_entities.LobbyMember
	if idx >= 0 {
		member = lobby.Members[idx]
	} else {
		member = matchmaking_entities.LobbyMember{UserID: userID}
	}
	if err := s.publisher.PublishLobbyMemberEvent(ctx, lobby.ID, kind, member); err != nil {
		slog.WarnContext(ctx, "failed to publish lobby member event", "error", err, "lobby_id", lobby.ID)
	}
}
