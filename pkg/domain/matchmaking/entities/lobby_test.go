package matchmaking_entities_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	common "github.com/matchforge/platform/pkg/domain"
	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
	matchmaking_vo "github.com/matchforge/platform/pkg/domain/matchmaking/valueobjects"
)

func newTestLobby(memberIDs []uuid.UUID, hostID uuid.UUID, capacity matchmaking_entities.LobbyCapacity) *matchmaking_entities.Lobby {
	owner := common.NewResourceOwner(uuid.New(), hostID)
	return matchmaking_entities.NewLobby(owner, "csgo", matchmaking_vo.GameModeCompetitive, "na-east", memberIDs, hostID, capacity, nil, time.Now().UTC())
}

func TestLobbyJoin_RejectsWhenFull(t *testing.T) {
	host := uuid.New()
	lobby := newTestLobby([]uuid.UUID{host}, host, matchmaking_entities.LobbyCapacity{Min: 2, Max: 1})

	err := lobby.Join(uuid.New(), time.Now().UTC())

	require.Error(t, err)
	coded, ok := err.(*common.CodedError)
	require.True(t, ok)
	assert.Equal(t, "LOBBY_FULL", coded.Code)
}

func TestLobbyJoin_RejectsAfterActive(t *testing.T) {
	host := uuid.New()
	lobby := newTestLobby([]uuid.UUID{host}, host, matchmaking_entities.LobbyCapacity{Min: 1, Max: 5})
	now := time.Now().UTC()

	require.NoError(t, lobby.SetReady(host, true, now))
	_, _ = lobby.EvaluateReadiness(now)
	require.NoError(t, lobby.Start(now))

	err := lobby.Join(uuid.New(), now)

	require.Error(t, err)
	assert.Equal(t, "ILLEGAL_STATE", err.(*common.CodedError).Code)
}

func TestLobbyLeave_TransfersHostToLongestJoinedMember(t *testing.T) {
	host := uuid.New()
	second := uuid.New()
	base := time.Now().UTC()
	lobby := newTestLobby([]uuid.UUID{host}, host, matchmaking_entities.LobbyCapacity{Min: 1, Max: 5})
	require.NoError(t, lobby.Join(second, base.Add(time.Minute)))

	becameEmpty, newHost, err := lobby.Leave(host, base.Add(2*time.Minute))

	require.NoError(t, err)
	assert.False(t, becameEmpty)
	assert.Equal(t, second, newHost)
	assert.Equal(t, second, lobby.HostID)
}

func TestLobbyLeave_ClosesWhenLastMemberLeaves(t *testing.T) {
	host := uuid.New()
	lobby := newTestLobby([]uuid.UUID{host}, host, matchmaking_entities.LobbyCapacity{Min: 1, Max: 5})

	becameEmpty, _, err := lobby.Leave(host, time.Now().UTC())

	require.NoError(t, err)
	assert.True(t, becameEmpty)
}

func TestEvaluateReadiness_TransitionsFormingToReadyAndBack(t *testing.T) {
	host := uuid.New()
	second := uuid.New()
	lobby := newTestLobby([]uuid.UUID{host, second}, host, matchmaking_entities.LobbyCapacity{Min: 2, Max: 2})
	now := time.Now().UTC()

	require.NoError(t, lobby.SetReady(host, true, now))
	becameReady, reverted := lobby.EvaluateReadiness(now)
	assert.False(t, becameReady)
	assert.False(t, reverted)

	require.NoError(t, lobby.SetReady(second, true, now))
	becameReady, reverted = lobby.EvaluateReadiness(now)
	assert.True(t, becameReady)
	assert.False(t, reverted)
	assert.Equal(t, matchmaking_entities.LobbyStatusReady, lobby.Status)

	require.NoError(t, lobby.SetReady(second, false, now))
	becameReady, reverted = lobby.EvaluateReadiness(now)
	assert.False(t, becameReady)
	assert.True(t, reverted)
	assert.Equal(t, matchmaking_entities.LobbyStatusForming, lobby.Status)
}

func TestStart_RequiresReadyStatus(t *testing.T) {
	host := uuid.New()
	lobby := newTestLobby([]uuid.UUID{host}, host, matchmaking_entities.LobbyCapacity{Min: 1, Max: 5})

	err := lobby.Start(time.Now().UTC())

	require.Error(t, err)
	assert.Equal(t, "ILLEGAL_STATE", err.(*common.CodedError).Code)
}

func TestBelowMinimum(t *testing.T) {
	host := uuid.New()
	second := uuid.New()
	lobby := newTestLobby([]uuid.UUID{host, second}, host, matchmaking_entities.LobbyCapacity{Min: 2, Max: 5})

	assert.False(t, lobby.BelowMinimum())

	_, _, err := lobby.Leave(second, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, lobby.BelowMinimum())
}

func TestStatusCanAdvanceTo(t *testing.T) {
	assert.True(t, matchmaking_entities.LobbyStatusForming.CanAdvanceTo(matchmaking_entities.LobbyStatusReady))
	assert.False(t, matchmaking_entities.LobbyStatusActive.CanAdvanceTo(matchmaking_entities.LobbyStatusForming))
	assert.True(t, matchmaking_entities.LobbyStatusClosed.CanAdvanceTo(matchmaking_entities.LobbyStatusClosed))
}
