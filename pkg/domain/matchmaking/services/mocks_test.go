package matchmaking_services_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
	matchmaking_in "github.com/matchforge/platform/pkg/domain/matchmaking/ports/in"
	matchmaking_out "github.com/matchforge/platform/pkg/domain/matchmaking/ports/out"
)

type MockMatchRequestRepository struct{ mock.Mock }

// Create and Update accept either a *MatchRequest or a func(ctx, req) *MatchRequest
// as their stubbed return, so tests can echo back whatever was passed in
// without knowing the generated ID ahead of time.
func (m *MockMatchRequestRepository) Create(ctx context.Context, req *matchmaking_entities.MatchRequest) (*matchmaking_entities.MatchRequest, error) {
	args := m.Called(ctx, req)
	if fn, ok := args.Get(0).(func(context.Context, *matchmaking_entities.MatchRequest) *matchmaking_entities.MatchRequest); ok {
		return fn(ctx, req), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*matchmaking_entities.MatchRequest), args.Error(1)
}

func (m *MockMatchRequestRepository) Update(ctx context.Context, req *matchmaking_entities.MatchRequest) (*matchmaking_entities.MatchRequest, error) {
	args := m.Called(ctx, req)
	if fn, ok := args.Get(0).(func(context.Context, *matchmaking_entities.MatchRequest) *matchmaking_entities.MatchRequest); ok {
		return fn(ctx, req), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*matchmaking_entities.MatchRequest), args.Error(1)
}

func (m *MockMatchRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*matchmaking_entities.MatchRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*matchmaking_entities.MatchRequest), args.Error(1)
}

func (m *MockMatchRequestRepository) FindActiveByUserID(ctx context.Context, userID uuid.UUID) (*matchmaking_entities.MatchRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*matchmaking_entities.MatchRequest), args.Error(1)
}

func (m *MockMatchRequestRepository) FindAllSearching(ctx context.Context) ([]*matchmaking_entities.MatchRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*matchmaking_entities.MatchRequest), args.Error(1)
}

func (m *MockMatchRequestRepository) FindHistory(ctx context.Context, userID uuid.UUID, filter matchmaking_entities.HistoryFilter, page matchmaking_entities.PageRequest) ([]*matchmaking_entities.MatchRequest, int64, error) {
	args := m.Called(ctx, userID, filter, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*matchmaking_entities.MatchRequest), int64(args.Int(1)), args.Error(2)
}

type MockLobbyRepository struct{ mock.Mock }

func (m *MockLobbyRepository) Create(ctx context.Context, lobby *matchmaking_entities.Lobby) (*matchmaking_entities.Lobby, error) {
	args := m.Called(ctx, lobby)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*matchmaking_entities.Lobby), args.Error(1)
}

func (m *MockLobbyRepository) Update(ctx context.Context, lobby *matchmaking_entities.Lobby) (*matchmaking_entities.Lobby, error) {
	args := m.Called(ctx, lobby)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*matchmaking_entities.Lobby), args.Error(1)
}

func (m *MockLobbyRepository) FindByID(ctx context.Context, id uuid.UUID) (*matchmaking_entities.Lobby, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*matchmaking_entities.Lobby), args.Error(1)
}

func (m *MockLobbyRepository) FindByMember(ctx context.Context, userID uuid.UUID, includeHistory bool, since time.Time) ([]*matchmaking_entities.Lobby, error) {
	args := m.Called(ctx, userID, includeHistory, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*matchmaking_entities.Lobby), args.Error(1)
}

type MockChatChannelRepository struct{ mock.Mock }

func (m *MockChatChannelRepository) Create(ctx context.Context, channel *matchmaking_entities.ChatChannel) (*matchmaking_entities.ChatChannel, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*matchmaking_entities.ChatChannel), args.Error(1)
}

func (m *MockChatChannelRepository) Update(ctx context.Context, channel *matchmaking_entities.ChatChannel) (*matchmaking_entities.ChatChannel, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*matchmaking_entities.ChatChannel), args.Error(1)
}

func (m *MockChatChannelRepository) FindByLobbyID(ctx context.Context, lobbyID uuid.UUID) (*matchmaking_entities.ChatChannel, error) {
	args := m.Called(ctx, lobbyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*matchmaking_entities.ChatChannel), args.Error(1)
}

type MockQueueIndex struct{ mock.Mock }

func (m *MockQueueIndex) Add(ref matchmaking_out.QueueRef) error {
	args := m.Called(ref)
	return args.Error(0)
}

func (m *MockQueueIndex) Remove(userID uuid.UUID, requestID uuid.UUID) {
	m.Called(userID, requestID)
}

func (m *MockQueueIndex) List(gameID, mode, region string) []matchmaking_out.QueueRef {
	args := m.Called(gameID, mode, region)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]matchmaking_out.QueueRef)
}

func (m *MockQueueIndex) Buckets() []matchmaking_out.BucketKey {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]matchmaking_out.BucketKey)
}

func (m *MockQueueIndex) Sweep(olderThan time.Duration, now time.Time) []matchmaking_out.QueueRef {
	args := m.Called(olderThan, now)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]matchmaking_out.QueueRef)
}

func (m *MockQueueIndex) Signal() <-chan matchmaking_out.QueueRef {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(<-chan matchmaking_out.QueueRef)
}

type MockGameCatalogueClient struct{ mock.Mock }

func (m *MockGameCatalogueClient) GameExists(ctx context.Context, gameID string) (bool, error) {
	args := m.Called(ctx, gameID)
	return args.Bool(0), args.Error(1)
}

type MockPlayerProfileClient struct{ mock.Mock }

func (m *MockPlayerProfileClient) SkillLevel(ctx context.Context, userID uuid.UUID, gameID string) (float64, error) {
	args := m.Called(ctx, userID, gameID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockPlayerProfileClient) Karma(ctx context.Context, userID uuid.UUID) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockPlayerProfileClient) IsEligible(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) PublishMatchmakingStatus(ctx context.Context, requestID uuid.UUID, event matchmaking_out.MatchmakingStatusEvent) error {
	args := m.Called(ctx, requestID, event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishLobbyCreated(ctx context.Context, lobbyID uuid.UUID, participantIDs []uuid.UUID) error {
	args := m.Called(ctx, lobbyID, participantIDs)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishLobbyUpdated(ctx context.Context, lobbyID uuid.UUID, lobby *matchmaking_entities.Lobby) error {
	args := m.Called(ctx, lobbyID, lobby)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishLobbyMemberEvent(ctx context.Context, lobbyID uuid.UUID, kind matchmaking_out.LobbyMemberEventKind, member matchmaking_entities.LobbyMember) error {
	args := m.Called(ctx, lobbyID, kind, member)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishChatMessage(ctx context.Context, lobbyID uuid.UUID, message matchmaking_entities.ChatMessage) error {
	args := m.Called(ctx, lobbyID, message)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishChatTyping(ctx context.Context, lobbyID uuid.UUID, userID uuid.UUID, isTyping bool) error {
	args := m.Called(ctx, lobbyID, userID, isTyping)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishNotificationNew(ctx context.Context, userID uuid.UUID, notification *matchmaking_entities.Notification) error {
	args := m.Called(ctx, userID, notification)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishNotificationCount(ctx context.Context, userID uuid.UUID, unread int64) error {
	args := m.Called(ctx, userID, unread)
	return args.Error(0)
}

type MockCreateNotificationCommandHandler struct{ mock.Mock }

func (m *MockCreateNotificationCommandHandler) Exec(ctx context.Context, cmd matchmaking_in.CreateNotificationCommand) (*matchmaking_entities.Notification, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*matchmaking_entities.Notification), args.Error(1)
}
