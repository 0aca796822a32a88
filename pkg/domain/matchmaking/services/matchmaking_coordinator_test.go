package matchmaking_services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	common "github.com/matchforge/platform/pkg/domain"
	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
	matchmaking_in "github.com/matchforge/platform/pkg/domain/matchmaking/ports/in"
	matchmaking_services "github.com/matchforge/platform/pkg/domain/matchmaking/services"
)

func validSubmitCommand() matchmaking_in.SubmitMatchRequestCommand {
	return matchmaking_in.SubmitMatchRequestCommand{
		Games:              []matchmaking_in.GameWeightInput{{GameID: "csgo", Weight: 5}},
		GameMode:           "competitive",
		Regions:            []string{"NA"},
		RegionPreference:   "strict",
		Languages:          []string{"en"},
		LanguagePreference: "strict",
		SkillPreference:    "similar",
		GroupSize:          matchmaking_in.GroupSizeInput{Min: 1, Max: 5},
	}
}

type coordinatorFixture struct {
	requests  *MockMatchRequestRepository
	lobbies   *MockLobbyRepository
	chats     *MockChatChannelRepository
	queue     *MockQueueIndex
	catalogue *MockGameCatalogueClient
	profiles  *MockPlayerProfileClient
	publisher *MockEventPublisher
	notify    *MockCreateNotificationCommandHandler
}

func newCoordinator() (*matchmaking_services.MatchmakingCoordinator, *coordinatorFixture) {
	f := &coordinatorFixture{
		requests:  &MockMatchRequestRepository{},
		lobbies:   &MockLobbyRepository{},
		chats:     &MockChatChannelRepository{},
		queue:     &MockQueueIndex{},
		catalogue: &MockGameCatalogueClient{},
		profiles:  &MockPlayerProfileClient{},
		publisher: &MockEventPublisher{},
		notify:    &MockCreateNotificationCommandHandler{},
	}
	cfg := matchmaking_services.CoordinatorConfig{
		MinGroupSize:       2,
		RequestTTL:         time.Hour,
		TickInterval:       time.Second,
		RelaxationLevel1At: 30 * time.Second,
		RelaxationLevel2At: 90 * time.Second,
		RelaxationLevel3At: 180 * time.Second,
	}
	c := matchmaking_services.NewMatchmakingCoordinator(
		f.requests, f.lobbies, f.chats, f.queue, f.catalogue, f.profiles, f.publisher, f.notify, cfg,
	)
	return c, f
}

func ctxWithOwner(userID uuid.UUID) context.Context {
	owner := common.NewResourceOwner(uuid.New(), userID)
	return common.WithResourceOwner(context.Background(), owner)
}

func TestSubmit_HappyPath(t *testing.T) {
	c, f := newCoordinator()
	userID := uuid.New()
	ctx := ctxWithOwner(userID)

	f.profiles.On("IsEligible", ctx, userID).Return(true, nil)
	f.requests.On("FindActiveByUserID", ctx, userID).Return(nil, nil)
	f.catalogue.On("GameExists", ctx, "csgo").Return(true, nil)
	f.queue.On("Add", mock.AnythingOfType("matchmaking_out.QueueRef")).Return(nil)
	f.publisher.On("PublishMatchmakingStatus", ctx, mock.Anything, mock.Anything).Return(nil)

	// Create/Update echo back whatever request was passed in.
	f.requests.On("Create", ctx, mock.AnythingOfType("*matchmaking_entities.MatchRequest")).
		Return(func(ctx context.Context, req *matchmaking_entities.MatchRequest) *matchmaking_entities.MatchRequest { return req }, nil)
	f.requests.On("Update", ctx, mock.AnythingOfType("*matchmaking_entities.MatchRequest")).
		Return(func(ctx context.Context, req *matchmaking_entities.MatchRequest) *matchmaking_entities.MatchRequest { return req }, nil)

	req, err := c.Submit(ctx, userID, validSubmitCommand())

	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, userID, req.OwnerID)
	assert.Equal(t, "csgo", req.PrimaryGameID)
	assert.Equal(t, matchmaking_entities.RequestStatusSearching, req.Status)
	assert.True(t, req.Indexed)
	f.queue.AssertCalled(t, "Add", mock.AnythingOfType("matchmaking_out.QueueRef"))
}

func TestSubmit_RejectsIneligibleUser(t *testing.T) {
	c, f := newCoordinator()
	userID := uuid.New()
	ctx := ctxWithOwner(userID)

	f.profiles.On("IsEligible", ctx, userID).Return(false, nil)

	req, err := c.Submit(ctx, userID, validSubmitCommand())

	require.Error(t, err)
	assert.Nil(t, req)
	assert.True(t, common.IsCode(err, "USER_INELIGIBLE"))
	f.requests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmit_RejectsDuplicateActiveRequest(t *testing.T) {
	c, f := newCoordinator()
	userID := uuid.New()
	ctx := ctxWithOwner(userID)
	existing := &matchmaking_entities.MatchRequest{OwnerID: userID, Status: matchmaking_entities.RequestStatusSearching}
	existing.ID = uuid.New()

	f.profiles.On("IsEligible", ctx, userID).Return(true, nil)
	f.requests.On("FindActiveByUserID", ctx, userID).Return(existing, nil)

	req, err := c.Submit(ctx, userID, validSubmitCommand())

	require.Error(t, err)
	assert.Nil(t, req)
	assert.True(t, common.IsCode(err, "ACTIVE_REQUEST_EXISTS"))
}

func TestSubmit_RejectsUnknownGame(t *testing.T) {
	c, f := newCoordinator()
	userID := uuid.New()
	ctx := ctxWithOwner(userID)

	f.profiles.On("IsEligible", ctx, userID).Return(true, nil)
	f.requests.On("FindActiveByUserID", ctx, userID).Return(nil, nil)
	f.catalogue.On("GameExists", ctx, "csgo").Return(false, nil)

	req, err := c.Submit(ctx, userID, validSubmitCommand())

	require.Error(t, err)
	assert.Nil(t, req)
	assert.True(t, common.IsCode(err, "INVALID_GAME"))
}

func TestSubmit_RejectsInvalidCriteria(t *testing.T) {
	c, _ := newCoordinator()
	userID := uuid.New()
	ctx := ctxWithOwner(userID)

	cmd := validSubmitCommand()
	cmd.Games = nil

	req, err := c.Submit(ctx, userID, cmd)

	require.Error(t, err)
	assert.Nil(t, req)
	assert.True(t, common.IsCode(err, "VALIDATION_ERROR"))
}

func TestCancel_RejectsWhenNotOwnerOrNotSearching(t *testing.T) {
	c, f := newCoordinator()
	userID := uuid.New()
	ctx := ctxWithOwner(userID)
	requestID := uuid.New()

	other := &matchmaking_entities.MatchRequest{OwnerID: uuid.New(), Status: matchmaking_entities.RequestStatusSearching}
	other.ID = requestID
	f.requests.On("FindByID", ctx, requestID).Return(other, nil)

	req, err := c.Cancel(ctx, userID, requestID)

	require.Error(t, err)
	assert.Nil(t, req)
	assert.True(t, common.IsCode(err, "NOT_FOUND"))
}

func TestCancel_HappyPath(t *testing.T) {
	c, f := newCoordinator()
	userID := uuid.New()
	ctx := ctxWithOwner(userID)
	requestID := uuid.New()

	existing := &matchmaking_entities.MatchRequest{OwnerID: userID, Status: matchmaking_entities.RequestStatusSearching}
	existing.ID = requestID

	f.requests.On("FindByID", ctx, requestID).Return(existing, nil)
	f.requests.On("Update", ctx, mock.AnythingOfType("*matchmaking_entities.MatchRequest")).
		Return(func(ctx context.Context, req *matchmaking_entities.MatchRequest) *matchmaking_entities.MatchRequest { return req }, nil)
	f.queue.On("Remove", userID, requestID).Return()
	f.publisher.On("PublishMatchmakingStatus", ctx, mock.Anything, mock.Anything).Return(nil)

	req, err := c.Cancel(ctx, userID, requestID)

	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, matchmaking_entities.RequestStatusCancelled, req.Status)
	f.queue.AssertCalled(t, "Remove", userID, requestID)
}

func TestStatus_ReturnsNilWhenNoActiveRequest(t *testing.T) {
	c, f := newCoordinator()
	userID := uuid.New()
	ctx := ctxWithOwner(userID)

	f.requests.On("FindActiveByUserID", ctx, userID).Return(nil, nil)

	req, info, err := c.Status(ctx, userID)

	require.NoError(t, err)
	assert.Nil(t, req)
	assert.Nil(t, info)
}
