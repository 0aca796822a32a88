package matchmaking_out

import (
	"context"
	"time"

	"github.com/google/uuid"
	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
)

// MatchRequestRepository persists MatchRequest aggregates (spec §3).
type MatchRequestRepository interface {
	Create(ctx context.Context, req *matchmaking_entities.MatchRequest) (*matchmaking_entities.MatchRequest, error)
	Update(ctx context.Context, req *matchmaking_entities.MatchRequest) (*matchmaking_entities.MatchRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*matchmaking_entities.MatchRequest, error)
	FindActiveByUserID(ctx context.Context, userID uuid.UUID) (*matchmaking_entities.MatchRequest, error)
	FindAllSearching(ctx context.Context) ([]*matchmaking_entities.MatchRequest, error)
	FindHistory(ctx context.Context, userID uuid.UUID, filter matchmaking_entities.HistoryFilter, page matchmaking_entities.PageRequest) ([]*matchmaking_entities.MatchRequest, int64, error)
}

// LobbyRepository persists Lobby aggregates (spec §3).
type LobbyRepository interface {
	Create(ctx context.Context, lobby *matchmaking_entities.Lobby) (*matchmaking_entities.Lobby, error)
	Update(ctx context.Context, lobby *matchmaking_entities.Lobby) (*matchmaking_entities.Lobby, error)
	FindByID(ctx context.Context, id uuid.UUID) (*matchmaking_entities.Lobby, error)
	FindByMember(ctx context.Context, userID uuid.UUID, includeHistory bool, since time.Time) ([]*matchmaking_entities.Lobby, error)
}

// ChatChannelRepository persists ChatChannel aggregates (spec §3).
type ChatChannelRepository interface {
	Create(ctx context.Context, channel *matchmaking_entities.ChatChannel) (*matchmaking_entities.ChatChannel, error)
	Update(ctx context.Context, channel *matchmaking_entities.ChatChannel) (*matchmaking_entities.ChatChannel, error)
	FindByLobbyID(ctx context.Context, lobbyID uuid.UUID) (*matchmaking_entities.ChatChannel, error)
}

// NotificationRepository persists Notification records (spec §3).
type NotificationRepository interface {
	Create(ctx context.Context, n *matchmaking_entities.Notification) (*matchmaking_entities.Notification, error)
	Update(ctx context.Context, n *matchmaking_entities.Notification) (*matchmaking_entities.Notification, error)
	FindByID(ctx context.Context, id uuid.UUID) (*matchmaking_entities.Notification, error)
	List(ctx context.Context, userID uuid.UUID, filter NotificationFilter, page matchmaking_entities.PageRequest) ([]*matchmaking_entities.Notification, int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkManyRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, now time.Time) error
	MarkAllRead(ctx context.Context, userID uuid.UUID, now time.Time) error
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
	Sweep(ctx context.Context, olderThan time.Time) (int64, error)
}

// NotificationFilter narrows a notification listing.
type NotificationFilter struct {
	Status   string // "read" | "unread" | ""
	Type     string
	Priority matchmaking_entities.NotificationPriority
}

// PreferencesRepository persists per-user notification channel preferences.
type PreferencesRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (matchmaking_entities.NotificationPreferences, error)
	Put(ctx context.Context, prefs matchmaking_entities.NotificationPreferences) error
}

// NotificationDispatcher enqueues push/email delivery jobs on retryable
// queues that have no length limit. The consuming workers prefetch 10 push / 5 email jobs,
// handle them one at a time with no batch time window, and make at most 3
// attempts, with 2^n-second backoff for email.
type NotificationDispatcher interface {
	EnqueuePush(ctx context.Context, notificationID, userID uuid.UUID, title, body string) error
	EnqueueEmail(ctx context.Context, notificationID, userID uuid.UUID, title, body string) error
}

// GameCatalogueClient resolves whether a gameId is known to the external
// games database (spec §1 out-of-scope collaborator; spec §4.E UnknownGame,
// §7 502/503 CATALOGUE_UNAVAILABLE).
type GameCatalogueClient interface {
	GameExists(ctx context.Context, gameID string) (bool, error)
}

// QueueIndex is the in-memory bucket index (component A). Implementations
// must serialize all mutations (spec §4.A "Concurrency").
type QueueIndex interface {
	Add(ref QueueRef) error
	Remove(userID uuid.UUID, requestID uuid.UUID)
	List(gameID string, mode string, region string) []QueueRef
	Buckets() []BucketKey
	Sweep(olderThan time.Duration, now time.Time) []QueueRef
	Signal() <-chan QueueRef
}

// QueueRef is a lightweight pointer into a MatchRequest, enough to drive
// bucket iteration without re-fetching the full aggregate (spec §4.A).
type QueueRef struct {
	RequestID       uuid.UUID
	UserID          uuid.UUID
	GameID          string
	Mode            string
	Regions         []string
	SearchStartTime time.Time
}

// BucketKey identifies one (gameId, mode, region) bucket.
type BucketKey struct {
	GameID string
	Mode   string
	Region string
}
