// Package queueindex implements the process-wide Queue Index (component A):
// a constant-time (gameId, mode, region) bucket lookup plus a per-user
// existence index, serialized behind a single mutex.
package queueindex

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	common "github.com/matchforge/platform/pkg/domain"
	matchmaking_out "github.com/matchforge/platform/pkg/domain/matchmaking/ports/out"
)

type userEntry struct {
	requestID uuid.UUID
	gameID    string
	mode      string
	regions   []string
}

// InMemoryQueueIndex is the default QueueIndex implementation. It starts
// empty and is filled only through Add; searching MatchRequests persisted
// before a restart are not replayed into it.
type InMemoryQueueIndex struct {
	mu       sync.Mutex
	buckets  map[string]map[string]map[string][]matchmaking_out.QueueRef
	byUser   map[uuid.UUID]userEntry
	signalCh chan matchmaking_out.QueueRef
}

func New() *InMemoryQueueIndex {
	return &InMemoryQueueIndex{
		buckets:  make(map[string]map[string]map[string][]matchmaking_out.QueueRef),
		byUser:   make(map[uuid.UUID]userEntry),
		signalCh: make(chan matchmaking_out.QueueRef, 256),
	}
}

// Add inserts ref under every region it lists. A request with regions
// [NA, EU] is visible in both buckets; de-duplication across buckets
// happens at formation time by request id (spec §4.A).
func (q *InMemoryQueueIndex) Add(ref matchmaking_out.QueueRef) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.byUser[ref.UserID]; exists {
		return common.NewErrActiveRequestExists(ref.RequestID)
	}
	if ref.GameID == "" {
		return common.NewErrIllegalState("match request has no resolvable primary game")
	}

	for _, region := range ref.Regions {
		q.insertLocked(ref, region)
	}

	q.byUser[ref.UserID] = userEntry{requestID: ref.RequestID, gameID: ref.GameID, mode: ref.Mode, regions: ref.Regions}

	select {
	case q.signalCh <- ref:
	default:
	}

	return nil
}

func (q *InMemoryQueueIndex) insertLocked(ref matchmaking_out.QueueRef, region string) {
	byMode, ok := q.buckets[ref.GameID]
	if !ok {
		byMode = make(map[string]map[string][]matchmaking_out.QueueRef)
		q.buckets[ref.GameID] = byMode
	}
	byRegion, ok := byMode[ref.Mode]
	if !ok {
		byRegion = make(map[string][]matchmaking_out.QueueRef)
		byMode[ref.Mode] = byRegion
	}

	bucket := byRegion[region]
	idx := sort.Search(len(bucket), func(i int) bool {
		return bucket[i].SearchStartTime.After(ref.SearchStartTime)
	})
	bucket = append(bucket, matchmaking_out.QueueRef{})
	copy(bucket[idx+1:], bucket[idx:])
	bucket[idx] = ref
	byRegion[region] = bucket
}

// Remove is idempotent and prunes empty inner maps (spec §4.A).
func (q *InMemoryQueueIndex) Remove(userID uuid.UUID, requestID uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	entry, ok := q.byUser[userID]
	if !ok || entry.requestID != requestID {
		return
	}
	delete(q.byUser, userID)

	byMode, ok := q.buckets[entry.gameID]
	if !ok {
		return
	}
	byRegion, ok := byMode[entry.mode]
	if !ok {
		return
	}

	for _, region := range entry.regions {
		bucket := byRegion[region]
		filtered := bucket[:0]
		for _, r := range bucket {
			if r.RequestID != requestID {
				filtered = append(filtered, r)
			}
		}
		if len(filtered) == 0 {
			delete(byRegion, region)
		} else {
			byRegion[region] = filtered
		}
	}

	if len(byRegion) == 0 {
		delete(byMode, entry.mode)
	}
	if len(byMode) == 0 {
		delete(q.buckets, entry.gameID)
	}
}

// List returns a snapshot of a bucket; callers must not mutate it.
func (q *InMemoryQueueIndex) List(gameID, mode, region string) []matchmaking_out.QueueRef {
	q.mu.Lock()
	defer q.mu.Unlock()

	bucket := q.buckets[gameID][mode][region]
	if bucket == nil {
		return nil
	}
	snapshot := make([]matchmaking_out.QueueRef, len(bucket))
	copy(snapshot, bucket)
	return snapshot
}

// Buckets enumerates every non-empty bucket key currently held.
func (q *InMemoryQueueIndex) Buckets() []matchmaking_out.BucketKey {
	q.mu.Lock()
	defer q.mu.Unlock()

	var keys []matchmaking_out.BucketKey
	for gameID, byMode := range q.buckets {
		for mode, byRegion := range byMode {
			for region, bucket := range byRegion {
				if len(bucket) > 0 {
					keys = append(keys, matchmaking_out.BucketKey{GameID: gameID, Mode: mode, Region: region})
				}
			}
		}
	}
	return keys
}

// Sweep removes entries whose searchStartTime is older than olderThan,
// returning the removed refs so the caller can emit RequestExpired per
// removed request (spec §4.A).
func (q *InMemoryQueueIndex) Sweep(olderThan time.Duration, now time.Time) []matchmaking_out.QueueRef {
	q.mu.Lock()
	cutoff := now.Add(-olderThan)

	var expired []matchmaking_out.QueueRef
	for _, entry := range q.byUser {
		for gameID, byMode := range q.buckets {
			if gameID != entry.gameID {
				continue
			}
			for mode, byRegion := range byMode {
				if mode != entry.mode {
					continue
				}
				for _, region := range entry.regions {
					for _, ref := range byRegion[region] {
						if ref.RequestID == entry.requestID && ref.SearchStartTime.Before(cutoff) {
							expired = append(expired, ref)
						}
					}
				}
			}
		}
	}
	q.mu.Unlock()

	for _, ref := range expired {
		q.Remove(ref.UserID, ref.RequestID)
	}
	return expired
}

// Signal exposes the RequestAdded channel the Coordinator's event-driven
// pass listens on (spec §4.E).
func (q *InMemoryQueueIndex) Signal() <-chan matchmaking_out.QueueRef {
	return q.signalCh
}
