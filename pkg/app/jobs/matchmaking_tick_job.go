package jobs

import (
	"context"
	"log/slog"
	"time"

	matchmaking_out "github.com/matchforge/platform/pkg/domain/matchmaking/ports/out"
	matchmaking_services "github.com/matchforge/platform/pkg/domain/matchmaking/services"
)

// MatchmakingTickJob drives the Coordinator's periodic processor (spec
// §4.E "tick"): score, relax, and finalize every bucket on a fixed
// interval (5s production / 2s test per spec §4.A).
type MatchmakingTickJob struct {
	coordinator *matchmaking_services.MatchmakingCoordinator
	ticker      *time.Ticker
	interval    time.Duration
}

func NewMatchmakingTickJob(coordinator *matchmaking_services.MatchmakingCoordinator, interval time.Duration) *MatchmakingTickJob {
	return &MatchmakingTickJob{
		coordinator: coordinator,
		ticker:      time.NewTicker(interval),
		interval:    interval,
	}
}

func (j *MatchmakingTickJob) Run(ctx context.Context) {
	slog.InfoContext(ctx, "matchmaking tick job started", "interval", j.interval)
	defer j.ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "matchmaking tick job stopped")
			return
		case <-j.ticker.C:
			j.coordinator.Tick(ctx)
		}
	}
}

// QueueSweepJob evicts requests that exceeded RequestTTL without forming
// a match (spec §4.A "Sweep", 30 minute default).
type QueueSweepJob struct {
	coordinator *matchmaking_services.MatchmakingCoordinator
	ticker      *time.Ticker
	interval    time.Duration
}

func NewQueueSweepJob(coordinator *matchmaking_services.MatchmakingCoordinator, interval time.Duration) *QueueSweepJob {
	return &QueueSweepJob{
		coordinator: coordinator,
		ticker:      time.NewTicker(interval),
		interval:    interval,
	}
}

func (j *QueueSweepJob) Run(ctx context.Context) {
	slog.InfoContext(ctx, "queue sweep job started", "interval", j.interval)
	defer j.ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "queue sweep job stopped")
			return
		case <-j.ticker.C:
			j.coordinator.Sweep(ctx)
		}
	}
}

// QueueSignalJob is the Coordinator's secondary, event-driven processing
// pass (spec §4.E): it reacts to the Queue Index's RequestAdded signal and
// re-scores only the bucket that just received a request, instead of
// waiting for the next fixed tick.
type QueueSignalJob struct {
	coordinator *matchmaking_services.MatchmakingCoordinator
	queue       matchmaking_out.QueueIndex
}

func NewQueueSignalJob(coordinator *matchmaking_services.MatchmakingCoordinator, queue matchmaking_out.QueueIndex) *QueueSignalJob {
	return &QueueSignalJob{coordinator: coordinator, queue: queue}
}

func (j *QueueSignalJob) Run(ctx context.Context) {
	slog.InfoContext(ctx, "queue signal job started")
	signal := j.queue.Signal()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "queue signal job stopped")
			return
		case ref, ok := <-signal:
			if !ok {
				slog.InfoContext(ctx, "queue signal channel closed, stopping queue signal job")
				return
			}
			if len(ref.Regions) == 0 {
				continue
			}
			j.coordinator.ProcessBucket(ctx, ref.GameID, ref.Mode, ref.Regions[0])
		}
	}
}
