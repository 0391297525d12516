package task

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	qport "github.com/amuarte/NoteChat/internal/infrastructure/queue/port"
	repoAdapter "github.com/amuarte/NoteChat/internal/pkg/room/persistence/repository/adapter"
)

// PrunePostsTaskType is the queue task name for the post retention sweep.
const PrunePostsTaskType = "rooms:prune_posts"

// PrunePostsTaskPayload is the JSON payload transported via the queue.
// Durations travel as seconds to keep the payload backend-agnostic.
type PrunePostsTaskPayload struct {
	MaxAgeSeconds   int64 `json:"maxAgeSeconds"`
	IntervalSeconds int64 `json:"intervalSeconds"`
}

// RegisterPrunePostsTask binds the retention handler to the provided server.
// Each run deletes posts older than the max age and re-enqueues itself after
// the interval, so the sweep keeps itself alive once scheduled.
func RegisterPrunePostsTask(srv qport.Server, client qport.Client, pool *pgxpool.Pool, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	srv.Register(PrunePostsTaskType, func(ctx context.Context, t qport.Task) error {
		var p PrunePostsTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: do not retry indefinitely
			return err
		}
		if p.MaxAgeSeconds <= 0 {
			return nil
		}

		repo := repoAdapter.NewPgRoomRepository(pool)

		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		cutoff := time.Now().UTC().Add(-time.Duration(p.MaxAgeSeconds) * time.Second)
		pruned, err := repo.PruneBefore(ctx, cutoff)
		if err != nil {
			return err
		}
		if pruned > 0 {
			log.Info("pruned old posts", "count", pruned, "cutoff", cutoff)
		}

		if p.IntervalSeconds > 0 {
			if _, err := SchedulePrunePosts(ctx, client,
				time.Duration(p.MaxAgeSeconds)*time.Second,
				time.Duration(p.IntervalSeconds)*time.Second,
			); err != nil {
				log.Error("failed to reschedule prune task", "err", err)
			}
		}
		return nil
	})
}

// SchedulePrunePosts enqueues one retention sweep to run after the interval.
// The uniqueness window stops duplicate sweeps from stacking up when several
// nodes schedule at boot.
func SchedulePrunePosts(ctx context.Context, client qport.Client, maxAge, interval time.Duration) (string, error) {
	payload := PrunePostsTaskPayload{
		MaxAgeSeconds:   int64(maxAge / time.Second),
		IntervalSeconds: int64(interval / time.Second),
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return client.Enqueue(ctx, qport.Task{Type: PrunePostsTaskType, Payload: b}, qport.EnqueueOption{
		Queue:     "rooms",
		ProcessIn: interval,
		MaxRetry:  5,
		UniqueTTL: interval,
	})
}
