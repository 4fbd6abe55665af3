package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// newFeedRepo backs the repository with an in-process redis. The database
// is left nil so any fallthrough to a rebuild fails loudly.
func newFeedRepo(t *testing.T) *feedRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return &feedRepository{redis: client, ttl: time.Minute}
}

func TestFeedCacheRoundTrip(t *testing.T) {
	repo := newFeedRepo(t)
	ctx := context.Background()
	userID := uuid.New()
	postIDs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	if err := repo.cache(ctx, userID, postIDs); err != nil {
		t.Fatalf("cache failed: %v", err)
	}

	ids, err := repo.getCached(ctx, userID, 2, 1)
	if err != nil {
		t.Fatalf("getCached failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != postIDs[1] || ids[1] != postIDs[2] {
		t.Errorf("ids = %v, want %v", ids, postIDs[1:])
	}
}

// An empty timeline is cached too; a user following nobody must not rebuild
// from the database on every request.
func TestFeedCacheEmptyTimelineIsAHit(t *testing.T) {
	repo := newFeedRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	if err := repo.cache(ctx, userID, nil); err != nil {
		t.Fatalf("cache failed: %v", err)
	}

	ids, err := repo.getCached(ctx, userID, 50, 0)
	if err != nil {
		t.Fatalf("empty timeline must be served from cache, got %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("ids = %v, want none", ids)
	}

	// With a nil database handle a rebuild would panic, so this read
	// passing proves the cache satisfied it.
	ids, err = repo.GetTimeline(ctx, userID, 50, 0)
	if err != nil {
		t.Fatalf("GetTimeline failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("timeline = %v, want empty", ids)
	}
}

func TestFeedCacheInvalidateUser(t *testing.T) {
	repo := newFeedRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	if err := repo.cache(ctx, userID, []uuid.UUID{uuid.New()}); err != nil {
		t.Fatalf("cache failed: %v", err)
	}
	if err := repo.InvalidateUser(ctx, userID); err != nil {
		t.Fatalf("InvalidateUser failed: %v", err)
	}

	if _, err := repo.getCached(ctx, userID, 50, 0); !errors.Is(err, redis.Nil) {
		t.Errorf("getCached after invalidation = %v, want redis.Nil miss", err)
	}
}
