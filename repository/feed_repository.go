package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// feedMaxLen caps how many post ids a cached timeline holds.
const feedMaxLen = 500

// feedEmptyMarker keeps the key alive for a timeline with no posts, so an
// empty feed is a cache hit instead of a rebuild on every request.
const feedEmptyMarker = "-"

type FeedRepository interface {
	// GetTimeline returns ids of posts authored by users this user follows,
	// newest first. Served from the redis cache when warm, rebuilt from the
	// database otherwise.
	GetTimeline(ctx context.Context, userID uuid.UUID, limit, offset int) ([]uuid.UUID, error)
	InvalidateUser(ctx context.Context, userID uuid.UUID) error
	// InvalidateFollowersOf drops the cached timelines of everyone following
	// the author. Called when the author creates or deletes a post.
	InvalidateFollowersOf(ctx context.Context, authorID uuid.UUID) error
}

type feedRepository struct {
	db    *sqlx.DB
	redis *redis.Client
	ttl   time.Duration
}

func NewFeedRepository(db *sqlx.DB, redisClient *redis.Client, ttl time.Duration) FeedRepository {
	return &feedRepository{
		db:    db,
		redis: redisClient,
		ttl:   ttl,
	}
}

func feedKey(userID uuid.UUID) string {
	return "feed:" + userID.String()
}

func (r *feedRepository) GetTimeline(ctx context.Context, userID uuid.UUID, limit, offset int) ([]uuid.UUID, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	ids, err := r.getCached(ctx, userID, limit, offset)
	if err == nil {
		return ids, nil
	}
	if err != redis.Nil {
		// Cache trouble is not fatal for reads, fall through to the database.
		log.Warnf("feed cache read failed for %s: %v", userID, err)
	}

	postIDs, err := r.buildTimeline(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := r.cache(ctx, userID, postIDs); err != nil {
		log.Warnf("feed cache write failed for %s: %v", userID, err)
	}

	if offset >= len(postIDs) {
		return []uuid.UUID{}, nil
	}
	end := offset + limit
	if end > len(postIDs) {
		end = len(postIDs)
	}
	return postIDs[offset:end], nil
}

func (r *feedRepository) getCached(ctx context.Context, userID uuid.UUID, limit, offset int) ([]uuid.UUID, error) {
	key := feedKey(userID)

	exists, err := r.redis.Exists(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, redis.Nil
	}

	values, err := r.redis.LRange(ctx, key, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(values))
	for _, value := range values {
		if value == feedEmptyMarker {
			continue
		}
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("corrupt feed cache entry: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (r *feedRepository) buildTimeline(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT p.id
		FROM posts p
		JOIN followers f ON f.followed_id = p.owner_id
		WHERE f.owner_id = $1
		ORDER BY p.created_at DESC
		LIMIT $2
	`

	var postIDs []uuid.UUID
	if err := r.db.SelectContext(ctx, &postIDs, query, userID, feedMaxLen); err != nil {
		return nil, fmt.Errorf("failed to build timeline: %w", err)
	}

	return postIDs, nil
}

func (r *feedRepository) cache(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) error {
	key := feedKey(userID)

	pipe := r.redis.TxPipeline()
	pipe.Del(ctx, key)
	if len(postIDs) == 0 {
		pipe.RPush(ctx, key, feedEmptyMarker)
	} else {
		values := make([]interface{}, len(postIDs))
		for i, id := range postIDs {
			values[i] = id.String()
		}
		pipe.RPush(ctx, key, values...)
	}
	pipe.Expire(ctx, key, r.ttl)

	_, err := pipe.Exec(ctx)
	return err
}

func (r *feedRepository) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	return r.redis.Del(ctx, feedKey(userID)).Err()
}

func (r *feedRepository) InvalidateFollowersOf(ctx context.Context, authorID uuid.UUID) error {
	query := `SELECT owner_id FROM followers WHERE followed_id = $1`

	var followerIDs []uuid.UUID
	if err := r.db.SelectContext(ctx, &followerIDs, query, authorID); err != nil {
		return fmt.Errorf("failed to get followers for invalidation: %w", err)
	}

	if len(followerIDs) == 0 {
		return nil
	}

	keys := make([]string, len(followerIDs))
	for i, id := range followerIDs {
		keys[i] = feedKey(id)
	}

	return r.redis.Del(ctx, keys...).Err()
}
