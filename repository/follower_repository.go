package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"moments/apperr"
	"moments/model"
)

type FollowerRepository interface {
	// Create inserts a follow edge and returns it. A second edge for the
	// same (owner, followed) pair comes back as apperr.ErrDuplicate.
	// Self-follows are rejected with a field error on "followed".
	Create(ctx context.Context, ownerID, followedID uuid.UUID) (*models.Follower, error)
	List(ctx context.Context, filter models.FollowerFilter) ([]models.FollowerRow, error)
	GetByID(ctx context.Context, followID uuid.UUID) (*models.FollowerRow, error)
	Delete(ctx context.Context, followID uuid.UUID) error
	// FollowingIDsFor returns, per followed user, the id of this owner's
	// follow edge if any.
	FollowingIDsFor(ctx context.Context, ownerID uuid.UUID, followedIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error)
}

type followerRepository struct {
	db *sqlx.DB
}

func NewFollowerRepository(db *sqlx.DB) FollowerRepository {
	return &followerRepository{db: db}
}

func (r *followerRepository) Create(ctx context.Context, ownerID, followedID uuid.UUID) (*models.Follower, error) {
	if ownerID == followedID {
		return nil, apperr.FieldError("followed", "users cannot follow themselves")
	}

	query := `
		INSERT INTO followers (id, owner_id, followed_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id, followed_id) DO NOTHING
		RETURNING id, owner_id, followed_id, created_at
	`

	var follow models.Follower
	err := r.db.GetContext(ctx, &follow, query, uuid.New(), ownerID, followedID, time.Now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrDuplicate
		}
		if translated := translateConstraint(err); translated != err {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to create follow: %w", err)
	}

	return &follow, nil
}

const followerColumns = `
	f.id, f.owner_id, f.followed_id, f.created_at,
	o.username AS owner_username,
	t.username AS followed_username
`

const followerFrom = `
	FROM followers f
	JOIN users o ON o.id = f.owner_id
	JOIN users t ON t.id = f.followed_id
`

func (r *followerRepository) List(ctx context.Context, filter models.FollowerFilter) ([]models.FollowerRow, error) {
	query := `SELECT ` + followerColumns + followerFrom

	var args []interface{}
	where := " WHERE 1=1"
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		where += fmt.Sprintf(" AND f.owner_id = $%d", len(args))
	}
	if filter.FollowedID != nil {
		args = append(args, *filter.FollowedID)
		where += fmt.Sprintf(" AND f.followed_id = $%d", len(args))
	}

	query += where + " ORDER BY f.created_at DESC"
	query += limitOffset(filter.Limit, filter.Offset)

	follows := []models.FollowerRow{}
	if err := r.db.SelectContext(ctx, &follows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list follows: %w", err)
	}

	return follows, nil
}

func (r *followerRepository) GetByID(ctx context.Context, followID uuid.UUID) (*models.FollowerRow, error) {
	query := `SELECT ` + followerColumns + followerFrom + ` WHERE f.id = $1`

	var follow models.FollowerRow
	err := r.db.GetContext(ctx, &follow, query, followID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get follow: %w", err)
	}

	return &follow, nil
}

func (r *followerRepository) Delete(ctx context.Context, followID uuid.UUID) error {
	query := `DELETE FROM followers WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, followID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperr.ErrNotFound
	}

	return nil
}

func (r *followerRepository) FollowingIDsFor(ctx context.Context, ownerID uuid.UUID, followedIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	if len(followedIDs) == 0 {
		return map[uuid.UUID]uuid.UUID{}, nil
	}

	query := `
		SELECT id, followed_id
		FROM followers
		WHERE owner_id = $1 AND followed_id = ANY($2)
	`

	rows, err := r.db.QueryxContext(ctx, query, ownerID, pq.Array(followedIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query follow ids: %w", err)
	}
	defer rows.Close()

	followIDs := make(map[uuid.UUID]uuid.UUID)
	for rows.Next() {
		var id, followedID uuid.UUID
		if err := rows.Scan(&id, &followedID); err != nil {
			return nil, fmt.Errorf("failed to scan follow id: %w", err)
		}
		followIDs[followedID] = id
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating follow ids: %w", err)
	}

	return followIDs, nil
}
