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

type LikeRepository interface {
	// Create inserts a like and returns it. A second like for the same
	// (owner, post) pair comes back as apperr.ErrDuplicate; the database
	// constraint is the only guard, so concurrent attempts cannot race.
	Create(ctx context.Context, ownerID, postID uuid.UUID) (*models.Like, error)
	List(ctx context.Context, filter models.LikeFilter) ([]models.LikeRow, error)
	GetByID(ctx context.Context, likeID uuid.UUID) (*models.LikeRow, error)
	Delete(ctx context.Context, likeID uuid.UUID) error
	// LikeIDsForPosts returns, per post, the id of this owner's like if any.
	LikeIDsForPosts(ctx context.Context, ownerID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error)
}

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, ownerID, postID uuid.UUID) (*models.Like, error) {
	query := `
		INSERT INTO likes (id, owner_id, post_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id, post_id) DO NOTHING
		RETURNING id, owner_id, post_id, created_at
	`

	var like models.Like
	err := r.db.GetContext(ctx, &like, query, uuid.New(), ownerID, postID, time.Now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrDuplicate
		}
		if translated := translateConstraint(err); translated != err {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to create like: %w", err)
	}

	return &like, nil
}

const likeColumns = `
	l.id, l.owner_id, l.post_id, l.created_at,
	u.username AS owner_username,
	pu.username AS post_owner,
	p.title AS post_title
`

const likeFrom = `
	FROM likes l
	JOIN users u ON u.id = l.owner_id
	JOIN posts p ON p.id = l.post_id
	JOIN users pu ON pu.id = p.owner_id
`

func (r *likeRepository) List(ctx context.Context, filter models.LikeFilter) ([]models.LikeRow, error) {
	query := `SELECT ` + likeColumns + likeFrom

	var args []interface{}
	where := " WHERE 1=1"
	if filter.PostID != nil {
		args = append(args, *filter.PostID)
		where += fmt.Sprintf(" AND l.post_id = $%d", len(args))
	}
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		where += fmt.Sprintf(" AND l.owner_id = $%d", len(args))
	}

	query += where + " ORDER BY l.created_at DESC"
	query += limitOffset(filter.Limit, filter.Offset)

	likes := []models.LikeRow{}
	if err := r.db.SelectContext(ctx, &likes, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list likes: %w", err)
	}

	return likes, nil
}

func (r *likeRepository) GetByID(ctx context.Context, likeID uuid.UUID) (*models.LikeRow, error) {
	query := `SELECT ` + likeColumns + likeFrom + ` WHERE l.id = $1`

	var like models.LikeRow
	err := r.db.GetContext(ctx, &like, query, likeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get like: %w", err)
	}

	return &like, nil
}

func (r *likeRepository) Delete(ctx context.Context, likeID uuid.UUID) error {
	query := `DELETE FROM likes WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, likeID)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
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

func (r *likeRepository) LikeIDsForPosts(ctx context.Context, ownerID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	if len(postIDs) == 0 {
		return map[uuid.UUID]uuid.UUID{}, nil
	}

	query := `
		SELECT id, post_id
		FROM likes
		WHERE owner_id = $1 AND post_id = ANY($2)
	`

	rows, err := r.db.QueryxContext(ctx, query, ownerID, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query like ids: %w", err)
	}
	defer rows.Close()

	likeIDs := make(map[uuid.UUID]uuid.UUID)
	for rows.Next() {
		var id, postID uuid.UUID
		if err := rows.Scan(&id, &postID); err != nil {
			return nil, fmt.Errorf("failed to scan like id: %w", err)
		}
		likeIDs[postID] = id
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating like ids: %w", err)
	}

	return likeIDs, nil
}
