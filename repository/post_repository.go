package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"moments/apperr"
	"moments/model"
)

type PostRepository interface {
	List(ctx context.Context, filter models.PostFilter) ([]models.PostRow, error)
	ListByIDs(ctx context.Context, postIDs []uuid.UUID) ([]models.PostRow, error)
	GetByID(ctx context.Context, postID uuid.UUID) (*models.PostRow, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, postID uuid.UUID, input *models.UpdatePostInput) error
	Delete(ctx context.Context, postID uuid.UUID) error
}

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// postColumns selects a post with its owner info and the aggregate counts
// computed per query.
const postColumns = `
	p.id, p.owner_id, p.title, p.content, p.image, p.image_filter, p.created_at, p.updated_at,
	u.username AS owner_username,
	pr.id AS profile_id,
	pr.image AS profile_image,
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comments_count,
	(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS likes_count
`

const postFrom = `
	FROM posts p
	JOIN users u ON u.id = p.owner_id
	JOIN profiles pr ON pr.owner_id = p.owner_id
`

var postOrderings = map[string]string{
	"created_at":     "p.created_at",
	"likes_count":    "likes_count",
	"comments_count": "comments_count",
}

func (r *postRepository) List(ctx context.Context, filter models.PostFilter) ([]models.PostRow, error) {
	query := `SELECT ` + postColumns + postFrom

	var args []interface{}
	where := " WHERE 1=1"
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		where += fmt.Sprintf(" AND p.owner_id = $%d", len(args))
	}
	if filter.LikedBy != nil {
		args = append(args, *filter.LikedBy)
		where += fmt.Sprintf(
			" AND p.id IN (SELECT post_id FROM likes WHERE owner_id = $%d)", len(args),
		)
	}
	if filter.FeedOf != nil {
		args = append(args, *filter.FeedOf)
		where += fmt.Sprintf(
			" AND p.owner_id IN (SELECT followed_id FROM followers WHERE owner_id = $%d)", len(args),
		)
	}

	query += where
	query += " " + orderClause(filter.Ordering, postOrderings, "ORDER BY p.created_at DESC")
	query += limitOffset(filter.Limit, filter.Offset)

	posts := []models.PostRow{}
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, nil
}

func (r *postRepository) ListByIDs(ctx context.Context, postIDs []uuid.UUID) ([]models.PostRow, error) {
	if len(postIDs) == 0 {
		return []models.PostRow{}, nil
	}

	query := `SELECT ` + postColumns + postFrom + ` WHERE p.id = ANY($1)`

	posts := []models.PostRow{}
	if err := r.db.SelectContext(ctx, &posts, query, pq.Array(postIDs)); err != nil {
		return nil, fmt.Errorf("failed to list posts by ids: %w", err)
	}

	return posts, nil
}

func (r *postRepository) GetByID(ctx context.Context, postID uuid.UUID) (*models.PostRow, error) {
	query := `SELECT ` + postColumns + postFrom + ` WHERE p.id = $1`

	var post models.PostRow
	err := r.db.GetContext(ctx, &post, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, owner_id, title, content, image, image_filter, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		post.ID, post.OwnerID, post.Title, post.Content,
		post.Image, post.ImageFilter, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		if translated := translateConstraint(err); translated != err {
			return translated
		}
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

func (r *postRepository) Update(ctx context.Context, postID uuid.UUID, input *models.UpdatePostInput) error {
	query := `
		UPDATE posts
		SET title = COALESCE($1, title),
		    content = COALESCE($2, content),
		    image = COALESCE($3, image),
		    image_filter = COALESCE($4, image_filter),
		    updated_at = NOW()
		WHERE id = $5
	`

	result, err := r.db.ExecContext(ctx, query,
		input.Title, input.Content, input.Image, input.ImageFilter, postID,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
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

func (r *postRepository) Delete(ctx context.Context, postID uuid.UUID) error {
	query := `DELETE FROM posts WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
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
