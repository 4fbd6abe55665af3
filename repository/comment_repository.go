package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"moments/apperr"
	"moments/model"
)

type CommentRepository interface {
	List(ctx context.Context, filter models.CommentFilter) ([]models.CommentRow, error)
	GetByID(ctx context.Context, commentID uuid.UUID) (*models.CommentRow, error)
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, commentID uuid.UUID, content string) error
	Delete(ctx context.Context, commentID uuid.UUID) error
}

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

const commentColumns = `
	c.id, c.owner_id, c.post_id, c.content, c.created_at, c.updated_at,
	u.username AS owner_username,
	pr.id AS profile_id,
	pr.image AS profile_image,
	p.title AS post_title
`

const commentFrom = `
	FROM comments c
	JOIN users u ON u.id = c.owner_id
	JOIN profiles pr ON pr.owner_id = c.owner_id
	JOIN posts p ON p.id = c.post_id
`

func (r *commentRepository) List(ctx context.Context, filter models.CommentFilter) ([]models.CommentRow, error) {
	query := `SELECT ` + commentColumns + commentFrom

	var args []interface{}
	where := " WHERE 1=1"
	if filter.PostID != nil {
		args = append(args, *filter.PostID)
		where += fmt.Sprintf(" AND c.post_id = $%d", len(args))
	}
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		where += fmt.Sprintf(" AND c.owner_id = $%d", len(args))
	}

	query += where + " ORDER BY c.created_at DESC"
	query += limitOffset(filter.Limit, filter.Offset)

	comments := []models.CommentRow{}
	if err := r.db.SelectContext(ctx, &comments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

func (r *commentRepository) GetByID(ctx context.Context, commentID uuid.UUID) (*models.CommentRow, error) {
	query := `SELECT ` + commentColumns + commentFrom + ` WHERE c.id = $1`

	var comment models.CommentRow
	err := r.db.GetContext(ctx, &comment, query, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return &comment, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, owner_id, post_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.OwnerID, comment.PostID, comment.Content,
		comment.CreatedAt, comment.UpdatedAt,
	)
	if err != nil {
		if translated := translateConstraint(err); translated != err {
			return translated
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

func (r *commentRepository) Update(ctx context.Context, commentID uuid.UUID, content string) error {
	query := `
		UPDATE comments
		SET content = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, content, commentID)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
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

func (r *commentRepository) Delete(ctx context.Context, commentID uuid.UUID) error {
	query := `DELETE FROM comments WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
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
