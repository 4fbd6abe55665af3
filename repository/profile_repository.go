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

type ProfileRepository interface {
	List(ctx context.Context, filter models.ProfileFilter) ([]models.ProfileRow, error)
	GetByID(ctx context.Context, profileID uuid.UUID) (*models.ProfileRow, error)
	Update(ctx context.Context, profileID uuid.UUID, input *models.UpdateProfileInput) error
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// profileColumns selects a profile with its owner's username and the
// aggregate counts computed per query.
const profileColumns = `
	p.id, p.owner_id, p.name, p.content, p.image, p.created_at, p.updated_at,
	u.username AS owner_username,
	(SELECT COUNT(*) FROM posts ps WHERE ps.owner_id = p.owner_id) AS posts_count,
	(SELECT COUNT(*) FROM followers f WHERE f.followed_id = p.owner_id) AS followers_count,
	(SELECT COUNT(*) FROM followers f WHERE f.owner_id = p.owner_id) AS following_count
`

var profileOrderings = map[string]string{
	"created_at":      "p.created_at",
	"posts_count":     "posts_count",
	"followers_count": "followers_count",
	"following_count": "following_count",
}

func (r *profileRepository) List(ctx context.Context, filter models.ProfileFilter) ([]models.ProfileRow, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles p
		JOIN users u ON u.id = p.owner_id
	`

	var args []interface{}
	where := " WHERE 1=1"
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		where += fmt.Sprintf(" AND p.owner_id = $%d", len(args))
	}
	if filter.FollowedBy != nil {
		args = append(args, *filter.FollowedBy)
		where += fmt.Sprintf(
			" AND p.owner_id IN (SELECT followed_id FROM followers WHERE owner_id = $%d)", len(args),
		)
	}
	if filter.Following != nil {
		args = append(args, *filter.Following)
		where += fmt.Sprintf(
			" AND p.owner_id IN (SELECT owner_id FROM followers WHERE followed_id = $%d)", len(args),
		)
	}

	query += where
	query += " " + orderClause(filter.Ordering, profileOrderings, "ORDER BY p.created_at DESC")
	query += limitOffset(filter.Limit, filter.Offset)

	profiles := []models.ProfileRow{}
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	return profiles, nil
}

func (r *profileRepository) GetByID(ctx context.Context, profileID uuid.UUID) (*models.ProfileRow, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles p
		JOIN users u ON u.id = p.owner_id
		WHERE p.id = $1
	`

	var profile models.ProfileRow
	err := r.db.GetContext(ctx, &profile, query, profileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profileID uuid.UUID, input *models.UpdateProfileInput) error {
	query := `
		UPDATE profiles
		SET name = COALESCE($1, name),
		    content = COALESCE($2, content),
		    image = COALESCE($3, image),
		    updated_at = NOW()
		WHERE id = $4
	`

	result, err := r.db.ExecContext(ctx, query, input.Name, input.Content, input.Image, profileID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
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
