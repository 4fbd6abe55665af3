package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OwnerID   uuid.UUID `json:"owner_id" db:"owner_id"`
	PostID    uuid.UUID `json:"post_id" db:"post_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CommentRow is a comment joined with its owner's username and the title of
// the post it belongs to.
type CommentRow struct {
	Comment
	OwnerUsername string    `db:"owner_username"`
	ProfileID     uuid.UUID `db:"profile_id"`
	ProfileImage  string    `db:"profile_image"`
	PostTitle     string    `db:"post_title"`
}

type CommentView struct {
	ID           uuid.UUID `json:"id"`
	Owner        string    `json:"owner"`
	IsOwner      bool      `json:"is_owner"`
	ProfileID    uuid.UUID `json:"profile_id"`
	ProfileImage string    `json:"profile_image"`
	Post         uuid.UUID `json:"post"`
	PostTitle    string    `json:"post_title"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CommentFilter struct {
	PostID  *uuid.UUID
	OwnerID *uuid.UUID
	Limit   int
	Offset  int
}
