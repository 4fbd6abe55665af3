package models

import (
	"time"

	"github.com/google/uuid"
)

type Like struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OwnerID   uuid.UUID `json:"owner_id" db:"owner_id"`
	PostID    uuid.UUID `json:"post_id" db:"post_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// LikeRow is a like joined with the liker's username and the liked post's
// owner and title.
type LikeRow struct {
	Like
	OwnerUsername string `db:"owner_username"`
	PostOwner     string `db:"post_owner"`
	PostTitle     string `db:"post_title"`
}

type LikeView struct {
	ID        uuid.UUID `json:"id"`
	Owner     string    `json:"owner"`
	IsOwner   bool      `json:"is_owner"`
	Post      uuid.UUID `json:"post"`
	PostInfo  PostInfo  `json:"post_info"`
	CreatedAt time.Time `json:"created_at"`
}

// PostInfo is the short summary of a post embedded in like views.
type PostInfo struct {
	Username string `json:"username"`
	Title    string `json:"title"`
}

type LikeFilter struct {
	PostID  *uuid.UUID
	OwnerID *uuid.UUID
	Limit   int
	Offset  int
}
