package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OwnerID     uuid.UUID `json:"owner_id" db:"owner_id"`
	Title       string    `json:"title" db:"title"`
	Content     string    `json:"content" db:"content"`
	Image       string    `json:"image" db:"image"`
	ImageFilter string    `json:"image_filter" db:"image_filter"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// PostRow is a post joined with owner info and the aggregate counts
// computed at query time.
type PostRow struct {
	Post
	OwnerUsername string    `db:"owner_username"`
	ProfileID     uuid.UUID `db:"profile_id"`
	ProfileImage  string    `db:"profile_image"`
	CommentsCount int64     `db:"comments_count"`
	LikesCount    int64     `db:"likes_count"`
}

// PostView is the JSON representation of a post. IsOwner and LikeID are
// relative to the requester and never stored.
type PostView struct {
	ID            uuid.UUID  `json:"id"`
	Owner         string     `json:"owner"`
	IsOwner       bool       `json:"is_owner"`
	ProfileID     uuid.UUID  `json:"profile_id"`
	ProfileImage  string     `json:"profile_image"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Image         string     `json:"image"`
	ImageFilter   string     `json:"image_filter"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LikeID        *uuid.UUID `json:"like_id"`
	CommentsCount int64      `json:"comments_count"`
	LikesCount    int64      `json:"likes_count"`
}

// PostFilter narrows and orders a post listing.
type PostFilter struct {
	OwnerID *uuid.UUID
	LikedBy *uuid.UUID
	// FeedOf selects posts authored by users this user follows.
	FeedOf   *uuid.UUID
	Ordering string
	Limit    int
	Offset   int
}

// UpdatePostInput carries the mutable post fields. Nil means "leave unchanged".
type UpdatePostInput struct {
	Title       *string
	Content     *string
	Image       *string
	ImageFilter *string
}
