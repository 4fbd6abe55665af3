package models

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OwnerID   uuid.UUID `json:"owner_id" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	Content   string    `json:"content" db:"content"`
	Image     string    `json:"image" db:"image"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProfileRow is a profile as read back from the database, joined with its
// owner's username and the aggregate counts computed at query time.
type ProfileRow struct {
	Profile
	OwnerUsername  string `db:"owner_username"`
	PostsCount     int64  `db:"posts_count"`
	FollowersCount int64  `db:"followers_count"`
	FollowingCount int64  `db:"following_count"`
}

// ProfileView is the JSON representation of a profile. IsOwner and
// FollowingID are relative to the requester and never stored.
type ProfileView struct {
	ID             uuid.UUID  `json:"id"`
	Owner          string     `json:"owner"`
	IsOwner        bool       `json:"is_owner"`
	Name           string     `json:"name"`
	Content        string     `json:"content"`
	Image          string     `json:"image"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	PostsCount     int64      `json:"posts_count"`
	FollowersCount int64      `json:"followers_count"`
	FollowingCount int64      `json:"following_count"`
	FollowingID    *uuid.UUID `json:"following_id"`
}

// ProfileFilter narrows and orders a profile listing.
type ProfileFilter struct {
	OwnerID *uuid.UUID
	// FollowedBy selects profiles of users that this user follows.
	FollowedBy *uuid.UUID
	// Following selects profiles of users that follow this user.
	Following *uuid.UUID
	Ordering  string
	Limit     int
	Offset    int
}

// UpdateProfileInput carries the mutable profile fields. Nil means
// "leave unchanged".
type UpdateProfileInput struct {
	Name    *string
	Content *string
	Image   *string
}
