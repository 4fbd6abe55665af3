package models

import (
	"time"

	"github.com/google/uuid"
)

// Follower is a follow edge: the owner follows the followed user.
type Follower struct {
	ID         uuid.UUID `json:"id" db:"id"`
	OwnerID    uuid.UUID `json:"owner_id" db:"owner_id"`
	FollowedID uuid.UUID `json:"followed_id" db:"followed_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type FollowerRow struct {
	Follower
	OwnerUsername    string `db:"owner_username"`
	FollowedUsername string `db:"followed_username"`
}

type FollowerView struct {
	ID           uuid.UUID `json:"id"`
	Owner        string    `json:"owner"`
	IsOwner      bool      `json:"is_owner"`
	Followed     uuid.UUID `json:"followed"`
	FollowedName string    `json:"followed_name"`
	CreatedAt    time.Time `json:"created_at"`
}

type FollowerFilter struct {
	OwnerID    *uuid.UUID
	FollowedID *uuid.UUID
	Limit      int
	Offset     int
}
