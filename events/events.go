package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	UserRegistered = "user.registered"
	UserFollowed   = "user.followed"
	UserUnfollowed = "user.unfollowed"
	PostCreated    = "post.created"
	PostDeleted    = "post.deleted"
)

// Event payloads
type UserRegisteredEvent struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	ProfileID uuid.UUID `json:"profile_id"`
	CreatedAt time.Time `json:"created_at"`
}

type UserFollowedEvent struct {
	FollowID   uuid.UUID `json:"follow_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	FollowedID uuid.UUID `json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type UserUnfollowedEvent struct {
	OwnerID    uuid.UUID `json:"owner_id"`
	FollowedID uuid.UUID `json:"followed_id"`
}

type PostCreatedEvent struct {
	PostID    uuid.UUID `json:"post_id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type PostDeletedEvent struct {
	PostID  uuid.UUID `json:"post_id"`
	OwnerID uuid.UUID `json:"owner_id"`
}
