package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Requester is the identity acting on a request. A nil *Requester means the
// caller is anonymous. It is passed explicitly wherever a derived field
// depends on who is asking.
type Requester struct {
	ID       uuid.UUID
	Username string
}

// IsOwner reports whether the requester owns an entity with the given owner id.
// False for anonymous requesters.
func (r *Requester) IsOwner(ownerID uuid.UUID) bool {
	return r != nil && r.ID == ownerID
}
