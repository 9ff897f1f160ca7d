package domain

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Username  *string    `db:"username" json:"username,omitempty"`
	FullName  *string    `db:"full_name" json:"full_name,omitempty"`
	AvatarURL *string    `db:"avatar_url" json:"avatar_url,omitempty"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// ProfileUpdate carries the mutable profile fields. Nil fields keep their
// stored value.
type ProfileUpdate struct {
	Username  *string `json:"username"`
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

func (u ProfileUpdate) IsEmpty() bool {
	return u.Username == nil && u.FullName == nil && u.AvatarURL == nil
}
