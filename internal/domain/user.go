package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

type User struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Email           string    `db:"email" json:"email"`
	Provider        string    `db:"provider" json:"provider"`
	ProviderSubject string    `db:"provider_subject" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// ExternalIdentity is what an OAuth provider tells us about the signed-in account.
type ExternalIdentity struct {
	Provider  string
	Subject   string
	Email     string
	Name      string
	AvatarURL string
}
