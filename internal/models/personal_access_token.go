package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	// LoginTokenName labels tokens issued by the login endpoint.
	LoginTokenName = "Login Token"
	// BearerTokenType is the only token type handed out.
	BearerTokenType = "Bearer"
)

// PersonalAccessToken records an issued bearer token. Only the SHA-256 digest
// of the token is persisted.
type PersonalAccessToken struct {
	BaseModel
	UserID     string                      `gorm:"size:36;not null;index" json:"user_id"`
	User       *User                       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name       string                      `gorm:"size:255;not null" json:"name"`
	TokenType  string                      `gorm:"size:20;not null" json:"token_type"`
	TokenHash  string                      `gorm:"size:64;uniqueIndex;not null" json:"-"`
	Abilities  datatypes.JSONSlice[string] `json:"abilities"`
	LastUsedAt *time.Time                  `json:"last_used_at"`
	ExpiresAt  time.Time                   `gorm:"index" json:"expires_at"`
}

// Active reports whether the token is usable at now.
func (t PersonalAccessToken) Active(now time.Time) bool {
	return !t.DeletedAt.Valid && now.Before(t.ExpiresAt)
}

// Can reports whether the token grants ability. "*" grants everything.
func (t PersonalAccessToken) Can(ability string) bool {
	for _, granted := range t.Abilities {
		if granted == "*" || granted == ability {
			return true
		}
	}
	return false
}
