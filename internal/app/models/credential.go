package models

import "time"

// SocialCredential is a linked external account with its long-lived token
type SocialCredential struct {
	UserID            int64     `json:"userId" db:"user_id"`
	Provider          string    `json:"provider" db:"provider"`
	AccessToken       string    `json:"-" db:"access_token"`
	ExternalAccountID string    `json:"externalAccountId" db:"external_account_id"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}
