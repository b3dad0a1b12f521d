// Package model defines the data structures used throughout the application.
package model

import "time"

// User is the single persistent entity: one row per authenticated identity.
//
// We use Google OAuth as the identity provider, so the stable external
// identifier is OAuthID — the provider's subject claim. The integer ID is
// assigned by the store on creation and never reused; it is what the admin
// surface keys credit edits on.
//
// WHY OAuthID string (not int64)?
// Google subject identifiers are opaque decimal strings that can exceed
// int64 range, and other providers use non-numeric subjects. Treating the
// subject as an opaque string keeps us provider-agnostic. The UNIQUE
// constraint on oauth_id in the DB ensures one provider identity maps to
// exactly one account.
//
// Credits is a plain integer balance with no floor — negative values are
// accepted (see the credit service for the full-replace semantics).
type User struct {
	ID        int64     `json:"id"        db:"id"`
	OAuthID   string    `json:"oauthId"   db:"oauth_id"` // provider's stable subject identifier
	Email     string    `json:"email"     db:"email"`
	Name      string    `json:"name"      db:"name"`
	Picture   string    `json:"picture"   db:"picture"` // profile picture URL
	Credits   int64     `json:"credits"   db:"credits"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
