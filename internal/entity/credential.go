package entity

import "time"

// Credential is the bearer token forwarded to the AI services on behalf of
// the user.
type Credential struct {
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (c Credential) Expired(now time.Time) bool {
	return c.Token == "" || (!c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt))
}
