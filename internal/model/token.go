package model

import "time"

// EmailVerificationToken is created at registration and consumed on a
// successful verification: the owning user is enabled and the token row
// deleted. Tokens past their expiry are swept by the daily cleanup job
// together with their still-disabled users.
type EmailVerificationToken struct {
	ID      uint64    `json:"id"`
	Token   string    `json:"token"`
	UserID  uint64    `json:"user_id"`
	Expires time.Time `json:"expires"`
}

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user; only the SHA-256 hash of the raw
// token is stored.
type RefreshToken struct {
	ID        uint64     `json:"id"`
	UserID    uint64     `json:"user_id"`
	TokenHash string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
