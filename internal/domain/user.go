package domain

import "time"

// User is an account that owns scores, sessions and stats.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	APIKeyHash string    `json:"api_key_hash"` // argon2id-encoded; never exposed over the API
	IsAdmin    bool      `json:"is_admin"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
