package model

import "github.com/google/uuid"

// User is the identity the backend returns from /auth/login and the value
// persisted under the "user" storage key.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}
