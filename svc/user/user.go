package user

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. The password hash lives in storage, never
// on the entity.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
