package user

import (
	"context"

	"github.com/google/uuid"
)

// Storage persists users and their password hashes.
type Storage interface {
	CreateUser(ctx context.Context, u *User, passwordHash []byte) error
	UserByID(ctx context.Context, id uuid.UUID) (*User, error)
	UserByEmail(ctx context.Context, email string) (*User, error)
	PasswordHash(ctx context.Context, id uuid.UUID) ([]byte, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}
