package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// UserRepository abstracts user persistence.
//
// CreateUser stores the user together with a default preference row in a
// single transaction, so a freshly created user is always analyzable.
type UserRepository interface {
	CreateUser(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
}
