package identity

import "context"

// Repository persists users. Find methods return (nil, nil) when no row
// matches; callers decide whether absence is an error.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
}
