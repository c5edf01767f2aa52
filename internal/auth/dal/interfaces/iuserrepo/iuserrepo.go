package iuserrepo

import (
	"context"

	"github.com/corray333/bookstore/internal/auth/service/models/user"
)

// IUserRepository defines the interface for user storage operations.
type IUserRepository interface {
	Insert(ctx context.Context, u user.User) (user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id int64) (*user.User, error)
	List(ctx context.Context) ([]user.User, error)
}
