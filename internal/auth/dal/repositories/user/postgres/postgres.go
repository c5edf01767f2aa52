package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/bookstore/internal/auth/service/models/user"
	sharedpg "github.com/corray333/bookstore/internal/postgres"
	"github.com/jackc/pgx/v5"
)

// UserRepository implements the user repository for PostgreSQL.
type UserRepository struct {
	client *sharedpg.Client
}

// NewUserRepository creates a new user repository.
func NewUserRepository(client *sharedpg.Client) *UserRepository {
	return &UserRepository{
		client: client,
	}
}

// Insert adds a new user and returns it with the assigned id.
func (r *UserRepository) Insert(ctx context.Context, u user.User) (user.User, error) {
	query, args, err := sq.Insert("users").
		Columns("name", "email", "password", "is_admin").
		Values(u.Name, u.Email, u.Password, u.IsAdmin).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return user.User{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.client.Pool().QueryRow(ctx, query, args...).Scan(&u.ID); err != nil {
		return user.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return u, nil
}

// GetByEmail returns the user with the given email, or nil when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, sq.Eq{"email": email})
}

// GetByID returns the user with the given id, or nil when absent.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

func (r *UserRepository) getOne(ctx context.Context, pred sq.Eq) (*user.User, error) {
	query, args, err := sq.Select("id", "name", "email", "password", "is_admin").
		From("users").
		Where(pred).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var u user.User
	err = r.client.Pool().QueryRow(ctx, query, args...).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.IsAdmin)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &u, nil
}

// List returns all users.
func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	query, args, err := sq.Select("id", "name", "email", "password", "is_admin").
		From("users").
		OrderBy("id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.IsAdmin); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}
