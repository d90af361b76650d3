package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cyberauth/cyberauth/internal/domain"
)

// UserDirectory is the external user-record store. Name and email
// uniqueness is enforced at the storage layer; Insert surfaces a violation
// as domain.ErrAlreadyExists.
type UserDirectory interface {
	FindByName(ctx context.Context, name string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserDirectory {
	return &userRepository{pool: pool}
}

const userCols = `id, name, national_id, phone, email, password_hash, reward, created_at, updated_at`

func (r *userRepository) FindByName(ctx context.Context, name string) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE name = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var u domain.User
	err := r.pool.QueryRow(ctx, q, name).Scan(
		&u.ID, &u.Name, &u.NationalID, &u.Phone, &u.Email, &u.PasswordHash, &u.Reward, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &u, err
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE email = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var u domain.User
	err := r.pool.QueryRow(ctx, q, email).Scan(
		&u.ID, &u.Name, &u.NationalID, &u.Phone, &u.Email, &u.PasswordHash, &u.Reward, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &u, err
}

func (r *userRepository) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	const q = `
		INSERT INTO users (name, national_id, phone, email, password_hash, reward)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var u domain.User
	err := r.pool.QueryRow(ctx, q, user.Name, user.NationalID, user.Phone, user.Email, user.PasswordHash, user.Reward).Scan(
		&u.ID, &u.Name, &u.NationalID, &u.Phone, &u.Email, &u.PasswordHash, &u.Reward, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: name or email already registered", domain.ErrAlreadyExists)
		}
		return nil, err
	}

	return &u, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	const q = `UPDATE users SET password_hash = $2, updated_at = now() WHERE email = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, email, passwordHash)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}
