package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opengive/donations-backend/internal/apperrors"
	"github.com/opengive/donations-backend/internal/core/domain"
	portsrepo "github.com/opengive/donations-backend/internal/core/ports/repositories"
)

// uniqueViolationCode is the PostgreSQL error code for unique constraint
// violations, used to detect duplicate registrations.
const uniqueViolationCode = "23505"

type PgxUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgxUserRepository creates a new repository for user data.
func NewPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{pool: pool}
}

// SaveUser persists a new user and returns it with the id the database
// assigned. A duplicate email maps to apperrors.ErrDuplicate.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (email, name, password_hash, role, wallet_address, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING user_id;
	`
	err := r.pool.QueryRow(ctx, query,
		user.Email,
		user.Name,
		user.PasswordHash,
		string(user.Role),
		user.WalletAddress,
		user.CreatedAt,
		user.LastUpdatedAt,
	).Scan(&user.UserID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to insert user %q: %w", user.Email, err)
	}
	return &user, nil
}

// FindUserByID retrieves a user by their subject id.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	query := `
		SELECT user_id, email, name, password_hash, role, wallet_address, created_at, last_updated_at
		FROM users
		WHERE user_id = $1;
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, userID))
}

// FindUserByEmail retrieves a user by email.
func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT user_id, email, name, password_hash, role, wallet_address, created_at, last_updated_at
		FROM users
		WHERE email = $1;
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *PgxUserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var rawRole string
	err := row.Scan(
		&user.UserID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&rawRole,
		&user.WalletAddress,
		&user.CreatedAt,
		&user.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}
	role, ok := domain.ParseRole(rawRole)
	if !ok {
		return nil, fmt.Errorf("user %d has unknown role %q", user.UserID, rawRole)
	}
	user.Role = role
	return &user, nil
}
