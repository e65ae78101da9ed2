package services

import (
	"context"
	"time"

	"github.com/opengive/donations-backend/internal/core/domain"
	"github.com/opengive/donations-backend/internal/dto"
)

// UserSvcFacade defines operations over platform users.
type UserSvcFacade interface {
	// RegisterUser creates a new user with a hashed password.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// AuthenticateUser verifies credentials and returns the user on success.
	AuthenticateUser(ctx context.Context, email string, password string) (*domain.User, error)

	// GetUserByID retrieves a user by their subject id.
	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)
}

// TokenSvcFacade issues signed access tokens for authenticated users.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a JWT carrying the user's subject id and
	// role, returning the token and its expiry.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}
