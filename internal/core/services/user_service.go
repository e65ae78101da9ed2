package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/opengive/donations-backend/internal/apperrors"
	"github.com/opengive/donations-backend/internal/core/domain"
	portsrepo "github.com/opengive/donations-backend/internal/core/ports/repositories"
	portssvc "github.com/opengive/donations-backend/internal/core/ports/services"
	"github.com/opengive/donations-backend/internal/dto"
	"github.com/opengive/donations-backend/internal/middleware"
	"github.com/opengive/donations-backend/internal/utils"
)

// userService manages platform user accounts.
type userService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// RegisterUser creates a new user with a bcrypt password hash.
func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	role, ok := domain.ParseRole(req.Role)
	if !ok || role == domain.RoleAdmin {
		return nil, fmt.Errorf("%w: invalid role %q", apperrors.ErrValidation, req.Role)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		Email:         req.Email,
		Name:          req.Name,
		PasswordHash:  hash,
		Role:          role,
		WalletAddress: req.WalletAddress,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	saved, err := s.userRepo.SaveUser(ctx, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Registration with already used email", slog.String("email", req.Email))
			return nil, err
		}
		logger.Error("Failed to save user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	logger.Info("User registered", slog.Int64("user_id", saved.UserID), slog.String("role", string(saved.Role)))
	return saved, nil
}

// AuthenticateUser verifies credentials. Unknown email and wrong password
// are indistinguishable to the caller.
func (s *userService) AuthenticateUser(ctx context.Context, email string, password string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		logger.Error("Failed to look up user for login", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		logger.Warn("Login with wrong password", slog.Int64("user_id", user.UserID))
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	return user, nil
}

// GetUserByID retrieves a user by their subject id.
func (s *userService) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}
