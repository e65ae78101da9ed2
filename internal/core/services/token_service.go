package services

import (
	"context"
	"time"

	"github.com/opengive/donations-backend/internal/core/domain"
	portssvc "github.com/opengive/donations-backend/internal/core/ports/services"
	"github.com/opengive/donations-backend/internal/utils"
	"github.com/opengive/donations-backend/pkg/config"
)

// tokenService issues JWT access tokens carrying the subject id and role.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new token service.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)
	accessToken, err := utils.GenerateJWT(user.UserID, user.Role, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, err
	}
	return accessToken, expiryTime, nil
}
