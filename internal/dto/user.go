package dto

import (
	"time"

	"github.com/opengive/donations-backend/internal/core/domain"
)

// RegisterUserRequest defines the data needed to register a platform user.
// Admin accounts are provisioned out of band, not through this endpoint.
type RegisterUserRequest struct {
	Email         string `json:"email" binding:"required,email"`
	Name          string `json:"name" binding:"required"`
	Password      string `json:"password" binding:"required,min=8"`
	Role          string `json:"role" binding:"required,oneof=donor charity recipient"`
	WalletAddress string `json:"walletAddress"`
}

// LoginRequest defines the credentials for a login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID        int64       `json:"userId"`
	Email         string      `json:"email"`
	Name          string      `json:"name"`
	Role          domain.Role `json:"role"`
	WalletAddress string      `json:"walletAddress"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// ToUserResponse converts a domain.User to its response DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:        u.UserID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		WalletAddress: u.WalletAddress,
		CreatedAt:     u.CreatedAt,
	}
}
