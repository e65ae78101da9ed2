package dto

import (
	"time"

	"github.com/opengive/donations-backend/internal/core/domain"
)

// CreateBeneficiaryRequest defines the data needed to register a beneficiary.
type CreateBeneficiaryRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	WalletAddress string `json:"walletAddress" binding:"required"`
}

// BeneficiaryResponse defines the data returned for a beneficiary.
type BeneficiaryResponse struct {
	BeneficiaryID int64     `json:"beneficiaryId"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	WalletAddress string    `json:"walletAddress"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ListBeneficiariesParams holds query parameters for listing beneficiaries.
type ListBeneficiariesParams struct {
	Limit  int `form:"limit,default=20" binding:"omitempty,gt=0,lte=100"`
	Offset int `form:"offset,default=0" binding:"omitempty,gte=0"`
}

// ListBeneficiariesResponse wraps a page of beneficiaries.
type ListBeneficiariesResponse struct {
	Beneficiaries []BeneficiaryResponse `json:"beneficiaries"`
}

// ToBeneficiaryResponse converts a domain.Beneficiary to its response DTO.
func ToBeneficiaryResponse(b *domain.Beneficiary) BeneficiaryResponse {
	return BeneficiaryResponse{
		BeneficiaryID: b.BeneficiaryID,
		Name:          b.Name,
		Description:   b.Description,
		WalletAddress: b.WalletAddress,
		IsActive:      b.IsActive,
		CreatedAt:     b.CreatedAt,
	}
}

// ToListBeneficiariesResponse converts a slice of domain beneficiaries.
func ToListBeneficiariesResponse(beneficiaries []domain.Beneficiary) ListBeneficiariesResponse {
	res := make([]BeneficiaryResponse, len(beneficiaries))
	for i, b := range beneficiaries {
		res[i] = ToBeneficiaryResponse(&b)
	}
	return ListBeneficiariesResponse{Beneficiaries: res}
}
