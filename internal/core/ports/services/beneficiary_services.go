package services

import (
	"context"

	"github.com/opengive/donations-backend/internal/core/domain"
	"github.com/opengive/donations-backend/internal/dto"
)

// BeneficiarySvcFacade defines operations over donation beneficiaries.
type BeneficiarySvcFacade interface {
	// CreateBeneficiary registers a new beneficiary.
	CreateBeneficiary(ctx context.Context, req dto.CreateBeneficiaryRequest) (*domain.Beneficiary, error)

	// GetBeneficiaryByID retrieves a beneficiary by id.
	GetBeneficiaryByID(ctx context.Context, beneficiaryID int64) (*domain.Beneficiary, error)

	// ListBeneficiaries retrieves a page of active beneficiaries.
	ListBeneficiaries(ctx context.Context, params dto.ListBeneficiariesParams) ([]domain.Beneficiary, error)
}
