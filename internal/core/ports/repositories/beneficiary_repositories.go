package repositories

import (
	"context"

	"github.com/opengive/donations-backend/internal/core/domain"
)

// BeneficiaryReader defines read operations for beneficiary data.
type BeneficiaryReader interface {
	// FindBeneficiaryByID retrieves a specific beneficiary by its identifier.
	FindBeneficiaryByID(ctx context.Context, beneficiaryID int64) (*domain.Beneficiary, error)

	// ListBeneficiaries retrieves a paginated list of active beneficiaries.
	ListBeneficiaries(ctx context.Context, limit int, offset int) ([]domain.Beneficiary, error)
}

// BeneficiaryWriter defines write operations for beneficiary data.
type BeneficiaryWriter interface {
	// SaveBeneficiary persists a new beneficiary and returns it with its
	// assigned identifier.
	SaveBeneficiary(ctx context.Context, beneficiary domain.Beneficiary) (*domain.Beneficiary, error)
}

// BeneficiaryRepositoryFacade combines all beneficiary-related repository
// interfaces.
type BeneficiaryRepositoryFacade interface {
	BeneficiaryReader
	BeneficiaryWriter
}
