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
)

// beneficiaryService provides beneficiary registry operations.
type beneficiaryService struct {
	beneficiaryRepo portsrepo.BeneficiaryRepositoryFacade
}

// NewBeneficiaryService creates a new beneficiary service.
func NewBeneficiaryService(beneficiaryRepo portsrepo.BeneficiaryRepositoryFacade) portssvc.BeneficiarySvcFacade {
	return &beneficiaryService{beneficiaryRepo: beneficiaryRepo}
}

var _ portssvc.BeneficiarySvcFacade = (*beneficiaryService)(nil)

// CreateBeneficiary registers a new active beneficiary.
func (s *beneficiaryService) CreateBeneficiary(ctx context.Context, req dto.CreateBeneficiaryRequest) (*domain.Beneficiary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	beneficiary := domain.Beneficiary{
		Name:          req.Name,
		Description:   req.Description,
		WalletAddress: req.WalletAddress,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	saved, err := s.beneficiaryRepo.SaveBeneficiary(ctx, beneficiary)
	if err != nil {
		logger.Error("Failed to save beneficiary", slog.String("name", req.Name), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save beneficiary: %w", err)
	}

	logger.Info("Beneficiary created", slog.Int64("beneficiary_id", saved.BeneficiaryID), slog.String("name", saved.Name))
	return saved, nil
}

// GetBeneficiaryByID retrieves a beneficiary by id.
func (s *beneficiaryService) GetBeneficiaryByID(ctx context.Context, beneficiaryID int64) (*domain.Beneficiary, error) {
	beneficiary, err := s.beneficiaryRepo.FindBeneficiaryByID(ctx, beneficiaryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find beneficiary", slog.Int64("beneficiary_id", beneficiaryID), slog.String("error", err.Error()))
		}
		return nil, err
	}
	return beneficiary, nil
}

// ListBeneficiaries retrieves a page of active beneficiaries.
func (s *beneficiaryService) ListBeneficiaries(ctx context.Context, params dto.ListBeneficiariesParams) ([]domain.Beneficiary, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	beneficiaries, err := s.beneficiaryRepo.ListBeneficiaries(ctx, limit, params.Offset)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list beneficiaries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve beneficiaries: %w", err)
	}
	return beneficiaries, nil
}
