package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/opengive/donations-backend/internal/adapters/solana"
	"github.com/opengive/donations-backend/internal/apperrors"
	"github.com/opengive/donations-backend/internal/core/domain"
	portsrepo "github.com/opengive/donations-backend/internal/core/ports/repositories"
	portssvc "github.com/opengive/donations-backend/internal/core/ports/services"
	"github.com/opengive/donations-backend/internal/dto"
	"github.com/opengive/donations-backend/internal/middleware"
)

// donationService coordinates the donation settlement lifecycle: it
// allocates Pending ledger entries paired with unsigned transfer
// descriptions, and finalizes them once an external confirmation arrives.
// It performs no authorization checks of its own; callers gate the mutating
// operations before they reach here.
type donationService struct {
	donationRepo    portsrepo.DonationRepositoryFacade
	beneficiaryRepo portsrepo.BeneficiaryReader
	userRepo        portsrepo.UserReader
	currencyRepo    portsrepo.CurrencyReader
	pendingTTL      time.Duration
}

// NewDonationService creates a new donation service. pendingTTL bounds how
// long a donation may remain Pending before the expiry sweep cancels it; a
// non-positive value disables expiry.
func NewDonationService(
	donationRepo portsrepo.DonationRepositoryFacade,
	beneficiaryRepo portsrepo.BeneficiaryReader,
	userRepo portsrepo.UserReader,
	currencyRepo portsrepo.CurrencyReader,
	pendingTTL time.Duration,
) portssvc.DonationSvcFacade {
	return &donationService{
		donationRepo:    donationRepo,
		beneficiaryRepo: beneficiaryRepo,
		userRepo:        userRepo,
		currencyRepo:    currencyRepo,
		pendingTTL:      pendingTTL,
	}
}

var _ portssvc.DonationSvcFacade = (*donationService)(nil)

// CreateDonation allocates a new Pending donation and the unsigned transfer
// the donor's wallet must sign. Everything that can fail is checked before
// the ledger entry is persisted, so a failed call leaves no trace. The
// returned donation id is the correlation key for CompleteDonation and is
// embedded in the transfer memo.
func (s *donationService) CreateDonation(ctx context.Context, donorID int64, req dto.CreateDonationRequest) (*domain.Donation, *domain.TransferRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.AmountInBaseUnits <= 0 {
		return nil, nil, fmt.Errorf("%w: amount must be a positive integer number of base units", apperrors.ErrValidation)
	}

	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: currency %q is not supported", apperrors.ErrValidation, req.CurrencyCode)
		}
		logger.Error("Failed to look up currency", slog.String("currency_code", req.CurrencyCode), slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to look up currency %s: %w", req.CurrencyCode, err)
	}

	beneficiary, err := s.beneficiaryRepo.FindBeneficiaryByID(ctx, req.BeneficiaryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Beneficiary not found for donation", slog.Int64("beneficiary_id", req.BeneficiaryID))
			return nil, nil, fmt.Errorf("%w: beneficiary %d", apperrors.ErrNotFound, req.BeneficiaryID)
		}
		logger.Error("Failed to look up beneficiary", slog.Int64("beneficiary_id", req.BeneficiaryID), slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to look up beneficiary %d: %w", req.BeneficiaryID, err)
	}
	if !beneficiary.IsActive {
		return nil, nil, fmt.Errorf("%w: beneficiary %d is not active", apperrors.ErrValidation, req.BeneficiaryID)
	}

	donor, err := s.userRepo.FindUserByID(ctx, donorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: donor %d", apperrors.ErrNotFound, donorID)
		}
		logger.Error("Failed to look up donor", slog.Int64("donor_id", donorID), slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to look up donor %d: %w", donorID, err)
	}

	now := time.Now().UTC()
	donation := domain.Donation{
		DonationID:    uuid.NewString(),
		DonorID:       donorID,
		BeneficiaryID: req.BeneficiaryID,
		Amount:        req.AmountInBaseUnits,
		CurrencyCode:  currency.CurrencyCode,
		Status:        domain.DonationPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	memo := solana.NewMemo(donation.DonationID, donation.Amount, currency)
	transfer, err := solana.BuildTransferRequest(donor.WalletAddress, beneficiary.WalletAddress, donation.Amount, memo)
	if err != nil {
		return nil, nil, err
	}

	if err := s.donationRepo.SaveDonation(ctx, donation); err != nil {
		logger.Error("Failed to save donation", slog.String("donation_id", donation.DonationID), slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrSettlement, err)
	}

	logger.Info("Donation created",
		slog.String("donation_id", donation.DonationID),
		slog.Int64("donor_id", donorID),
		slog.Int64("beneficiary_id", req.BeneficiaryID),
		slog.Int64("amount", donation.Amount),
		slog.String("currency_code", donation.CurrencyCode),
	)
	return &donation, transfer, nil
}

// CompleteDonation finalizes a Pending donation with external proof of
// payment. The transition is a conditional update evaluated atomically in
// the store, so concurrent completions for the same id resolve to exactly
// one winner. Re-delivery of a confirmation for an already Completed
// donation is expected and succeeds without modifying the stored
// settlement reference. Completing a Cancelled donation is a conflict.
func (s *donationService) CompleteDonation(ctx context.Context, donationID string, settlementReference string) (*domain.Donation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if settlementReference == "" {
		return nil, fmt.Errorf("%w: settlement reference is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	transitioned, err := s.donationRepo.MarkDonationCompleted(ctx, donationID, settlementReference, now)
	if err != nil {
		logger.Error("Failed to complete donation", slog.String("donation_id", donationID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSettlement, err)
	}

	donation, err := s.donationRepo.FindDonationByID(ctx, donationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Donation not found for completion", slog.String("donation_id", donationID))
			return nil, fmt.Errorf("%w: donation %s", apperrors.ErrNotFound, donationID)
		}
		logger.Error("Failed to reload donation after completion", slog.String("donation_id", donationID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to reload donation %s: %w", donationID, err)
	}

	if transitioned {
		logger.Info("Donation completed", slog.String("donation_id", donationID))
		return donation, nil
	}

	switch donation.Status {
	case domain.DonationCompleted:
		// Duplicate confirmation; the earlier reference stands.
		logger.Info("Donation already completed, confirmation ignored", slog.String("donation_id", donationID))
		return donation, nil
	case domain.DonationCancelled:
		logger.Warn("Confirmation arrived for a cancelled donation", slog.String("donation_id", donationID))
		return nil, fmt.Errorf("%w: donation %s is cancelled", apperrors.ErrConflict, donationID)
	default:
		// The row flipped back to Pending would mean a store anomaly.
		return nil, fmt.Errorf("%w: donation %s in unexpected status %s after completion attempt", apperrors.ErrInternal, donationID, donation.Status)
	}
}

// GetDonationByID retrieves a donation by id.
func (s *donationService) GetDonationByID(ctx context.Context, donationID string) (*domain.Donation, error) {
	donation, err := s.donationRepo.FindDonationByID(ctx, donationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find donation by ID", slog.String("donation_id", donationID), slog.String("error", err.Error()))
		}
		return nil, err
	}
	return donation, nil
}

// ListDonationsByDonor retrieves a page of a donor's donations.
func (s *donationService) ListDonationsByDonor(ctx context.Context, donorID int64, params dto.ListDonationsParams) ([]domain.Donation, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	donations, err := s.donationRepo.ListDonationsByDonor(ctx, donorID, limit, params.Offset)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list donations", slog.Int64("donor_id", donorID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve donations: %w", err)
	}
	return donations, nil
}

// CancelExpired cancels donations that have been Pending longer than the
// configured TTL. Disabled when no TTL is configured: a Pending donation
// then remains completable indefinitely.
func (s *donationService) CancelExpired(ctx context.Context, now time.Time) (int64, error) {
	if s.pendingTTL <= 0 {
		return 0, nil
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	cutoff := now.Add(-s.pendingTTL)
	cancelled, err := s.donationRepo.CancelExpiredDonations(ctx, cutoff, now)
	if err != nil {
		logger.Error("Failed to cancel expired donations", slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to cancel expired donations: %w", err)
	}
	if cancelled > 0 {
		logger.Info("Expired pending donations cancelled", slog.Int64("count", cancelled), slog.Time("cutoff", cutoff))
	}
	return cancelled, nil
}
