package services

import (
	"context"
	"time"

	"github.com/opengive/donations-backend/internal/core/domain"
	"github.com/opengive/donations-backend/internal/dto"
)

// DonationReaderSvc defines read operations for donations.
type DonationReaderSvc interface {
	// GetDonationByID retrieves a donation by its id.
	GetDonationByID(ctx context.Context, donationID string) (*domain.Donation, error)

	// ListDonationsByDonor retrieves a page of a donor's donations.
	ListDonationsByDonor(ctx context.Context, donorID int64, params dto.ListDonationsParams) ([]domain.Donation, error)
}

// DonationWriterSvc defines the settlement lifecycle operations. Both are
// invoked only through an authorization gate; neither performs its own
// identity checks.
type DonationWriterSvc interface {
	// CreateDonation allocates a Pending donation for the donor and returns
	// it together with the unsigned transfer description to be signed and
	// submitted on-chain by the caller.
	CreateDonation(ctx context.Context, donorID int64, req dto.CreateDonationRequest) (*domain.Donation, *domain.TransferRequest, error)

	// CompleteDonation finalizes a Pending donation given external proof of
	// payment. Calling it again for an already Completed donation is a
	// state no-op: the stored donation is returned and the original
	// settlement reference is preserved.
	CompleteDonation(ctx context.Context, donationID string, settlementReference string) (*domain.Donation, error)

	// CancelExpired cancels donations that have been Pending longer than the
	// configured TTL, returning how many were cancelled.
	CancelExpired(ctx context.Context, now time.Time) (int64, error)
}

// DonationSvcFacade combines the donation service interfaces.
type DonationSvcFacade interface {
	DonationReaderSvc
	DonationWriterSvc
}
