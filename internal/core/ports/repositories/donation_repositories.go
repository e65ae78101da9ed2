package repositories

import (
	"context"
	"time"

	"github.com/opengive/donations-backend/internal/core/domain"
)

// DonationReader defines read operations for donation data.
type DonationReader interface {
	// FindDonationByID retrieves a specific donation by its unique identifier.
	FindDonationByID(ctx context.Context, donationID string) (*domain.Donation, error)

	// ListDonationsByDonor retrieves a paginated list of a donor's donations,
	// newest first.
	ListDonationsByDonor(ctx context.Context, donorID int64, limit int, offset int) ([]domain.Donation, error)
}

// DonationWriter defines write operations for donation data.
type DonationWriter interface {
	// SaveDonation persists a new donation.
	SaveDonation(ctx context.Context, donation domain.Donation) error

	// MarkDonationCompleted transitions a donation from Pending to Completed
	// and records the settlement reference. The update must be conditional on
	// the current status being Pending, evaluated atomically in the store, so
	// that concurrent completions for the same id cannot both succeed. It
	// reports whether this call performed the transition; false means the
	// donation was not Pending (or does not exist), with no row modified.
	MarkDonationCompleted(ctx context.Context, donationID string, settlementReference string, now time.Time) (bool, error)

	// CancelExpiredDonations transitions every donation still Pending and
	// created before the cutoff to Cancelled, returning the number of rows
	// affected.
	CancelExpiredDonations(ctx context.Context, cutoff time.Time, now time.Time) (int64, error)
}

// DonationRepositoryFacade combines all donation-related repository
// interfaces for clients that need full access.
type DonationRepositoryFacade interface {
	DonationReader
	DonationWriter
}
