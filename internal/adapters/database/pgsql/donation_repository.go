package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opengive/donations-backend/internal/apperrors"
	"github.com/opengive/donations-backend/internal/core/domain"
	portsrepo "github.com/opengive/donations-backend/internal/core/ports/repositories"
)

type PgxDonationRepository struct {
	pool *pgxpool.Pool
}

// NewPgxDonationRepository creates a new repository for donation data.
func NewPgxDonationRepository(pool *pgxpool.Pool) portsrepo.DonationRepositoryFacade {
	return &PgxDonationRepository{pool: pool}
}

// SaveDonation persists a new donation ledger entry.
func (r *PgxDonationRepository) SaveDonation(ctx context.Context, donation domain.Donation) error {
	query := `
		INSERT INTO donations (donation_id, donor_id, beneficiary_id, amount, currency_code, status, settlement_reference, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		donation.DonationID,
		donation.DonorID,
		donation.BeneficiaryID,
		donation.Amount,
		donation.CurrencyCode,
		string(donation.Status),
		donation.SettlementReference,
		donation.CreatedAt,
		donation.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert donation %s: %w", donation.DonationID, err)
	}
	return nil
}

// FindDonationByID retrieves a donation by its ID.
func (r *PgxDonationRepository) FindDonationByID(ctx context.Context, donationID string) (*domain.Donation, error) {
	query := `
		SELECT donation_id, donor_id, beneficiary_id, amount, currency_code, status, settlement_reference, created_at, last_updated_at
		FROM donations
		WHERE donation_id = $1;
	`
	donation, err := scanDonation(r.pool.QueryRow(ctx, query, donationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find donation by ID %s: %w", donationID, err)
	}
	return donation, nil
}

// ListDonationsByDonor retrieves a page of a donor's donations, newest first.
func (r *PgxDonationRepository) ListDonationsByDonor(ctx context.Context, donorID int64, limit int, offset int) ([]domain.Donation, error) {
	query := `
		SELECT donation_id, donor_id, beneficiary_id, amount, currency_code, status, settlement_reference, created_at, last_updated_at
		FROM donations
		WHERE donor_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.pool.Query(ctx, query, donorID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query donations for donor %d: %w", donorID, err)
	}
	defer rows.Close()

	donations := []domain.Donation{}
	for rows.Next() {
		donation, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan donation row for donor %d: %w", donorID, err)
		}
		donations = append(donations, *donation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating donation rows for donor %d: %w", donorID, err)
	}
	return donations, nil
}

// MarkDonationCompleted performs the Pending->Completed transition as a
// single conditional update. The status predicate in the WHERE clause is
// what makes concurrent completions safe: the database evaluates
// check-and-set atomically, so at most one caller observes an affected
// row for a given donation.
func (r *PgxDonationRepository) MarkDonationCompleted(ctx context.Context, donationID string, settlementReference string, now time.Time) (bool, error) {
	query := `
		UPDATE donations
		SET status = $2, settlement_reference = $3, last_updated_at = $4
		WHERE donation_id = $1 AND status = $5;
	`
	tag, err := r.pool.Exec(ctx, query,
		donationID,
		string(domain.DonationCompleted),
		settlementReference,
		now,
		string(domain.DonationPending),
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark donation %s completed: %w", donationID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// CancelExpiredDonations cancels donations still Pending and created before
// the cutoff. The same conditional-update shape as MarkDonationCompleted
// guarantees the sweep never touches a donation that settled concurrently.
func (r *PgxDonationRepository) CancelExpiredDonations(ctx context.Context, cutoff time.Time, now time.Time) (int64, error) {
	query := `
		UPDATE donations
		SET status = $2, last_updated_at = $3
		WHERE status = $4 AND created_at < $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		cutoff,
		string(domain.DonationCancelled),
		now,
		string(domain.DonationPending),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel expired donations: %w", err)
	}
	return tag.RowsAffected(), nil
}

// scanDonation reads one donation row, normalizing legacy status values.
func scanDonation(row pgx.Row) (*domain.Donation, error) {
	var donation domain.Donation
	var rawStatus string
	if err := row.Scan(
		&donation.DonationID,
		&donation.DonorID,
		&donation.BeneficiaryID,
		&donation.Amount,
		&donation.CurrencyCode,
		&rawStatus,
		&donation.SettlementReference,
		&donation.CreatedAt,
		&donation.LastUpdatedAt,
	); err != nil {
		return nil, err
	}
	status, ok := domain.ParseDonationStatus(rawStatus)
	if !ok {
		return nil, fmt.Errorf("donation %s has unknown status %q", donation.DonationID, rawStatus)
	}
	donation.Status = status
	return &donation, nil
}
