package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opengive/donations-backend/internal/apperrors"
	"github.com/opengive/donations-backend/internal/core/domain"
	portsrepo "github.com/opengive/donations-backend/internal/core/ports/repositories"
)

type PgxBeneficiaryRepository struct {
	pool *pgxpool.Pool
}

// NewPgxBeneficiaryRepository creates a new repository for beneficiary data.
func NewPgxBeneficiaryRepository(pool *pgxpool.Pool) portsrepo.BeneficiaryRepositoryFacade {
	return &PgxBeneficiaryRepository{pool: pool}
}

// SaveBeneficiary persists a new beneficiary and returns it with the id the
// database assigned.
func (r *PgxBeneficiaryRepository) SaveBeneficiary(ctx context.Context, beneficiary domain.Beneficiary) (*domain.Beneficiary, error) {
	query := `
		INSERT INTO beneficiaries (name, description, wallet_address, is_active, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING beneficiary_id;
	`
	err := r.pool.QueryRow(ctx, query,
		beneficiary.Name,
		beneficiary.Description,
		beneficiary.WalletAddress,
		beneficiary.IsActive,
		beneficiary.CreatedAt,
		beneficiary.LastUpdatedAt,
	).Scan(&beneficiary.BeneficiaryID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert beneficiary %q: %w", beneficiary.Name, err)
	}
	return &beneficiary, nil
}

// FindBeneficiaryByID retrieves a beneficiary by its ID.
func (r *PgxBeneficiaryRepository) FindBeneficiaryByID(ctx context.Context, beneficiaryID int64) (*domain.Beneficiary, error) {
	query := `
		SELECT beneficiary_id, name, description, wallet_address, is_active, created_at, last_updated_at
		FROM beneficiaries
		WHERE beneficiary_id = $1;
	`
	var b domain.Beneficiary
	err := r.pool.QueryRow(ctx, query, beneficiaryID).Scan(
		&b.BeneficiaryID,
		&b.Name,
		&b.Description,
		&b.WalletAddress,
		&b.IsActive,
		&b.CreatedAt,
		&b.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find beneficiary by ID %d: %w", beneficiaryID, err)
	}
	return &b, nil
}

// ListBeneficiaries retrieves a page of active beneficiaries.
func (r *PgxBeneficiaryRepository) ListBeneficiaries(ctx context.Context, limit int, offset int) ([]domain.Beneficiary, error) {
	query := `
		SELECT beneficiary_id, name, description, wallet_address, is_active, created_at, last_updated_at
		FROM beneficiaries
		WHERE is_active = TRUE
		ORDER BY beneficiary_id
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query beneficiaries: %w", err)
	}
	defer rows.Close()

	beneficiaries := []domain.Beneficiary{}
	for rows.Next() {
		var b domain.Beneficiary
		if err := rows.Scan(
			&b.BeneficiaryID,
			&b.Name,
			&b.Description,
			&b.WalletAddress,
			&b.IsActive,
			&b.CreatedAt,
			&b.LastUpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan beneficiary row: %w", err)
		}
		beneficiaries = append(beneficiaries, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating beneficiary rows: %w", err)
	}
	return beneficiaries, nil
}
