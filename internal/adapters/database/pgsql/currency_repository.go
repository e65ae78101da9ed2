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

type PgxCurrencyRepository struct {
	pool *pgxpool.Pool
}

// NewPgxCurrencyRepository creates a new repository for the supported
// currency registry.
func NewPgxCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyRepositoryFacade {
	return &PgxCurrencyRepository{pool: pool}
}

// SaveCurrency persists a new supported currency.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	query := `
		INSERT INTO currencies (currency_code, name, decimals, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.pool.Exec(ctx, query,
		currency.CurrencyCode,
		currency.Name,
		currency.Decimals,
		currency.CreatedAt,
		currency.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert currency %s: %w", currency.CurrencyCode, err)
	}
	return nil
}

// FindCurrencyByCode retrieves a supported currency by its code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	query := `
		SELECT currency_code, name, decimals, created_at, last_updated_at
		FROM currencies
		WHERE currency_code = $1;
	`
	var c domain.Currency
	err := r.pool.QueryRow(ctx, query, currencyCode).Scan(
		&c.CurrencyCode,
		&c.Name,
		&c.Decimals,
		&c.CreatedAt,
		&c.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency by code %s: %w", currencyCode, err)
	}
	return &c, nil
}

// ListCurrencies retrieves all supported currencies.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `
		SELECT currency_code, name, decimals, created_at, last_updated_at
		FROM currencies
		ORDER BY currency_code;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	currencies := []domain.Currency{}
	for rows.Next() {
		var c domain.Currency
		if err := rows.Scan(
			&c.CurrencyCode,
			&c.Name,
			&c.Decimals,
			&c.CreatedAt,
			&c.LastUpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan currency row: %w", err)
		}
		currencies = append(currencies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currency rows: %w", err)
	}
	return currencies, nil
}
