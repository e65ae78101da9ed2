package repositories

import (
	"context"

	"github.com/opengive/donations-backend/internal/core/domain"
)

// CurrencyReader defines read operations for the currency registry.
type CurrencyReader interface {
	// FindCurrencyByCode retrieves a supported currency by its code.
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all supported currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyWriter defines write operations for the currency registry,
// primarily for initial setup.
type CurrencyWriter interface {
	// SaveCurrency persists a new supported currency.
	SaveCurrency(ctx context.Context, currency domain.Currency) error
}

// CurrencyRepositoryFacade combines all currency-related repository
// interfaces.
type CurrencyRepositoryFacade interface {
	CurrencyReader
	CurrencyWriter
}
