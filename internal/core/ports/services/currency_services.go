package services

import (
	"context"

	"github.com/opengive/donations-backend/internal/core/domain"
)

// CurrencySvcFacade defines operations over the supported-currency registry.
type CurrencySvcFacade interface {
	// GetCurrencyByCode retrieves a supported currency.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all supported currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
