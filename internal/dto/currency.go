package dto

import "github.com/opengive/donations-backend/internal/core/domain"

// CurrencyResponse defines the data returned for a supported currency.
type CurrencyResponse struct {
	CurrencyCode string `json:"currencyCode"`
	Name         string `json:"name"`
	Decimals     int32  `json:"decimals"`
}

// ToCurrencyResponse converts a domain.Currency to its response DTO.
func ToCurrencyResponse(cur *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode: cur.CurrencyCode,
		Name:         cur.Name,
		Decimals:     cur.Decimals,
	}
}

// ListCurrenciesResponse wraps the list of supported currencies.
type ListCurrenciesResponse struct {
	Currencies []CurrencyResponse `json:"currencies"`
}

// ToListCurrenciesResponse converts a slice of domain currencies.
func ToListCurrenciesResponse(currencies []domain.Currency) ListCurrenciesResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i, cur := range currencies {
		res[i] = ToCurrencyResponse(&cur)
	}
	return ListCurrenciesResponse{Currencies: res}
}
