// Package solana builds the unsigned transfer descriptions handed back to
// donors. It deliberately contains no RPC client: signing and submission
// happen outside this service, and settlement is reported back through the
// completion endpoint.
package solana

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/opengive/donations-backend/internal/apperrors"
	"github.com/opengive/donations-backend/internal/core/domain"
)

// HumanAmount converts an integer base-unit amount into the human-readable
// amount for a currency (e.g. lamports to SOL with decimals=9). The result
// is exact; no floating point is involved.
func HumanAmount(baseUnits int64, decimals int32) decimal.Decimal {
	return decimal.New(baseUnits, -decimals)
}

// NewMemo builds the correlation memo embedded alongside the on-chain
// transfer for the given donation.
func NewMemo(donationID string, baseUnits int64, currency *domain.Currency) domain.Memo {
	return domain.Memo{
		DonationID: donationID,
		Amount:     HumanAmount(baseUnits, currency.Decimals),
		Currency:   currency.CurrencyCode,
		Version:    domain.MemoVersion,
	}
}

// BuildTransferRequest assembles the unsigned transfer description for a
// donation. Both wallet addresses must be known; a donor without a wallet
// address on file cannot initiate an on-chain donation.
func BuildTransferRequest(payerAddress, recipientAddress string, baseUnits int64, memo domain.Memo) (*domain.TransferRequest, error) {
	if payerAddress == "" {
		return nil, fmt.Errorf("%w: donor has no wallet address on file", apperrors.ErrValidation)
	}
	if recipientAddress == "" {
		return nil, fmt.Errorf("%w: beneficiary has no wallet address on file", apperrors.ErrValidation)
	}
	if baseUnits <= 0 {
		return nil, fmt.Errorf("%w: transfer amount must be a positive number of base units", apperrors.ErrValidation)
	}
	return &domain.TransferRequest{
		TransferInstruction: domain.TransferInstruction{
			PayerAddress:     payerAddress,
			RecipientAddress: recipientAddress,
			Amount:           baseUnits,
		},
		MemoInstruction: memo,
	}, nil
}
