package dto

import (
	"time"

	"github.com/opengive/donations-backend/internal/core/domain"
)

// CreateDonationRequest defines the data needed to initiate a donation.
// The donor is taken from the authenticated identity, never from the body.
type CreateDonationRequest struct {
	BeneficiaryID     int64  `json:"beneficiaryId" binding:"required"`
	AmountInBaseUnits int64  `json:"amountInBaseUnits" binding:"required,gt=0"`
	CurrencyCode      string `json:"currencyCode" binding:"required,currencycode"`
}

// CompleteDonationRequest finalizes a donation given external proof of
// payment. DonorID is optional: confirmation typically arrives from a
// callback or poller rather than the payer's own session, and the
// authorization strategies decide whether it is required.
type CompleteDonationRequest struct {
	DonationID string `json:"donationId" binding:"required"`
	Proof      string `json:"proof" binding:"required"`
	DonorID    *int64 `json:"donorId,omitempty"`
}

// DonationResponse defines the data returned for a donation.
type DonationResponse struct {
	DonationID          string                `json:"id"`
	DonorID             int64                 `json:"donorId"`
	BeneficiaryID       int64                 `json:"beneficiaryId"`
	Amount              int64                 `json:"amount"` // base units
	CurrencyCode        string                `json:"currency"`
	Status              domain.DonationStatus `json:"status"`
	SettlementReference *string               `json:"settlementReference,omitempty"`
	CreatedAt           time.Time             `json:"createdAt"`
}

// CreateDonationResponse pairs the persisted donation with the unsigned
// transfer description the caller must sign and submit on-chain.
type CreateDonationResponse struct {
	Donation            DonationResponse           `json:"donation"`
	TransferInstruction domain.TransferInstruction `json:"transferInstruction"`
	MemoInstruction     domain.Memo                `json:"memoInstruction"`
}

// ListDonationsParams holds query parameters for listing donations.
type ListDonationsParams struct {
	Limit  int `form:"limit,default=20" binding:"omitempty,gt=0,lte=100"`
	Offset int `form:"offset,default=0" binding:"omitempty,gte=0"`
}

// ListDonationsResponse wraps a page of donations.
type ListDonationsResponse struct {
	Donations []DonationResponse `json:"donations"`
}

// ToDonationResponse converts a domain.Donation to its response DTO.
func ToDonationResponse(d *domain.Donation) DonationResponse {
	return DonationResponse{
		DonationID:          d.DonationID,
		DonorID:             d.DonorID,
		BeneficiaryID:       d.BeneficiaryID,
		Amount:              d.Amount,
		CurrencyCode:        d.CurrencyCode,
		Status:              d.Status,
		SettlementReference: d.SettlementReference,
		CreatedAt:           d.CreatedAt,
	}
}

// ToListDonationsResponse converts a slice of domain donations.
func ToListDonationsResponse(donations []domain.Donation) ListDonationsResponse {
	res := make([]DonationResponse, len(donations))
	for i, d := range donations {
		res[i] = ToDonationResponse(&d)
	}
	return ListDonationsResponse{Donations: res}
}
