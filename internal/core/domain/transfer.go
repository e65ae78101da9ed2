package domain

import "github.com/shopspring/decimal"

// MemoVersion is the version stamped into every correlation memo so the
// settlement pipeline can evolve the memo layout later.
const MemoVersion = "1.0"

// Memo is the machine-readable correlation payload embedded immutably
// alongside the on-chain transfer. It lets a later confirmation call be
// matched back to the originating donation even when the caller supplies
// no other context. Amount is the human-readable amount (base units scaled
// by the currency's decimals), carried as an exact decimal, never a float.
type Memo struct {
	DonationID string          `json:"DonationId"`
	Amount     decimal.Decimal `json:"Amount"`
	Currency   string          `json:"Currency"`
	Version    string          `json:"Version"`
}

// TransferInstruction describes the unsigned value movement the donor's
// wallet is asked to sign. Amount is in base units (lamports for SOL).
type TransferInstruction struct {
	PayerAddress     string `json:"payerAddress"`
	RecipientAddress string `json:"recipientAddress"`
	Amount           int64  `json:"amount"`
}

// TransferRequest is the unsigned transfer description returned by
// donation creation, suitable for external signing and submission.
type TransferRequest struct {
	TransferInstruction TransferInstruction `json:"transferInstruction"`
	MemoInstruction     Memo                `json:"memoInstruction"`
}
