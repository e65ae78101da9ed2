package domain

// DonationStatus indicates the settlement state of a donation.
type DonationStatus string

const (
	DonationPending   DonationStatus = "PENDING"
	DonationCompleted DonationStatus = "COMPLETED"
	DonationCancelled DonationStatus = "CANCELLED"
)

// legacyPaidStatus is an alias that older rows may carry for a settled
// donation; it is normalized to DonationCompleted on read.
const legacyPaidStatus = "PAID"

// ParseDonationStatus normalizes a raw status value read from the store.
func ParseDonationStatus(raw string) (DonationStatus, bool) {
	switch raw {
	case string(DonationPending):
		return DonationPending, true
	case string(DonationCompleted), legacyPaidStatus:
		return DonationCompleted, true
	case string(DonationCancelled):
		return DonationCancelled, true
	}
	return "", false
}

// IsTerminal reports whether no further transition is possible out of the
// status. Completed and Cancelled are terminal; Pending is not.
func (s DonationStatus) IsTerminal() bool {
	return s == DonationCompleted || s == DonationCancelled
}

// Donation is the ledger entry for a single cryptocurrency donation.
// Amount is an integer number of the currency's smallest indivisible units
// (e.g. lamports for SOL); it is never represented as a floating-point
// value so that no rounding drift can occur between creation and
// settlement. SettlementReference is the external proof of payment (a
// transaction signature); it is set exactly when Status is Completed.
type Donation struct {
	DonationID          string         `json:"donationID"` // Primary Key (UUID)
	DonorID             int64          `json:"donorID"`
	BeneficiaryID       int64          `json:"beneficiaryID"`
	Amount              int64          `json:"amount"` // base units
	CurrencyCode        string         `json:"currencyCode"`
	Status              DonationStatus `json:"status"`
	SettlementReference *string        `json:"settlementReference,omitempty"`
	AuditFields
}
