package domain

// Beneficiary is a party that can receive donations. WalletAddress is the
// on-chain account that incoming transfers are addressed to.
type Beneficiary struct {
	BeneficiaryID int64  `json:"beneficiaryID"` // Primary Key (serial)
	Name          string `json:"name"`
	Description   string `json:"description"`
	WalletAddress string `json:"walletAddress"`
	IsActive      bool   `json:"isActive"`
	AuditFields
}
