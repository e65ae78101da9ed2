package domain

// User represents a registered platform user. The UserID doubles as the
// identity subject id carried in issued tokens. WalletAddress is the
// on-chain account a donor pays from.
type User struct {
	UserID        int64  `json:"userID"` // Primary Key (serial)
	Email         string `json:"email"`
	Name          string `json:"name"`
	PasswordHash  string `json:"-"`
	Role          Role   `json:"role"`
	WalletAddress string `json:"walletAddress"`
	AuditFields
}
