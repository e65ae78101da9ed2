package domain

// Currency describes a supported cryptocurrency. Decimals is the number of
// decimal places between the base unit and the human-readable unit (9 for
// SOL/lamports).
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key, e.g. "SOL"
	Name         string `json:"name"`
	Decimals     int32  `json:"decimals"`
	AuditFields
}
