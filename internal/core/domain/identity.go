package domain

// Role is the coarse-grained role carried by an authenticated identity.
type Role string

const (
	RoleDonor     Role = "donor"
	RoleCharity   Role = "charity"
	RoleAdmin     Role = "admin"
	RoleRecipient Role = "recipient"
)

// ParseRole returns the Role for a raw claim value, or false if the value
// is not a known role.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleDonor, RoleCharity, RoleAdmin, RoleRecipient:
		return Role(raw), true
	}
	return "", false
}

// Identity is the externally-verified identity attached to an inbound
// request. It is reconstructed per request from a signed token and never
// persisted. A nil *Identity means the request is unauthenticated; it is up
// to the authorization strategies guarding an operation to decide whether
// that is acceptable.
type Identity struct {
	SubjectID int64 `json:"subjectID"`
	Role      Role  `json:"role"`
}
