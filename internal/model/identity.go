package model

// Roles recognized by the authorization checks.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is the verified caller supplied by the authentication middleware.
// The core trusts it without re-verifying credentials.
type Identity struct {
	ID   string
	Role string
}

// IsAdmin reports whether the caller holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// MayAccess reports whether the caller may act on a booking: its owner or an
// admin.
func (i Identity) MayAccess(b *Booking) bool {
	return b != nil && (b.UserID == i.ID || i.IsAdmin())
}
