package model

import "time"

// ShareToken is a capability granting time-boxed, category-scoped read access
// to a booking's documents. The token string itself is the credential; no
// caller identity is involved on the consumption side.
type ShareToken struct {
	Token      string     `json:"token"`
	BookingID  string     `json:"bookingId"`
	Categories []Category `json:"categories"`
	ExpiresAt  time.Time  `json:"expiresAt"`
	CreatedAt  time.Time  `json:"createdAt"`
	CreatedBy  string     `json:"-"`
	UsedCount  int        `json:"usedCount"`
}

// Expired reports whether the token is inert at the given instant.
// Expiry is a derived predicate; expired rows are physically removed by a
// persistence-layer TTL sweep, not by application code.
func (t ShareToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Allows reports whether the token grants access to documents of the given
// category.
func (t ShareToken) Allows(c Category) bool {
	for _, allowed := range t.Categories {
		if allowed == c {
			return true
		}
	}
	return false
}
