package model

import "time"

// Booking is a travel booking owned by a user. The document subsystem treats
// it as an authorization anchor: every document or share operation looks the
// booking up first to confirm existence and check access.
type Booking struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	DateFrom     time.Time  `json:"dateFrom"`
	DateTo       time.Time  `json:"dateTo"`
	Country      string     `json:"country"`
	Pax          int        `json:"pax"`
	Ladies       int        `json:"ladies"`
	Men          int        `json:"men"`
	Children     int        `json:"children"`
	Teens        int        `json:"teens"`
	Agent        string     `json:"agent"`
	Consultant   string     `json:"consultant"`
	UserID       string     `json:"userId"`
	ItineraryURL string     `json:"itineraryUrl"`
	IsDeleted    bool       `json:"isDeleted"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
	DeletedBy    string     `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
