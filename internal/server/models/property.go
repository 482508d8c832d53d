package models

import (
	"strings"
	"time"
)

type ListingType string

const (
	ListingSale ListingType = "Sale"
	ListingRent ListingType = "Rent"
)

// ParseListingType maps s to a canonical ListingType, ignoring case and
// surrounding spaces. Blank input means Sale. ok is false for anything else.
func ParseListingType(s string) (lt ListingType, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sale":
		return ListingSale, true
	case "rent":
		return ListingRent, true
	default:
		return "", false
	}
}

// OrDefault treats a missing listing type as Sale.
func (l ListingType) OrDefault() ListingType {
	if strings.TrimSpace(string(l)) == "" {
		return ListingSale
	}
	return l
}

// Property is a listing. UserName is copied from the owner at creation time
// so pages can show it without a lookup.
type Property struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Type         string      `json:"type"`
	ListingType  ListingType `json:"listingType"`
	Price        float64     `json:"price"`
	Location     string      `json:"location"`
	Description  string      `json:"description"`
	Photos       []string    `json:"photos"`
	MainPhoto    string      `json:"mainPhoto"`
	UserID       string      `json:"userId,omitempty"`
	UserName     string      `json:"userName,omitempty"`
	Date         time.Time   `json:"date"`
	DateModified *time.Time  `json:"dateModified,omitempty"`
}

// OwnedBy reports whether the identity is the property's owner.
func (p *Property) OwnedBy(ident *Identity) bool {
	return ident.IsUser() && p.UserID != "" && p.UserID == ident.ID
}

// PropertyFields are the user-editable attributes of a listing.
type PropertyFields struct {
	Title       string
	Type        string
	ListingType string
	Price       string
	Location    string
	Description string
}
