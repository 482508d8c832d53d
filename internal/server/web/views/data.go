package views

import "github.com/dmitrijs2005/estateportal/internal/server/models"

// Form echoes submitted values back into a re-rendered form.
type Form struct {
	Name     string
	Email    string
	Username string

	Title       string
	Type        string
	ListingType string
	Price       string
	Location    string
	Description string
}

// FormFromProperty pre-fills the edit form.
func FormFromProperty(p *models.Property) Form {
	return Form{
		Title:       p.Title,
		Type:        p.Type,
		ListingType: string(p.ListingType.OrDefault()),
		Price:       FormatPlainPrice(p.Price),
		Location:    p.Location,
		Description: p.Description,
	}
}

type ImportSummary struct {
	Imported int
	Skipped  int
}

// Data is the model every page template is executed with. Session is the
// caller's identity (nil when anonymous); the other fields are set by the
// pages that need them.
type Data struct {
	Session   *models.Identity
	Title     string
	Error     string
	Success   string
	RequestID string
	URL       string

	Form      Form
	MaxPhotos int

	Properties        []models.Property
	Property          *models.Property
	CanEdit           bool
	Cities            []string
	CityFilter        string
	ListingTypeFilter string

	Blogs []models.Blog
	Blog  *models.Blog

	Result *ImportSummary
	Sent   bool
}
