package common

const (
	// SessionCookieName is the cookie that carries the signed session token.
	SessionCookieName = "portal_session"

	// DefaultPhoto is shown for listings without uploaded photos.
	DefaultPhoto = "/images/property.jpg"

	// DefaultPropertyType is used by the importer when the Type column is blank.
	DefaultPropertyType = "Apartment"
)
