package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/estateportal/internal/common"
	"github.com/dmitrijs2005/estateportal/internal/server/models"
	"github.com/dmitrijs2005/estateportal/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// Filter narrows List. Zero values match everything.
type Filter struct {
	// City matches any listing whose location contains it, ignoring case.
	City string
	// ListingType matches Sale or Rent, ignoring case. Listings without a
	// type count as Sale.
	ListingType string
}

type ListingService struct {
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewListingService(m repomanager.RepositoryManager) *ListingService {
	return &ListingService{repomanager: m, now: time.Now}
}

func (s *ListingService) List(ctx context.Context, f Filter) ([]models.Property, error) {
	items, err := s.repomanager.Properties().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing properties: %w", err)
	}

	city := strings.ToLower(strings.TrimSpace(f.City))
	kind := strings.TrimSpace(f.ListingType)

	result := make([]models.Property, 0, len(items))
	for _, p := range items {
		if city != "" && !strings.Contains(strings.ToLower(p.Location), city) {
			continue
		}
		if kind != "" && !strings.EqualFold(string(p.ListingType.OrDefault()), kind) {
			continue
		}
		result = append(result, p)
	}

	return result, nil
}

func (s *ListingService) ListByOwner(ctx context.Context, userID string) ([]models.Property, error) {
	items, err := s.repomanager.Properties().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing properties: %w", err)
	}

	result := make([]models.Property, 0)
	for _, p := range items {
		if userID != "" && p.UserID == userID {
			result = append(result, p)
		}
	}
	return result, nil
}

// Cities returns the distinct non-empty locations in first-seen order.
func (s *ListingService) Cities(ctx context.Context) ([]string, error) {
	items, err := s.repomanager.Properties().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing properties: %w", err)
	}

	seen := make(map[string]struct{}, len(items))
	cities := make([]string, 0)
	for _, p := range items {
		loc := strings.TrimSpace(p.Location)
		if loc == "" {
			continue
		}
		if _, ok := seen[loc]; ok {
			continue
		}
		seen[loc] = struct{}{}
		cities = append(cities, loc)
	}
	return cities, nil
}

func (s *ListingService) Get(ctx context.Context, id string) (*models.Property, error) {
	return s.repomanager.Properties().GetByID(ctx, id)
}

// Create stores a new listing owned by ident. photoPaths are public paths of
// already stored photos; the first becomes the main photo.
func (s *ListingService) Create(ctx context.Context, ident *models.Identity, fields models.PropertyFields, photoPaths []string) (*models.Property, error) {
	if !ident.IsUser() {
		return nil, common.ErrorUnauthorized
	}

	p := &models.Property{
		ID:       uuid.NewString(),
		UserID:   ident.ID,
		UserName: ident.Name,
		Date:     s.now().UTC(),
	}
	if err := applyFields(p, fields, false); err != nil {
		return nil, err
	}
	setPhotos(p, photoPaths)

	if err := s.repomanager.Properties().Create(ctx, p); err != nil {
		return nil, fmt.Errorf("error creating property: %w", err)
	}
	return p, nil
}

// Update replaces the editable fields of a listing. Photos are replaced only
// when newPhotoPaths is non-empty. Owner and creation date never change.
func (s *ListingService) Update(ctx context.Context, id string, ident *models.Identity, fields models.PropertyFields, newPhotoPaths []string) (*models.Property, error) {
	now := s.now().UTC()

	return s.repomanager.Properties().Update(ctx, id, func(p *models.Property) error {
		if !CanEdit(ident, p) {
			return common.ErrorForbidden
		}
		if err := applyFields(p, fields, true); err != nil {
			return err
		}
		if len(newPhotoPaths) > 0 {
			setPhotos(p, newPhotoPaths)
		}
		p.DateModified = &now
		return nil
	})
}

// Delete removes a listing. Only admins may delete; unknown ids are ignored.
func (s *ListingService) Delete(ctx context.Context, ident *models.Identity, id string) error {
	if !ident.IsAdmin() {
		return common.ErrorForbidden
	}
	if err := s.repomanager.Properties().Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting property: %w", err)
	}
	return nil
}

// CanEdit reports whether ident may modify p: admins always, users only
// their own listings.
func CanEdit(ident *models.Identity, p *models.Property) bool {
	return ident.IsAdmin() || p.OwnedBy(ident)
}

// ValidateFields reports the first problem with f, if any, without touching
// storage. Handlers call it before storing uploaded photos.
func ValidateFields(f models.PropertyFields) error {
	return applyFields(&models.Property{}, f, false)
}

// applyFields validates f and copies it onto p. On update a blank type or
// listing type keeps the current one.
func applyFields(p *models.Property, f models.PropertyFields, update bool) error {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return common.NewValidationError("title", "is required")
	}

	location := strings.TrimSpace(f.Location)
	if location == "" {
		return common.NewValidationError("location", "is required")
	}

	price, err := ParsePrice(f.Price)
	if err != nil {
		return err
	}

	lt, ok := models.ParseListingType(f.ListingType)
	if !ok {
		return common.NewValidationError("listingType", "must be Sale or Rent")
	}
	if update && strings.TrimSpace(f.ListingType) == "" {
		lt = p.ListingType.OrDefault()
	}

	kind := strings.TrimSpace(f.Type)
	if kind == "" {
		kind = common.DefaultPropertyType
		if update && p.Type != "" {
			kind = p.Type
		}
	}

	p.Title = title
	p.Type = kind
	p.ListingType = lt
	p.Price = price
	p.Location = location
	p.Description = strings.TrimSpace(f.Description)
	return nil
}

// ParsePrice accepts a non-negative decimal number, ignoring surrounding
// spaces and thousands separators.
func ParsePrice(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, common.NewValidationError("price", "is required")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, common.NewValidationError("price", "must be a number")
	}
	if v < 0 {
		return 0, common.NewValidationError("price", "must not be negative")
	}
	return v, nil
}

func setPhotos(p *models.Property, paths []string) {
	photos := make([]string, 0, len(paths))
	for _, ph := range paths {
		if ph = strings.TrimSpace(ph); ph != "" {
			photos = append(photos, ph)
		}
	}
	p.Photos = photos
	if len(photos) > 0 {
		p.MainPhoto = photos[0]
	} else {
		p.MainPhoto = common.DefaultPhoto
	}
}
