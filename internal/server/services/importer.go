package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/estateportal/internal/common"
	"github.com/dmitrijs2005/estateportal/internal/logging"
	"github.com/dmitrijs2005/estateportal/internal/server/models"
	"github.com/dmitrijs2005/estateportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/estateportal/internal/spreadsheet"
	"github.com/google/uuid"
)

// Import column headers, matched ignoring case and surrounding spaces.
const (
	ColTitle       = "Title"
	ColType        = "Type"
	ColListingType = "ListingType"
	ColPrice       = "Price"
	ColLocation    = "Location"
	ColDescription = "Description"
	ColPhoto       = "Photo"
)

// DefaultImportOwnerName labels imported listings when the importing admin
// session carries no user name.
const DefaultImportOwnerName = "Admin"

type ImportResult struct {
	Imported int
	Skipped  int
}

// Importer bulk-loads listings from spreadsheets.
type Importer struct {
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	now         func() time.Time
}

func NewImporter(m repomanager.RepositoryManager, log logging.Logger) *Importer {
	return &Importer{
		repomanager: m,
		log:         log.With("module", "importer"),
		now:         time.Now,
	}
}

// ImportFile reads path (.xlsx or .csv) and appends every valid row as a new
// listing owned by ident in a single write. Rows without title, location or
// a numeric price, or with an unknown listing type, are skipped.
func (im *Importer) ImportFile(ctx context.Context, ident *models.Identity, path string) (*ImportResult, error) {
	if !ident.IsAdmin() {
		return nil, common.ErrorForbidden
	}

	records, err := spreadsheet.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrImportParse, err)
	}

	ownerName := ident.Name
	if ownerName == "" {
		ownerName = DefaultImportOwnerName
	}

	now := im.now().UTC()
	result := &ImportResult{}
	batch := make([]models.Property, 0, len(records))

	for i, rec := range records {
		p, reason := im.rowToProperty(rec)
		if reason != "" {
			result.Skipped++
			// header is row 1
			im.log.Debug(ctx, "import row skipped", "row", i+2, "reason", reason)
			continue
		}
		p.ID = uuid.NewString()
		p.UserID = ident.ID
		p.UserName = ownerName
		p.Date = now
		batch = append(batch, *p)
	}

	if err := im.repomanager.Properties().CreateMany(ctx, batch); err != nil {
		return nil, fmt.Errorf("error saving imported properties: %w", err)
	}

	result.Imported = len(batch)
	im.log.Info(ctx, "import finished", "file", path, "imported", result.Imported, "skipped", result.Skipped)

	return result, nil
}

// rowToProperty returns a non-empty reason when the row must be skipped.
func (im *Importer) rowToProperty(rec spreadsheet.Record) (*models.Property, string) {
	title := rec.Get(ColTitle)
	location := rec.Get(ColLocation)
	rawPrice := rec.Get(ColPrice)

	if title == "" || location == "" || rawPrice == "" {
		return nil, "missing title, price or location"
	}

	price, err := ParsePrice(rawPrice)
	if err != nil {
		return nil, err.Error()
	}

	lt, ok := models.ParseListingType(rec.Get(ColListingType))
	if !ok {
		return nil, "unknown listing type"
	}

	kind := rec.Get(ColType)
	if kind == "" {
		kind = common.DefaultPropertyType
	}

	p := &models.Property{
		Title:       title,
		Type:        kind,
		ListingType: lt,
		Price:       price,
		Location:    location,
		Description: rec.Get(ColDescription),
	}
	setPhotos(p, strings.Split(rec.Get(ColPhoto), ","))

	return p, ""
}
