package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/dmitrijs2005/estateportal/internal/jsonstore"
	"github.com/dmitrijs2005/estateportal/internal/server/models"
	"github.com/dmitrijs2005/estateportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/estateportal/internal/server/services"
)

// importFile runs the bulk importer against the data directory directly.
// The store's file lock keeps it safe next to a running server.
func (a *App) importFile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(a.out)
	dataDir := fs.String("data", "data", "data directory holding properties.json")
	owner := fs.String("owner", services.DefaultImportOwnerName, "owner name stored on imported listings")
	ownerID := fs.String("owner-id", "", "owner user id stored on imported listings")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.out, "Usage: portalctl import [-data dir] [-owner name] [-owner-id id] <file>")
		return ErrUsage
	}

	rm, err := repomanager.NewJSONRepositoryManager(*dataDir, jsonstore.WithLogger(a.logger))
	if err != nil {
		return fmt.Errorf("open data dir: %w", err)
	}

	ident := &models.Identity{ID: *ownerID, Name: *owner, Admin: true}
	res, err := services.NewImporter(rm, a.logger).ImportFile(ctx, ident, fs.Arg(0))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(a.out, "%d properties imported successfully (%d skipped).\n", res.Imported, res.Skipped)
	return err
}
