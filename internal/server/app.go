// Package server wires the portal together: storage, services, photo store,
// session signing and the HTTP server, and runs it until a shutdown signal.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/estateportal/internal/common"
	"github.com/dmitrijs2005/estateportal/internal/jsonstore"
	"github.com/dmitrijs2005/estateportal/internal/logging"
	"github.com/dmitrijs2005/estateportal/internal/server/config"
	"github.com/dmitrijs2005/estateportal/internal/server/photos"
	"github.com/dmitrijs2005/estateportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/estateportal/internal/server/services"
	"github.com/dmitrijs2005/estateportal/internal/server/web"
	"github.com/dmitrijs2005/estateportal/internal/server/web/views"
)

const (
	PhotoBackendLocal = "local"
	PhotoBackendS3    = "s3"

	uploadsURLPrefix = "uploads"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *web.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel, c.LogFormat)

	rm, err := repomanager.NewJSONRepositoryManager(c.DataDir, jsonstore.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("data store init error: %w", err)
	}

	store, err := newPhotoStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("photo store init error: %w", err)
	}

	secret := c.SessionSecret
	if secret == "" {
		secret, err = common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("session secret: %w", err)
		}
		logger.Warn(ctx, "session secret is not configured; using a random one, sessions will not survive a restart")
	}

	if c.AdminPassword == "" {
		logger.Warn(ctx, "admin password is not configured; admin login is disabled")
	}

	renderer, err := views.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}

	h := web.NewHandler(web.Deps{
		Users:          services.NewUserService(rm, c),
		Listings:       services.NewListingService(rm),
		Importer:       services.NewImporter(rm, logger),
		Blogs:          services.NewBlogService(rm),
		Photos:         store,
		Renderer:       renderer,
		Sessions:       web.NewSessions([]byte(secret), c.SessionTTL),
		Logger:         logger,
		PublicDir:      c.PublicDir,
		TempDir:        c.TempDir,
		MaxPhotos:      c.MaxPhotos,
		MaxUploadBytes: c.MaxUploadBytes,
		MetricsEnabled: c.MetricsEnabled,
	})

	opts := append(h.Options(), web.WithShutdownTimeout(c.ShutdownTimeout))
	s, err := web.NewServer(c.ListenAddr, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("http server init error: %w", err)
	}

	return &App{config: c, logger: logger, server: s}, nil
}

func newPhotoStore(ctx context.Context, c *config.Config) (photos.Store, error) {
	switch c.PhotoBackend {
	case "", PhotoBackendLocal:
		return photos.NewLocalStore(c.UploadDir, uploadsURLPrefix)
	case PhotoBackendS3:
		return photos.NewS3Store(ctx, photos.S3Config{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			PublicURL:    c.S3PublicURL,
		})
	default:
		return nil, fmt.Errorf("unknown photo backend %q", c.PhotoBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is canceled or a shutdown signal arrives.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "data_dir", app.config.DataDir, "photos", app.config.PhotoBackend)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
}
