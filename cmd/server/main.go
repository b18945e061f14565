// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/logistiq/vvp-backend/internal/admin"
	"github.com/logistiq/vvp-backend/internal/api"
	"github.com/logistiq/vvp-backend/internal/cache"
	"github.com/logistiq/vvp-backend/internal/catalog"
	"github.com/logistiq/vvp-backend/internal/config"
	"github.com/logistiq/vvp-backend/internal/storage"
	"github.com/logistiq/vvp-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize the catalog store with the configured remote backend
	store := catalog.NewStore(cfg.App.CatalogPath, storeOptions(cfg)...)

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		Store:           store,
		Admin:           admin.NewService(store),
		DataDir:         cfg.App.DataDir,
		UploadDir:       filepath.Join(cfg.App.DataDir, "uploads"),
		FranceRatesPath: cfg.App.FranceRatesPath,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// storeOptions wires the remote backend and the catalog cache from the
// environment. Gist wins over S3 when both are configured; neither is
// required, the store runs fine on the local file alone.
func storeOptions(cfg *config.Config) []catalog.Option {
	var opts []catalog.Option

	switch {
	case cfg.Gist.Configured():
		client, err := storage.NewGistClient(storage.GistConfig{
			GistID:   cfg.Gist.ID,
			Token:    cfg.Gist.Token,
			Filename: cfg.Gist.Filename,
			Timeout:  cfg.Gist.GistTimeout(),
		})
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to configure gist backend")
		}
		opts = append(opts, catalog.WithRemote(client))
		logger.Log.Info().Str("gist_id", cfg.Gist.ID).Msg("Catalog sync via GitHub Gist")

	case cfg.S3.Configured():
		client, err := storage.NewS3Client(storage.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			UseSSL:    cfg.S3.UseSSL,
		})
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to configure s3 backend")
		}
		opts = append(opts, catalog.WithRemote(client))
		logger.Log.Info().Str("bucket", cfg.S3.Bucket).Msg("Catalog sync via S3")

	default:
		logger.Log.Info().Msg("No remote catalog backend configured, using local file only")
	}

	if cfg.Cache.Enabled {
		catalogCache, err := cache.NewCatalogCache(cfg.Cache)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to redis")
		}
		opts = append(opts, catalog.WithCache(catalogCache))
		logger.Log.Info().Int("ttl_seconds", cfg.Cache.TTLSeconds).Msg("Catalog cache enabled")
	}

	return opts
}
