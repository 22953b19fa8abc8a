package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"vacancy-backend/config"
	"vacancy-backend/routes"
	"vacancy-backend/services"
	"vacancy-backend/store"
)

const serviceName = "vacancy-backend"

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat, serviceName)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	if !cfg.DotEnvLoaded {
		logger.Info("No .env file found")
	}

	backend, err := openBackend(cfg)
	if err != nil {
		logger.Fatal("failed to open storage backend", zap.Error(err))
	}
	persister := store.NewPersister(backend, logger)
	registry := services.NewRegistry(ctx, persister, logger)

	autosave := services.NewAutosaveService(registry, cfg.AutosaveInterval, logger)
	if err := autosave.StartScheduler(); err != nil {
		logger.Fatal("failed to start autosave", zap.Error(err))
	}

	gin.SetMode(cfg.GinMode)
	r := routes.SetupRouter(registry, cfg.AllowedOrigins, logger)
	printRoutes(r, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server running", zap.String("addr", srv.Addr), zap.String("storage", backend.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	exitCode := 0
	select {
	case sig := <-done:
		logger.Info("Saving data before shutdown", zap.String("signal", sig.String()))
	case err := <-serveErr:
		logger.Error("ListenAndServe failed", zap.Error(err))
		exitCode = 1
	}

	if err := shutdown(cfg, srv, autosave, registry, persister); err != nil {
		logger.Error("Shutdown finished with errors", zap.Error(err))
	}
	logger.Info("Server shutdown", zap.Int("exit_code", exitCode))
	if exitCode != 0 {
		_ = logger.Sync()
		os.Exit(exitCode)
	}
}

func openBackend(cfg *config.Config) (store.Backend, error) {
	if cfg.DatabaseURL == "" {
		return store.NewFileStore(cfg.DataFile, cfg.BackupDir), nil
	}
	db, err := config.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	pg, err := store.NewPostgresStore(db)
	if err != nil {
		return nil, err
	}
	return pg, nil
}

// shutdown drains HTTP, stops the autosave job and flushes one last time.
// The flush runs even if the earlier steps fail.
func shutdown(cfg *config.Config, srv *http.Server, autosave *services.AutosaveService, registry *services.Registry, persister *store.Persister) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	var result *multierror.Error
	if err := srv.Shutdown(ctx); err != nil {
		result = multierror.Append(result, err)
	}
	autosave.Stop(ctx)

	registry.Flush(context.Background())
	if st := persister.Status(); !st.Healthy() {
		result = multierror.Append(result, errors.New("final flush failed: "+st.LastError))
	}
	if err := persister.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func printRoutes(r *gin.Engine, logger *zap.Logger) {
	for _, route := range r.Routes() {
		logger.Debug("route", zap.String("method", route.Method), zap.String("path", route.Path))
	}
}
