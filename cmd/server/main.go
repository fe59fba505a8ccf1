package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/provat/codetriage/internal/server"
	"github.com/provat/codetriage/internal/transport/http/router"
	"github.com/provat/codetriage/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	srv, err := server.New()
	if err != nil {
		logger.Get().Fatal("Failed to initialize server", logger.Error(err))
	}

	initLogger(srv)
	log := logger.Get().WithFields(logger.Component("main"))

	if err := srv.DB.RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations", logger.Error(err))
	}

	r := router.NewRouter(srv)
	r.RegisterRoutes()

	if srv.Config.Digest.Enabled {
		r.Deps.DigestCron.Start()
	}

	httpServer := &http.Server{
		Addr:    srv.Config.ServerAddress(),
		Handler: srv.Engine,
	}

	go func() {
		log.Info("Starting HTTP server", logger.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", logger.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("Shutting down")

	if srv.Config.Digest.Enabled {
		r.Deps.DigestCron.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", logger.Error(err))
	}

	if err := srv.DB.Close(); err != nil {
		log.Error("Database close error", logger.Error(err))
	}

	log.Info("Shutdown complete")
	_ = logger.Get().Sync()
}

// initLogger replaces the default global logger with one built from the
// loaded configuration.
func initLogger(srv *server.Server) {
	cfg := &logger.Config{
		Level:       srv.Config.Logging.Level,
		Output:      logger.OutputType(srv.Config.Logging.Output),
		Format:      srv.Config.Logging.Format,
		FilePath:    srv.Config.Logging.OutputPath,
		Development: srv.Config.IsDevelopment(),
		AddCaller:   true,
		CallerSkip:  1,
	}
	if err := logger.Init(cfg); err != nil {
		logger.Get().Warn("Falling back to default logger", logger.Error(err))
	}
}
