package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"greenhouse_dashboard/internal/config"
	"greenhouse_dashboard/internal/handlers"
	"greenhouse_dashboard/internal/logger"
	"greenhouse_dashboard/internal/repository"
	"greenhouse_dashboard/internal/repository/db"
	"greenhouse_dashboard/internal/server"
	"greenhouse_dashboard/internal/service"
	"greenhouse_dashboard/internal/upstream"
)

const shutdownTimeout = 10 * time.Second

// @title           Greenhouse Dashboard API
// @version         1.0
// @description     Data layer and HTTP surface for the greenhouse monitoring dashboard.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// load config.yml first; logging config lives there
	cfg, err := config.Load("configs")
	if err != nil {
		logger.Get(logger.InfoLevel, logger.FormatConsole).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.Log.Level, cfg.Log.Format)

	// open DB (user accounts only)
	database, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(database)
	api := upstream.NewClient(upstream.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	})
	services := service.NewService(repos, api, cfg, log)
	apiHandler := handlers.NewHandler(services, log)

	// keep the series caches warm
	if cfg.Poll.Enabled {
		if err := services.Poller.Start(); err != nil {
			log.Fatalw("failed to start poller", "err", err)
		}
	}

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, services, cfg, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server starting", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, services *service.Service, cfg *config.Config, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	if cfg.Poll.Enabled {
		services.Poller.Stop()
	}

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
