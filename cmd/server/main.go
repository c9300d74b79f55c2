package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"soilviz/internal/config"
	"soilviz/internal/handler"
	"soilviz/internal/interp"
	"soilviz/internal/observability"
	"soilviz/internal/router"
	"soilviz/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// The staging and output directories must exist before the first request.
	for _, dir := range []string{cfg.Staging.Dir, cfg.Output.Dir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	metrics := observability.New()
	runner := interp.NewRunner(&cfg.Interp)
	interpSvc := service.NewInterpolationService(runner, &cfg.Output)

	interpH := handler.NewInterpolationHandler(interpSvc, &cfg.Staging, &cfg.Upload, metrics)
	healthH := handler.NewHealthHandler(cfg)

	r := router.Setup(cfg, interpH, healthH, metrics)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
