package main

import (
	"fmt"
	"log"

	"concil/internal/companies"
	"concil/internal/config"
	"concil/internal/handler"
	"concil/internal/notify/noop"
	"concil/internal/notify/ses"
	"concil/internal/port"
	"concil/internal/repository/postgres"
	"concil/internal/router"
	"concil/internal/service"
	s3storage "concil/internal/storage/s3"
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

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	batchRepo := postgres.NewBatchRepo(db)

	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	var notifier port.ReviewNotifier
	if cfg.Notify.Provider == "ses" {
		notifier, err = ses.NewSESNotifier(cfg.Notify.Region, cfg.Notify.FromAddress, cfg.Notify.FromName, cfg.Notify.ToAddress)
		if err != nil {
			return fmt.Errorf("failed to initialize SES notifier: %w", err)
		}
	} else {
		notifier = noop.NewNoopNotifier()
	}

	registry, err := companies.LoadFile(cfg.Companies.File)
	if err != nil {
		return fmt.Errorf("failed to load company registry: %w", err)
	}
	if registry.Len() > 0 {
		log.Printf("loaded %d group companies", registry.Len())
	}

	batchSvc := service.NewBatchService(batchRepo, s3Client, notifier, registry, &cfg.S3)

	batchH := handler.NewBatchHandler(batchSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(batchH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
