package main

import (
	"context"
	"os"

	"github.com/hamzayazough/centris-scraper/config"
	"github.com/hamzayazough/centris-scraper/scraper/apify"
	"github.com/hamzayazough/centris-scraper/services"
	"github.com/hamzayazough/centris-scraper/storage"
	"github.com/hamzayazough/centris-scraper/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLogger(cfg.Debug)

	logger.Info("=== Centris Ingestion Pipeline starting ===")
	logger.Info("Config — actor: %s | maxItems: %d | sort: %s | proxy: %t",
		cfg.ActorID, cfg.MaxItems, cfg.SortOrder, cfg.UseProxy)

	if cfg.ApifyToken == "" || cfg.DatabaseURL == "" {
		logger.Error("APIFY_API_TOKEN and DATABASE_URL must be set")
		os.Exit(1)
	}

	store, err := storage.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	// One transaction spans the whole run: all records commit atomically at
	// the end, or none do.
	tx, err := store.Begin()
	if err != nil {
		logger.Error("Failed to open transaction: %v", err)
		os.Exit(1)
	}
	defer tx.Rollback()

	var snapshot storage.RawSnapshotWriter
	if cfg.CSVOutputPath != "" {
		csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
		if err != nil {
			logger.Error("Failed to create CSV writer: %v", err)
			os.Exit(1)
		}
		defer csvWriter.Close()
		snapshot = csvWriter
	}

	ctx := context.Background()
	client := apify.New(cfg, logger)

	source, err := client.FetchListings(ctx, apify.InputFromConfig(cfg))
	if err != nil {
		logger.Error("Upstream scrape failed: %v", err)
		os.Exit(1)
	}

	pipeline := services.NewPipeline(tx, snapshot, logger)
	report, err := pipeline.Run(source)
	if err != nil {
		logger.Error("Ingestion failed — rolling back run: %v", err)
		os.Exit(1)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("Commit failed: %v", err)
		os.Exit(1)
	}

	services.PrintRunReport(report)
}
