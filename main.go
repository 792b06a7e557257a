package main

import (
	"fmt"
	"os"
	"strings"

	"gmaps-scraper/config"
	"gmaps-scraper/scraper/gmaps"
	"gmaps-scraper/services"
	"gmaps-scraper/storage"
	"gmaps-scraper/utils"
)

func main() {
	logger := utils.NewLogger()

	if len(os.Args) < 2 || strings.TrimSpace(os.Args[1]) == "" {
		fmt.Fprintln(os.Stderr, `usage: gmaps-scraper "<search query>"`)
		fmt.Fprintln(os.Stderr, `  e.g. gmaps-scraper "restaurants in London"`)
		os.Exit(1)
	}
	query := os.Args[1]

	cfg := config.Load()

	logger.Info("=== Google Maps Scraping System starting ===")
	logger.Info("Query: %q | scroll attempts: %d | stall limit: %d | settle: %dms",
		query, cfg.MaxScrollAttempts, cfg.StallLimit, cfg.SettleMs)

	scraper := gmaps.New(cfg, logger)
	bundles, err := scraper.Scrape(query)
	if err != nil {
		logger.Error("Scrape failed: %v", err)
	}

	parser := services.NewParser(logger)
	places := parser.ParseAll(bundles)

	if len(places) == 0 {
		fmt.Println("No data was extracted or appended.")
		return
	}

	logger.Info("Parsed %d places — writing to CSV...", len(places))

	if csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath); err != nil {
		logger.Error("Failed to create CSV writer: %v — skipping CSV output", err)
	} else {
		if err := csvWriter.Write(places); err != nil {
			logger.Error("CSV write failed: %v", err)
		} else {
			logger.Info("Places saved to %s", cfg.CSVOutputPath)
		}
		_ = csvWriter.Close()
	}

	if pgWriter, err := storage.NewPostgresWriter(cfg.DSN()); err != nil {
		logger.Warn("PostgreSQL unavailable: %v — skipping DB storage", err)
	} else {
		if err := pgWriter.Write(places); err != nil {
			logger.Error("PostgreSQL write failed: %v", err)
		} else {
			logger.Info("Places stored in PostgreSQL (table: places)")
		}
		_ = pgWriter.Close()
	}

	reporter := services.NewReporter(logger)
	reporter.PrintTable(places)
	reporter.PrintSummary(reporter.Generate(places))

	fmt.Printf("\nTotal: %d places\n", len(places))
}
