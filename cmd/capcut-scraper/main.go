package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/expediti/capcut-scraper/internal/adapters/browser"
	"github.com/expediti/capcut-scraper/internal/adapters/catbox"
	"github.com/expediti/capcut-scraper/internal/adapters/downloader"
	"github.com/expediti/capcut-scraper/internal/adapters/export"
	"github.com/expediti/capcut-scraper/internal/adapters/staging"
	"github.com/expediti/capcut-scraper/internal/adapters/thumbnail"
	"github.com/expediti/capcut-scraper/internal/config"
	"github.com/expediti/capcut-scraper/internal/logging"
	"github.com/expediti/capcut-scraper/internal/service"
)

const defaultQueries = "phonk,viral transition,aesthetic,instagram reel,tiktok trending"

func main() {
	// Load .env file if it exists; variables may also be set manually.
	envErr := godotenv.Load()

	logger := logging.New()
	if envErr != nil {
		logger.Debug("No .env file found")
	}

	queries := flag.String("queries", defaultQueries, "Comma-separated search queries")
	maxResults := flag.Int("max", 5, "Maximum templates per query")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Info("=== CapCut Template Scraper ===")

	// The run context governs the batch loop only: an interrupt lets the
	// in-flight record finish and still exports what was accumulated.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Warn("Received interrupt signal, finishing current record...")
		cancel()
	}()

	// The browser outlives the run context so a record in flight during an
	// interrupt can still complete.
	session, err := browser.NewSession(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to start browser: %v", err)
	}
	defer session.Close()

	store, err := staging.New(cfg.VideoDir, cfg.ThumbDir, logger)
	if err != nil {
		logger.Fatalf("Failed to prepare staging directories: %v", err)
	}

	orchestrator := service.NewOrchestrator(
		session,
		downloader.NewHTTPDownloader(cfg.DownloadTimeout, cfg.UserAgent),
		store,
		thumbnail.New(cfg.FfmpegPath, cfg.FfprobePath, logger),
		catbox.NewClient(cfg.CatboxEndpoint, cfg.UploadTimeout, logger),
		logger,
		service.Options{
			RecordDelay: cfg.RecordDelay,
			QueryDelay:  cfg.QueryDelay,
		},
	)

	orchestrator.RunQueries(ctx, splitQueries(*queries), *maxResults)

	records := orchestrator.Records()
	writer, err := export.NewWriter(cfg.OutputDir, logger)
	if err != nil {
		logger.Fatalf("Failed to prepare output directory: %v", err)
	}

	csvPath, err := writer.WriteCSV("capcut_templates.csv", records)
	if err != nil {
		logger.Errorf("CSV export failed: %v", err)
	}
	jsonPath, err := writer.WriteJSON("capcut_templates.json", records)
	if err != nil {
		logger.Errorf("JSON export failed: %v", err)
	}

	fmt.Println("\n=== Scrape Summary ===")
	fmt.Printf("Templates processed: %d\n", len(records))
	if csvPath != "" {
		fmt.Printf("CSV:  %s\n", csvPath)
	}
	if jsonPath != "" {
		fmt.Printf("JSON: %s\n", jsonPath)
	}
}

func splitQueries(raw string) []string {
	var out []string
	for _, q := range strings.Split(raw, ",") {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}
