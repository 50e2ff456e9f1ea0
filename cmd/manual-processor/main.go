package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/expediti/capcut-scraper/internal/adapters/catbox"
	"github.com/expediti/capcut-scraper/internal/adapters/downloader"
	"github.com/expediti/capcut-scraper/internal/adapters/export"
	"github.com/expediti/capcut-scraper/internal/adapters/staging"
	"github.com/expediti/capcut-scraper/internal/adapters/thumbnail"
	"github.com/expediti/capcut-scraper/internal/config"
	"github.com/expediti/capcut-scraper/internal/logging"
	"github.com/expediti/capcut-scraper/internal/service"
)

// Manual entries are typed in by hand, so uploads get a tighter bound than
// the automated batch.
const manualUploadTimeout = 30 * time.Second

func main() {
	envErr := godotenv.Load()

	logger := logging.New()
	if envErr != nil {
		logger.Debug("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Warn("Received interrupt signal, finishing current entry...")
		cancel()
	}()

	// Manual runs share one temp directory for videos and thumbnails.
	store, err := staging.New(cfg.TempDir, cfg.TempDir, logger)
	if err != nil {
		logger.Fatalf("Failed to prepare temp directory: %v", err)
	}

	orchestrator := service.NewOrchestrator(
		nil,
		downloader.NewHTTPDownloader(cfg.DownloadTimeout, cfg.UserAgent),
		store,
		thumbnail.New(cfg.FfmpegPath, cfg.FfprobePath, logger),
		catbox.NewClient(cfg.CatboxEndpoint, manualUploadTimeout, logger),
		logger,
		service.Options{ThumbnailOffset: service.ManualThumbnailOffset},
	)

	fmt.Println("=== Manual CapCut Template Processor ===")
	fmt.Println("Enter template details; an empty title finishes the session.")

	scanner := bufio.NewScanner(os.Stdin)
	for ctx.Err() == nil {
		fmt.Println()
		title := prompt(scanner, "Template title: ")
		if title == "" {
			break
		}

		videoURL := prompt(scanner, "Video URL (direct .mp4 link): ")
		if videoURL == "" {
			fmt.Println("Video URL required.")
			continue
		}
		pageURL := prompt(scanner, "CapCut template URL (optional): ")

		record, err := orchestrator.ProcessManual(ctx, title, videoURL, pageURL)
		if err != nil {
			logger.WithError(err).WithField("title", title).Error("Template dropped")
			continue
		}
		logger.WithField("title", record.Title).Info("Template processed")
	}

	records := orchestrator.Records()
	writer, err := export.NewWriter(cfg.OutputDir, logger)
	if err != nil {
		logger.Fatalf("Failed to prepare output directory: %v", err)
	}

	csvPath, err := writer.WriteManualCSV("manual_templates.csv", records)
	if err != nil {
		logger.Errorf("CSV export failed: %v", err)
	}

	fmt.Printf("\nProcessed %d template(s)\n", len(records))
	if csvPath != "" {
		fmt.Printf("CSV: %s\n", csvPath)
	}
}

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}
