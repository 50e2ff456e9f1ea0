package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/expediti/capcut-scraper/internal/core/domain"
)

var (
	scraperHeader = []string{
		"title", "template_id", "capcut_link", "video_url", "thumbnail_url",
		"web_url", "description", "tags", "duration",
	}
	manualHeader = []string{
		"title", "template_id", "capcut_link", "video_url", "thumbnail_url",
		"original_url",
	}
)

// Writer serializes a finished run to the output directory. It only ever
// reads the record slice; serialization is deterministic, so re-exporting
// the same collection produces identical files.
type Writer struct {
	outputDir string
	log       *logrus.Logger
}

// NewWriter creates the output directory if needed.
func NewWriter(outputDir string, log *logrus.Logger) (*Writer, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}
	return &Writer{outputDir: outputDir, log: log}, nil
}

// WriteCSV writes the scraper's tabular export. An empty collection is a
// warning, not a file. Returns the written path, or empty when skipped.
func (w *Writer) WriteCSV(filename string, records []domain.TemplateRecord) (string, error) {
	return w.writeCSV(filename, records, scraperHeader, scraperRow)
}

// WriteManualCSV writes the manual processor's tabular export, which omits
// the best-effort page metadata columns.
func (w *Writer) WriteManualCSV(filename string, records []domain.TemplateRecord) (string, error) {
	return w.writeCSV(filename, records, manualHeader, manualRow)
}

// WriteJSON mirrors the in-memory record list, including the tag set.
func (w *Writer) WriteJSON(filename string, records []domain.TemplateRecord) (string, error) {
	if len(records) == 0 {
		w.log.Warn("No templates to export")
		return "", nil
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode templates: %w", err)
	}

	path := filepath.Join(w.outputDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	w.log.WithFields(logrus.Fields{"path": path, "templates": len(records)}).Info("Exported JSON")
	return path, nil
}

func (w *Writer) writeCSV(filename string, records []domain.TemplateRecord, header []string, row func(domain.TemplateRecord) []string) (string, error) {
	if len(records) == 0 {
		w.log.Warn("No templates to export")
		return "", nil
	}

	path := filepath.Join(w.outputDir, filename)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write(header); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, record := range records {
		if err := cw.Write(row(record)); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("failed to flush %s: %w", path, err)
	}

	w.log.WithFields(logrus.Fields{"path": path, "templates": len(records)}).Info("Exported CSV")
	return path, nil
}

func scraperRow(r domain.TemplateRecord) []string {
	return []string{
		r.Title, r.TemplateID, r.CapcutLink, r.VideoURL, r.ThumbnailURL,
		r.SourceURL, r.Description, strings.Join(r.Tags, ", "), r.Duration,
	}
}

func manualRow(r domain.TemplateRecord) []string {
	return []string{
		r.Title, r.TemplateID, r.CapcutLink, r.VideoURL, r.ThumbnailURL,
		r.SourceURL,
	}
}
