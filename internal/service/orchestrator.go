package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/expediti/capcut-scraper/internal/capcut"
	"github.com/expediti/capcut-scraper/internal/core/domain"
	"github.com/expediti/capcut-scraper/internal/core/ports"
)

const (
	// DefaultThumbnailOffset is how far into the clip the scraper grabs its
	// still frame, in seconds.
	DefaultThumbnailOffset = 2.0
	// ManualThumbnailOffset is the fixed seek used by the manual processor.
	ManualThumbnailOffset = 1.0
)

// Options tunes the per-run behavior of the Orchestrator.
type Options struct {
	// ThumbnailOffset is the frame-grab timestamp in seconds. Zero selects
	// DefaultThumbnailOffset.
	ThumbnailOffset float64
	// RecordDelay is slept between consecutive records in batch mode.
	RecordDelay time.Duration
	// QueryDelay is slept between consecutive search queries.
	QueryDelay time.Duration
}

// Orchestrator drives every record through the fixed stage sequence:
// discover URL → fetch → extract thumbnail → upload video → upload
// thumbnail → link → cleanup. Any stage failure short-circuits to cleanup
// and drops the record; the batch continues. The orchestrator owns the
// result collection for the duration of one run.
type Orchestrator struct {
	browser     ports.Browser
	downloader  ports.Downloader
	staging     ports.Staging
	thumbnailer ports.Thumbnailer
	uploader    ports.Uploader
	log         *logrus.Logger
	opts        Options

	templates []domain.TemplateRecord
}

// NewOrchestrator creates an Orchestrator. The browser may be nil for
// manual runs, which never discover pages.
func NewOrchestrator(
	browser ports.Browser,
	downloader ports.Downloader,
	staging ports.Staging,
	thumbnailer ports.Thumbnailer,
	uploader ports.Uploader,
	log *logrus.Logger,
	opts Options,
) *Orchestrator {
	if opts.ThumbnailOffset <= 0 {
		opts.ThumbnailOffset = DefaultThumbnailOffset
	}
	return &Orchestrator{
		browser:     browser,
		downloader:  downloader,
		staging:     staging,
		thumbnailer: thumbnailer,
		uploader:    uploader,
		log:         log,
		opts:        opts,
	}
}

// Records returns the accumulated result collection in insertion order.
// Callers get a read-only view; the slice must not be mutated.
func (o *Orchestrator) Records() []domain.TemplateRecord {
	return o.templates
}

// RunQueries processes each search query in sequence. Cancellation is only
// honored between records: an interrupt lets the in-flight record finish
// (or fail) and keeps everything accumulated so far for export.
func (o *Orchestrator) RunQueries(ctx context.Context, queries []string, maxPerQuery int) {
	for i, query := range queries {
		if ctx.Err() != nil {
			o.log.Warn("Interrupted, stopping batch")
			return
		}

		o.log.WithField("query", query).Info("Searching templates")
		links, err := o.browser.SearchTemplates(ctx, query, maxPerQuery)
		if err != nil {
			o.log.WithError(err).WithField("query", query).Error("Search failed")
			continue
		}
		o.log.WithFields(logrus.Fields{"query": query, "links": len(links)}).Info("Found template links")

		processed := 0
		for _, link := range links {
			if ctx.Err() != nil {
				o.log.Warn("Interrupted, stopping batch")
				return
			}
			record, err := o.ProcessTemplatePage(ctx, link)
			if err != nil {
				o.log.WithError(err).WithField("url", link).Error("Template dropped")
			} else {
				o.log.WithField("title", record.Title).Info("Template processed")
				processed++
			}
			sleep(ctx, o.opts.RecordDelay)
		}
		o.log.WithFields(logrus.Fields{"query": query, "processed": processed}).Info("Query finished")

		if i < len(queries)-1 {
			sleep(ctx, o.opts.QueryDelay)
		}
	}
}

// ProcessTemplatePage runs the full pipeline for one template page URL and
// appends the record to the collection on success.
func (o *Orchestrator) ProcessTemplatePage(ctx context.Context, pageURL string) (*domain.TemplateRecord, error) {
	page, err := o.browser.RenderPage(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	record := domain.TemplateRecord{
		SourceURL:   pageURL,
		Title:       capcut.Title(doc),
		TemplateID:  capcut.TemplateID(pageURL),
		Description: capcut.Description(doc),
		Tags:        capcut.Tags(doc),
		Duration:    capcut.Duration(doc),
	}

	mediaURL := capcut.VideoSource(doc, page.VideoSrc, page.HTML)
	if mediaURL == "" {
		return nil, fmt.Errorf("no video URL resolved for %s", pageURL)
	}

	if err := o.processMedia(ctx, &record, mediaURL); err != nil {
		return nil, err
	}

	o.templates = append(o.templates, record)
	return &record, nil
}

// ProcessManual runs the pipeline for a manually supplied entry. The page
// URL is optional and only feeds identifier extraction.
func (o *Orchestrator) ProcessManual(ctx context.Context, title, videoURL, pageURL string) (*domain.TemplateRecord, error) {
	record := domain.TemplateRecord{
		Title:      title,
		SourceURL:  pageURL,
		TemplateID: capcut.TemplateID(pageURL),
	}

	if err := o.processMedia(ctx, &record, videoURL); err != nil {
		return nil, err
	}

	o.templates = append(o.templates, record)
	return &record, nil
}

// processMedia runs the media stages for one record: fetch, thumbnail,
// both uploads, deep link. Staged files are purged on the way out whatever
// happens; cleanup errors are ignored.
func (o *Orchestrator) processMedia(ctx context.Context, record *domain.TemplateRecord, mediaURL string) error {
	name := stagingName(record)
	var videoPath, thumbPath string
	defer func() {
		o.staging.Remove(videoPath, thumbPath)
	}()

	body, err := o.downloader.Download(ctx, mediaURL)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	videoPath, err = o.staging.SaveVideo(name+".mp4", body)
	body.Close()
	if err != nil {
		return fmt.Errorf("failed to stage video: %w", err)
	}

	thumbPath = o.staging.ThumbnailPath(name + ".jpg")
	if err := o.thumbnailer.Extract(ctx, videoPath, thumbPath, o.opts.ThumbnailOffset); err != nil {
		return fmt.Errorf("thumbnail extraction failed: %w", err)
	}

	videoURL, err := o.uploader.Upload(ctx, videoPath)
	if err != nil {
		return fmt.Errorf("video upload failed: %w", err)
	}
	thumbURL, err := o.uploader.Upload(ctx, thumbPath)
	if err != nil {
		return fmt.Errorf("thumbnail upload failed: %w", err)
	}

	record.VideoURL = videoURL
	record.ThumbnailURL = thumbURL
	record.CapcutLink = capcut.DeepLink(record.TemplateID)
	return nil
}

var (
	unsafeNameChars = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// stagingName builds a collision-free base name for the record's scratch
// files, preferring the template identifier over the sanitized title.
func stagingName(record *domain.TemplateRecord) string {
	base := record.TemplateID
	if base == "" {
		base = sanitizeTitle(record.Title)
	}
	if base == "" {
		base = "unknown"
	}
	return fmt.Sprintf("%s_%s", base, uuid.NewString()[:8])
}

func sanitizeTitle(title string) string {
	s := strings.TrimSpace(unsafeNameChars.ReplaceAllString(title, ""))
	if len(s) > 50 {
		s = s[:50]
	}
	return whitespaceRun.ReplaceAllString(s, "_")
}

// sleep waits for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
