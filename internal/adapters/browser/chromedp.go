package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/expediti/capcut-scraper/internal/capcut"
	"github.com/expediti/capcut-scraper/internal/config"
	"github.com/expediti/capcut-scraper/internal/core/ports"
)

// videoSrcJS reads the live video element's resolved source. The rendered
// markup sometimes carries a blob: src while currentSrc points at the real
// media URL, so both are consulted.
const videoSrcJS = `(() => {
	const v = document.querySelector("video");
	if (!v) return "";
	return v.currentSrc || v.src || "";
})()`

// Session implements ports.Browser on a single headless Chrome instance.
// One session is created at startup and shared by every navigation; the
// platform throttles aggressively, so the fixed waits after navigation and
// scrolling are load-bearing.
type Session struct {
	browserCtx context.Context
	cancels    []context.CancelFunc
	cfg        *config.Config
	log        *logrus.Logger
}

// NewSession launches the headless browser and verifies it came up.
func NewSession(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(cfg.UserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start headless browser: %w", err)
	}

	log.Info("Headless browser session started")
	return &Session{
		browserCtx: browserCtx,
		cancels:    []context.CancelFunc{cancelBrowser, cancelAlloc},
		cfg:        cfg,
		log:        log,
	}, nil
}

// SearchTemplates loads the explore page for the query, scrolls to trigger
// lazy result loading, and harvests template detail links from the rendered
// markup.
func (s *Session) SearchTemplates(ctx context.Context, query string, maxResults int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	searchURL := fmt.Sprintf("%s/explore?q=%s",
		strings.TrimRight(s.cfg.SearchBaseURL, "/"), url.QueryEscape(query))
	s.log.WithField("query", query).Info("Loading search results")

	actions := []chromedp.Action{
		chromedp.Navigate(searchURL),
		chromedp.Sleep(s.cfg.SearchLoadWait),
	}
	for i := 0; i < s.cfg.ScrollPasses; i++ {
		actions = append(actions,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(s.cfg.ScrollWait),
		)
	}

	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(s.browserCtx, actions...); err != nil {
		return nil, fmt.Errorf("search navigation failed: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	links := capcut.TemplateLinks(doc, s.cfg.SearchBaseURL)
	if maxResults > 0 && len(links) > maxResults {
		links = links[:maxResults]
	}
	return links, nil
}

// RenderPage navigates to the template page, waits briefly for the media
// element, and snapshots the rendered document together with the live
// video source. A page without a video element is still returned; the
// discovery chain has markup-level fallbacks.
func (s *Session) RenderPage(ctx context.Context, pageURL string) (*ports.RenderedPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := chromedp.Run(s.browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(s.cfg.PageLoadWait),
	); err != nil {
		return nil, fmt.Errorf("page navigation failed: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(s.browserCtx, s.cfg.VideoWait)
	err := chromedp.Run(waitCtx, chromedp.WaitReady("video", chromedp.ByQuery))
	cancel()
	if err != nil {
		s.log.WithField("url", pageURL).Warn("No video element appeared")
	}

	var html, liveSrc string
	if err := chromedp.Run(s.browserCtx,
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Evaluate(videoSrcJS, &liveSrc),
	); err != nil {
		return nil, fmt.Errorf("failed to snapshot page: %w", err)
	}

	return &ports.RenderedPage{URL: pageURL, HTML: html, VideoSrc: liveSrc}, nil
}

// Close tears the browser down. Safe to call once at shutdown.
func (s *Session) Close() error {
	_ = chromedp.Cancel(s.browserCtx)
	for _, cancel := range s.cancels {
		cancel()
	}
	s.log.Info("Browser session closed")
	return nil
}
