package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds every runtime knob, sourced from the environment with
// sensible defaults. The waits and delays exist to let asynchronous page
// rendering settle and to keep the request rate below the platform's
// anti-automation thresholds.
type Config struct {
	UserAgent string `env:"SCRAPER_USER_AGENT" env-default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"`
	Headless  bool   `env:"SCRAPER_HEADLESS" env-default:"true"`

	SearchBaseURL string `env:"SCRAPER_SEARCH_BASE_URL" env-default:"https://www.capcut.com"`

	PageLoadWait   time.Duration `env:"SCRAPER_PAGE_LOAD_WAIT" env-default:"3s"`
	SearchLoadWait time.Duration `env:"SCRAPER_SEARCH_LOAD_WAIT" env-default:"5s"`
	VideoWait      time.Duration `env:"SCRAPER_VIDEO_WAIT" env-default:"10s"`
	ScrollPasses   int           `env:"SCRAPER_SCROLL_PASSES" env-default:"3"`
	ScrollWait     time.Duration `env:"SCRAPER_SCROLL_WAIT" env-default:"2s"`
	RecordDelay    time.Duration `env:"SCRAPER_RECORD_DELAY" env-default:"3s"`
	QueryDelay     time.Duration `env:"SCRAPER_QUERY_DELAY" env-default:"10s"`

	DownloadTimeout time.Duration `env:"SCRAPER_DOWNLOAD_TIMEOUT" env-default:"60s"`
	UploadTimeout   time.Duration `env:"SCRAPER_UPLOAD_TIMEOUT" env-default:"60s"`

	CatboxEndpoint string `env:"CATBOX_ENDPOINT" env-default:"https://catbox.moe/user/api.php"`

	VideoDir  string `env:"SCRAPER_VIDEO_DIR" env-default:"downloads/videos"`
	ThumbDir  string `env:"SCRAPER_THUMB_DIR" env-default:"downloads/thumbnails"`
	TempDir   string `env:"SCRAPER_TEMP_DIR" env-default:"temp"`
	OutputDir string `env:"SCRAPER_OUTPUT_DIR" env-default:"output"`

	FfmpegPath  string `env:"FFMPEG_PATH" env-default:"ffmpeg"`
	FfprobePath string `env:"FFPROBE_PATH" env-default:"ffprobe"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration from environment: %w", err)
	}
	return &cfg, nil
}
