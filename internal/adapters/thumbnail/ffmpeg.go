package thumbnail

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/floostack/transcoder/ffmpeg"
	"github.com/sirupsen/logrus"
)

// Extractor implements ports.Thumbnailer using ffprobe/ffmpeg.
type Extractor struct {
	cfg *ffmpeg.Config
	log *logrus.Logger
}

// New creates an Extractor bound to the given ffmpeg and ffprobe binaries.
func New(ffmpegPath, ffprobePath string, log *logrus.Logger) *Extractor {
	return &Extractor{
		cfg: &ffmpeg.Config{
			FfmpegBinPath:   ffmpegPath,
			FfprobeBinPath:  ffprobePath,
			ProgressEnabled: true,
		},
		log: log,
	}
}

// Extract decodes the frame nearest to timestamp (seconds) and writes it to
// thumbPath as a JPEG. Timestamps beyond the end of the clip are retargeted
// to its midpoint. Unreadable files, missing duration metadata and decode
// failures are all reported as errors; there is no fallback image.
func (e *Extractor) Extract(ctx context.Context, videoPath, thumbPath string, timestamp float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	metadata, err := ffmpeg.New(e.cfg).Input(videoPath).GetMetadata()
	if err != nil {
		return fmt.Errorf("failed to probe video %s: %w", videoPath, err)
	}

	duration, err := strconv.ParseFloat(metadata.GetFormat().GetDuration(), 64)
	if err != nil || duration <= 0 {
		return fmt.Errorf("video %s has no usable duration metadata", videoPath)
	}
	if timestamp > duration {
		timestamp = duration / 2
	}

	seek := strconv.FormatFloat(timestamp, 'f', 3, 64)
	overwrite := true
	opts := &ffmpeg.Options{
		SeekTime:  &seek,
		Overwrite: &overwrite,
		ExtraArgs: map[string]interface{}{
			"-frames:v": 1,
			"-q:v":      2,
		},
	}

	e.log.WithFields(logrus.Fields{"video": videoPath, "seek": seek}).Debug("Extracting thumbnail")

	progress, err := ffmpeg.New(e.cfg).
		Input(videoPath).
		Output(thumbPath).
		WithOptions(opts).
		Start(opts)
	if err != nil {
		return fmt.Errorf("failed to extract frame from %s: %w", videoPath, err)
	}
	for range progress {
	}

	// ffmpeg exits quietly on some decode failures; the output file is the
	// source of truth.
	info, err := os.Stat(thumbPath)
	if err != nil || info.Size() == 0 {
		return fmt.Errorf("no thumbnail produced for %s", videoPath)
	}
	return nil
}
