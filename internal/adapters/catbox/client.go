package catbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultEndpoint is the anonymous catbox.moe upload API.
const DefaultEndpoint = "https://catbox.moe/user/api.php"

// Client implements ports.Uploader against the catbox file-hosting API.
// One multipart POST per file, no retry, no resumable uploads.
type Client struct {
	endpoint string
	client   *http.Client
	log      *logrus.Logger
}

// NewClient creates a Client with a bounded per-upload timeout.
func NewClient(endpoint string, timeout time.Duration, log *logrus.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

// Upload performs a single upload attempt and returns the hosted URL.
// Success is an HTTP 200 whose trimmed body is a bare https:// URL; any
// other status or body shape is a failure.
func (c *Client) Upload(ctx context.Context, filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("reqtype", "fileupload"); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	part, err := writer.CreateFormFile("fileToUpload", filepath.Base(filePath))
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.log.WithField("file", filepath.Base(filePath)).Info("Uploading to catbox")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	hostedURL := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(hostedURL, "https://") {
		return "", fmt.Errorf("malformed upload response: %q", hostedURL)
	}

	c.log.WithField("url", hostedURL).Info("Upload complete")
	return hostedURL, nil
}
