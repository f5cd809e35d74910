package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/model"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/util"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/util/format"
)

// DefaultBaseURL is the conversion backend's default address.
const DefaultBaseURL = "http://localhost:5000"

const defaultHTTPTimeout = 30 * time.Second

// Client talks to the conversion backend over HTTP. It is safe for
// concurrent use. All methods honor the passed context's deadline.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultHTTPTimeout},
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.log.Debug("backend request",
		"method", method, "path", path,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	// The backend answers errors as JSON with an "error" field and a
	// non-2xx status; decode first so the message survives.
	if out != nil {
		if derr := json.Unmarshal(raw, out); derr != nil {
			if resp.StatusCode >= 300 {
				return fmt.Errorf("backend returned status %d", resp.StatusCode)
			}
			return fmt.Errorf("malformed backend response: %w", derr)
		}
	}
	if resp.StatusCode >= 300 {
		var ep struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &ep) == nil && ep.Error != "" {
			return errors.New(ep.Error)
		}
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	return nil
}

// VideoInfo resolves a candidate URL into preview metadata.
func (c *Client) VideoInfo(ctx context.Context, rawURL string) (model.PreviewInfo, error) {
	var resp previewResponse
	body := map[string]string{"url": rawURL}
	if err := c.doJSON(ctx, http.MethodPost, "/api/video-info", body, &resp); err != nil {
		return model.PreviewInfo{}, err
	}
	if resp.Error != "" {
		return model.PreviewInfo{}, errors.New(resp.Error)
	}

	info := model.PreviewInfo{
		Title:             resp.Title,
		Uploader:          resp.Uploader,
		Platform:          resp.Platform,
		DurationFormatted: resp.DurationFormatted,
		ThumbnailURL:      resp.Thumbnail,
	}
	// Older backends report only the raw duration in seconds.
	if info.DurationFormatted == "" && resp.Duration > 0 {
		info.DurationFormatted = format.FormatClock(int(resp.Duration))
	}
	for _, q := range resp.AvailableQualities {
		if tier := model.VideoQuality(q); tier.Valid() {
			info.AvailableTiers = append(info.AvailableTiers, tier)
		}
	}
	return info, nil
}

// Convert submits a conversion job and returns the backend-assigned
// task identifier. A success response without a task id is an error.
func (c *Client) Convert(ctx context.Context, req ConvertRequest) (string, error) {
	var resp convertResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/convert", req, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", errors.New(resp.Error)
	}
	if strings.TrimSpace(resp.TaskID) == "" {
		return "", errors.New("backend response missing task_id")
	}
	return resp.TaskID, nil
}

// Progress fetches the current status of a task.
func (c *Client) Progress(ctx context.Context, taskID string) (StatusPayload, error) {
	var resp StatusPayload
	err := c.doJSON(ctx, http.MethodGet, "/api/progress/"+url.PathEscape(taskID), nil, &resp)
	return resp, err
}

// Cancel fires a best-effort cancellation. The response body and any
// failure are deliberately ignored; local cancellation is authoritative.
func (c *Client) Cancel(ctx context.Context, taskID string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/cancel/"+url.PathEscape(taskID), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	return nil
}

// DownloadURL builds the retrieval link for a finished task.
func (c *Client) DownloadURL(taskID, title string) string {
	return c.baseURL + "/api/download/" + url.PathEscape(taskID) +
		"?title=" + url.QueryEscape(title)
}

// Download streams a finished task's file into destDir and returns the
// saved path. The filename comes from the backend's Content-Disposition
// header when present, otherwise from the sanitized title.
func (c *Client) Download(ctx context.Context, taskID, title, destDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DownloadURL(taskID, title), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed: backend returned status %d", resp.StatusCode)
	}

	name := attachmentFilename(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = util.SanitizeFilename(title)
	}
	if err := util.EnsureDir(destDir); err != nil {
		return "", err
	}
	dest := filepath.Join(destDir, filepath.Base(name))

	f, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return dest, nil
}

func attachmentFilename(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}

// AudioFormats fetches the backend's audio-format catalog.
func (c *Client) AudioFormats(ctx context.Context) ([]AudioFormat, error) {
	var resp audioFormatsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/audio-formats", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Formats, nil
}

// SupportedPlatforms fetches the backend's platform catalog.
func (c *Client) SupportedPlatforms(ctx context.Context) ([]PlatformEntry, error) {
	var resp platformsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/supported-platforms", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Platforms, nil
}

// Health checks the backend's health endpoint.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var resp Health
	err := c.doJSON(ctx, http.MethodGet, "/health", nil, &resp)
	return resp, err
}
