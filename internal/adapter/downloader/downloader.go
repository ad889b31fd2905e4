package downloader

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/vertextoedge/linkguard/internal/domain"
	"github.com/vertextoedge/linkguard/internal/fs"
	"github.com/vertextoedge/linkguard/internal/port"
	"go.uber.org/zap"
)

// ErrStopped is returned by Request after Stop has been called
var ErrStopped = errors.New("downloader stopped")

// Config contains HTTP settings for out-of-band downloads
type Config struct {
	Timeout      time.Duration // Whole-transfer timeout (default: 30m)
	UserAgent    string
	CookieHeader string // Sent verbatim as the Cookie header when set
}

// Downloader is the download service. Every accepted request ends with
// exactly one call to the responder: Completed or Failed.
type Downloader struct {
	client *resty.Client
	logger *zap.Logger

	mu        sync.RWMutex
	responder port.DownloadResponder
	stopped   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Ensure Downloader implements port.DownloadService
var _ port.DownloadService = (*Downloader)(nil)

// New creates a new Downloader
func New(cfg Config, logger *zap.Logger) *Downloader {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	if cfg.CookieHeader != "" {
		client.SetHeader("Cookie", cfg.CookieHeader)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Downloader{
		client: client,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetResponder sets where terminal signals are delivered
func (d *Downloader) SetResponder(r port.DownloadResponder) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.responder = r
}

// Request accepts a download and starts it in the background
func (d *Downloader) Request(msg port.DownloadMessage) error {
	if msg.ID == "" || msg.URL == "" {
		return fmt.Errorf("%w: download message needs id and url", domain.ErrInvalidInput)
	}
	if msg.DownloadsPath == "" {
		return fmt.Errorf("%w: downloads path is empty", domain.ErrInvalidInput)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}
	if d.responder == nil {
		return fmt.Errorf("%w: no responder set", domain.ErrInvalidInput)
	}

	d.wg.Add(1)
	go d.run(msg, d.responder)
	return nil
}

// Stop cancels in-flight downloads and waits for them to report
func (d *Downloader) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	d.cancel()
	d.wg.Wait()
}

func (d *Downloader) run(msg port.DownloadMessage, responder port.DownloadResponder) {
	defer d.wg.Done()

	start := time.Now()
	filePath, fileName, err := d.download(d.ctx, msg)
	if err != nil {
		d.logger.Warn("Download failed",
			zap.String("request_id", msg.ID),
			zap.String("url", msg.URL),
			zap.Error(err))
		if rerr := responder.Failed(msg.ID); rerr != nil {
			d.signalDropped(msg.ID, rerr)
		}
		return
	}

	d.logger.Info("Download completed",
		zap.String("request_id", msg.ID),
		zap.String("file_path", filePath),
		zap.Duration("elapsed", time.Since(start)))
	if rerr := responder.Completed(msg.ID, filePath, fileName); rerr != nil {
		d.signalDropped(msg.ID, rerr)
	}
}

// signalDropped logs a responder error; stale signals are expected after
// the request was resolved elsewhere
func (d *Downloader) signalDropped(id string, err error) {
	if domain.IsSkippable(err) {
		d.logger.Debug("Download signal dropped", zap.String("request_id", id), zap.Error(err))
		return
	}
	d.logger.Warn("Download signal rejected", zap.String("request_id", id), zap.Error(err))
}

// download fetches msg.URL into msg.DownloadsPath and returns the final
// path and file name
func (d *Downloader) download(ctx context.Context, msg port.DownloadMessage) (string, string, error) {
	mgr, err := fs.NewManager(msg.DownloadsPath)
	if err != nil {
		return "", "", err
	}

	resp, err := d.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(msg.URL)
	if err != nil {
		return "", "", fmt.Errorf("request failed: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return "", "", fmt.Errorf("unexpected status: HTTP %d", resp.StatusCode())
	}

	finalURL := msg.URL
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		finalURL = raw.Request.URL.String()
	}
	name := FileName(resp.Header().Get("Content-Disposition"), finalURL)

	if size := resp.RawResponse.ContentLength; size > 0 {
		if usage, err := mgr.GetDiskUsage(); err == nil && uint64(size) > usage.Free {
			return "", "", fmt.Errorf("not enough space: need %d bytes, %d free", size, usage.Free)
		}
	}

	filePath, written, err := mgr.WriteFile(name, body)
	if err != nil {
		return "", "", err
	}
	d.logger.Debug("Download written",
		zap.String("request_id", msg.ID),
		zap.Int64("bytes", written))

	if filepath.Ext(filePath) == "" {
		filePath = d.appendDetectedExt(mgr, filePath)
	}

	return filePath, filepath.Base(filePath), nil
}

// appendDetectedExt renames an extensionless download after its sniffed
// content type; the original path is kept when detection fails
func (d *Downloader) appendDetectedExt(mgr *fs.Manager, filePath string) string {
	mt, err := mimetype.DetectFile(filePath)
	if err != nil || mt.Extension() == "" {
		return filePath
	}
	renamed, err := mgr.Rename(filePath, filepath.Base(filePath)+mt.Extension())
	if err != nil {
		d.logger.Debug("Failed to append detected extension",
			zap.String("file_path", filePath),
			zap.String("mime", mt.String()),
			zap.Error(err))
		return filePath
	}
	return renamed
}

// FileName picks a local name for a download from its Content-Disposition
// header, falling back to the last segment of the URL path
func FileName(contentDisposition, rawURL string) string {
	if contentDisposition != "" {
		if _, params, err := mime.ParseMediaType(contentDisposition); err == nil {
			if name := params["filename"]; name != "" {
				return fs.SanitizeFileName(name)
			}
		}
	}

	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "/" && base != "." {
			return fs.SanitizeFileName(base)
		}
	}
	return "download"
}
