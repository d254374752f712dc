package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Downloader fetches published list files into the data directory.
// Files land under a temporary name and move into place only after the
// full body is written, so a failed download never clobbers the
// previous good copy.
type Downloader struct {
	client  *http.Client
	dataDir string
	logger  *zap.Logger
}

// NewDownloader builds a downloader writing into dataDir.
func NewDownloader(dataDir string, timeout time.Duration, logger *zap.Logger) *Downloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Downloader{
		client:  &http.Client{Timeout: timeout},
		dataDir: dataDir,
		logger:  logger,
	}
}

// Fetch downloads url into dataDir under filename and returns the
// final path.
func (d *Downloader) Fetch(ctx context.Context, url, filename string) (string, error) {
	if err := os.MkdirAll(d.dataDir, 0o755); err != nil {
		return "", fmt.Errorf("downloader: creating data dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("downloader: building request for %s: %w", url, err)
	}

	started := time.Now()
	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloader: fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloader: fetching %s: unexpected status %s", url, resp.Status)
	}

	final := filepath.Join(d.dataDir, filename)
	tmp, err := os.CreateTemp(d.dataDir, filename+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("downloader: creating temp file: %w", err)
	}

	written, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("downloader: writing %s: %w", filename, err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("downloader: installing %s: %w", filename, err)
	}

	d.logger.Info("đã tải file danh sách",
		zap.String("url", url),
		zap.String("file", filename),
		zap.Int64("bytes", written),
		zap.Duration("took", time.Since(started)),
	)
	return final, nil
}

// Open returns a reader for a previously fetched file.
func (d *Downloader) Open(filename string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(d.dataDir, filename))
	if err != nil {
		return nil, fmt.Errorf("downloader: opening %s: %w", filename, err)
	}
	return f, nil
}

// Has reports whether a list file already sits in the data dir, used to
// skip downloads when starting against cached files.
func (d *Downloader) Has(filename string) bool {
	info, err := os.Stat(filepath.Join(d.dataDir, filename))
	return err == nil && info.Size() > 0
}
