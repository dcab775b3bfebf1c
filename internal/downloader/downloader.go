package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	fetchTimeout = 60 * time.Second
	// MaxImageBytes caps the size of a downloaded image.
	MaxImageBytes = 64 << 20

	statusInterval = 64 << 10
)

var httpClient = &http.Client{
	Timeout: fetchTimeout,
}

// DownloadStatus reports download progress. Total is -1 when the server
// did not send a length.
type DownloadStatus struct {
	Phase      string
	Downloaded int64
	Total      int64
}

// Fraction returns completion in [0, 1], or 0 when the total is unknown.
func (s DownloadStatus) Fraction() float64 {
	if s.Total <= 0 {
		return 0
	}
	f := float64(s.Downloaded) / float64(s.Total)
	if f > 1 {
		return 1
	}
	return f
}

// Download fetches an image over HTTP into a temporary file.
// onStatus is called when the phase changes and periodically while bytes
// arrive. Returns the path to the temp file, a display name, and a cleanup
// function.
func Download(ctx context.Context, rawURL string, onStatus func(DownloadStatus)) (string, string, func(), error) {
	report := func(s DownloadStatus) {
		if onStatus != nil {
			onStatus(s)
		}
	}

	target, err := normalizeAndValidateURL(rawURL)
	if err != nil {
		return "", "", nil, err
	}

	report(DownloadStatus{Phase: "Connecting...", Total: -1})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", "", nil, err
	}
	req.Header.Set("User-Agent", "climg")
	req.Header.Set("Accept", "image/*")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", "", nil, fmt.Errorf("fetching %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", "", nil, fmt.Errorf("fetching %s: %s", target, resp.Status)
	}
	contentType := normalizeContentType(resp.Header.Get("Content-Type"))
	if isDocumentContentType(contentType) {
		return "", "", nil, fmt.Errorf("%w: got %s", ErrNotImage, contentType)
	}
	if resp.ContentLength > MaxImageBytes {
		return "", "", nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, resp.ContentLength, MaxImageBytes)
	}

	finalURL := target
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	name := nameFromURL(finalURL, contentType)

	tmpFile, err := os.CreateTemp("", "climg-*"+filepath.Ext(name))
	if err != nil {
		return "", "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	cleanup := func() {
		os.Remove(tmpPath)
	}

	status := DownloadStatus{Phase: "Downloading...", Total: resp.ContentLength}
	report(status)

	pr := &progressReader{r: io.LimitReader(resp.Body, MaxImageBytes+1), onRead: func(n int64) {
		status.Downloaded = n
		report(status)
	}}
	n, err := io.Copy(tmpFile, pr)
	closeErr := tmpFile.Close()
	if err != nil {
		cleanup()
		return "", "", nil, fmt.Errorf("downloading %s: %w", finalURL, err)
	}
	if closeErr != nil {
		cleanup()
		return "", "", nil, fmt.Errorf("writing temp file: %w", closeErr)
	}
	if n > MaxImageBytes {
		cleanup()
		return "", "", nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, MaxImageBytes)
	}

	status.Phase = "Done"
	status.Downloaded = n
	report(status)
	return tmpPath, name, cleanup, nil
}

// progressReader reports the running byte count every statusInterval bytes.
type progressReader struct {
	r        io.Reader
	n        int64
	reported int64
	onRead   func(int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.n += int64(n)
	if p.n-p.reported >= statusInterval {
		p.reported = p.n
		p.onRead(p.n)
	}
	return n, err
}
