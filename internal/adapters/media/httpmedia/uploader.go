package httpmedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/vidverse/vidverse_backend/internal/core/domain"
	portssvc "github.com/vidverse/vidverse_backend/internal/core/ports/services"
)

// Uploader pushes local files to the remote media host over HTTP multipart.
// The host responds with a JSON body carrying the hosted asset URL.
type Uploader struct {
	uploadURL string
	client    *http.Client
}

// NewUploader creates an Uploader for the given media host endpoint.
func NewUploader(uploadURL string) *Uploader {
	return &Uploader{
		uploadURL: uploadURL,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

var _ portssvc.MediaUploaderSvc = (*Uploader)(nil)

// Upload sends the file at localPath to the media host and returns the
// hosted asset. The local scratch file is removed after the attempt, whether
// it succeeded or not.
func (u *Uploader) Upload(ctx context.Context, localPath string) (domain.MediaAsset, error) {
	defer os.Remove(localPath)

	if u.uploadURL == "" {
		return domain.MediaAsset{}, fmt.Errorf("media upload URL is not configured")
	}

	file, err := os.Open(localPath)
	if err != nil {
		return domain.MediaAsset{}, fmt.Errorf("failed to open upload file: %w", err)
	}
	defer file.Close()

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		part, err := writer.CreateFormFile("file", filepath.Base(localPath))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL, pr)
	if err != nil {
		return domain.MediaAsset{}, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return domain.MediaAsset{}, fmt.Errorf("media host upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return domain.MediaAsset{}, fmt.Errorf("media host returned non-success status: %s", resp.Status)
	}

	var asset domain.MediaAsset
	if err := json.NewDecoder(resp.Body).Decode(&asset); err != nil {
		return domain.MediaAsset{}, fmt.Errorf("failed to decode media host response: %w", err)
	}
	if asset.URL == "" {
		return domain.MediaAsset{}, fmt.Errorf("media host response missing asset url")
	}

	return asset, nil
}
