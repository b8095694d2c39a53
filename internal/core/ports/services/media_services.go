package services

import (
	"context"

	"github.com/vidverse/vidverse_backend/internal/core/domain"
)

// MediaUploaderSvc pushes a local file to the remote media host and returns
// the hosted asset. The local file is removed after the attempt either way.
type MediaUploaderSvc interface {
	Upload(ctx context.Context, localPath string) (domain.MediaAsset, error)
}
