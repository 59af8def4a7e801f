// Package blob selects the store uploaded images are written to.
package blob

import (
	"context"
	"fmt"

	"github.com/Sonukathat/shiwansh-project/internal/blob/core"
	"github.com/Sonukathat/shiwansh-project/internal/blob/fs"
	"github.com/Sonukathat/shiwansh-project/internal/blob/s3"
	"github.com/Sonukathat/shiwansh-project/internal/config"
)

// Open returns the core.Store named by cfg.Blob.Driver.
func Open(ctx context.Context, cfg *config.Config) (core.Store, error) {
	switch cfg.Blob.Driver {
	case "", config.BlobFilesystem:
		return fs.New(cfg.Blob.Root)
	case config.BlobS3:
		return s3.New(ctx, s3.Config{
			Region:          cfg.Blob.S3.Region,
			Bucket:          cfg.Blob.S3.Bucket,
			Endpoint:        cfg.Blob.S3.Endpoint,
			AccessKeyID:     cfg.Blob.S3.AccessKeyID,
			SecretAccessKey: cfg.Blob.S3.SecretAccessKey,
			PathStyle:       cfg.Blob.S3.PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Blob.Driver)
	}
}
