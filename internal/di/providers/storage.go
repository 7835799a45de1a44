package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/hagigaapp/hagiga-server/internal/config"
	"github.com/hagigaapp/hagiga-server/internal/logger"
	"github.com/hagigaapp/hagiga-server/internal/media/files"
)

// ProvideFileStorage provides the object storage backend for media and
// staged imports, local disk or S3 per configuration.
func ProvideFileStorage(i do.Injector) (files.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Storage.Driver == "s3" {
		if cfg.Storage.S3Bucket == "" {
			// Incomplete S3 config falls back to local rather than failing boot.
			log.Warn("S3 driver selected but no bucket configured, falling back to local storage")
		} else {
			storage, err := files.NewS3(context.Background(), files.S3Config{
				Bucket: cfg.Storage.S3Bucket,
				Prefix: cfg.Storage.S3Prefix,
				Region: cfg.Storage.S3Region,
			}, log.Logger)
			if err != nil {
				return nil, fmt.Errorf("s3 storage: %w", err)
			}
			log.Info("S3 storage initialized", "bucket", cfg.Storage.S3Bucket, "region", cfg.Storage.S3Region)
			return storage, nil
		}
	}

	storage, err := files.NewLocal(cfg.Storage.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("local storage: %w", err)
	}
	log.Info("Local storage initialized", "path", cfg.Storage.LocalPath)
	return storage, nil
}
