package storage

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/shopadmin/config"
)

// Open builds the disk named by driver ("local" or "s3") from config.
func Open(ctx context.Context, driver string) (Disk, error) {
	switch driver {
	case "", "local":
		return NewLocal(config.UploadsDir(), localBaseURL())
	case "s3":
		return NewS3(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
			Prefix:   config.Get("S3_PREFIX", "uploads"),
		})
	default:
		return nil, fmt.Errorf("storage: unknown disk %q (supported: local, s3)", driver)
	}
}

// localBaseURL is PUBLIC_URL/uploads when set, else root-relative.
func localBaseURL() string {
	if pub := config.PublicURL(); pub != "" {
		return pub + "/uploads"
	}
	return "/uploads"
}
