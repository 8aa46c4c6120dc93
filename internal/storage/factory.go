package storage

import (
	"fmt"
	"strings"
	"time"

	"fleettrack/internal/config"

	"github.com/google/uuid"
)

// New creates the storage backend named by the configuration.
func New(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "local", "":
		basePath := cfg.LocalPath
		if basePath == "" {
			basePath = "./documents"
		}
		return NewLocalStorage(basePath)

	case "s3":
		if cfg.S3Bucket == "" || cfg.S3Region == "" {
			return nil, fmt.Errorf("s3 storage requires STORAGE_S3_BUCKET and STORAGE_S3_REGION")
		}
		return NewS3Storage(cfg.S3Bucket, cfg.S3Region)

	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// buildKey generates a storage key: assignment_id/year/month/uuid_filename.
func buildKey(assignmentID uuid.UUID, filename string) string {
	now := time.Now()
	return fmt.Sprintf("%s/%d/%02d/%s_%s",
		assignmentID.String(),
		now.Year(),
		now.Month(),
		uuid.New().String(),
		sanitizeFilename(filename),
	)
}

// sanitizeFilename strips path separators and other unsafe characters.
func sanitizeFilename(filename string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		"..", "_",
		" ", "_",
	)
	return replacer.Replace(filename)
}
