package checks

import (
	"context"
	"fmt"

	"match-calendar/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// StorageReport describes the publishing bucket.
type StorageReport struct {
	Bucket       string `json:"bucket"`
	BucketExists bool   `json:"bucket_exists"`
	Object       string `json:"object"`
	Published    bool   `json:"published"`
	Size         int64  `json:"size,omitempty"`
	Status       string `json:"status"` // "ok", "missing"
}

// CheckStorage verifies the bucket and the published calendar object.
func CheckStorage(ctx context.Context, client storage.Client, bucket, object string) (*StorageReport, error) {
	report := &StorageReport{Bucket: bucket, Object: object, Status: "ok"}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.BucketExists = exists
	if !exists {
		report.Status = "missing"
		return report, nil
	}

	info, err := client.StatObject(ctx, bucket, object, minio.StatObjectOptions{})
	if storage.IsNotFound(err) {
		report.Status = "missing"
		return report, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", object, err)
	}
	report.Published = true
	report.Size = info.Size
	return report, nil
}

// FixStorage creates the bucket when it is missing.
func FixStorage(ctx context.Context, client storage.Client, bucket, region string, logger *zap.Logger) error {
	if err := storage.EnsureBucket(ctx, client, bucket, region); err != nil {
		logger.Error("Failed to create bucket", zap.String("bucket", bucket), zap.Error(err))
		return err
	}
	logger.Info("Bucket ready", zap.String("bucket", bucket))
	return nil
}
