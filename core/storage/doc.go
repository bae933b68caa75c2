// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the small Client interface the
// application needs: publishing the calendar feed and keeping the
// calendar-id cache in a bucket. Both AWS S3 and self-hosted MinIO work.
//
// The Client interface makes storage easy to mock in unit tests (see
// core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	err = storage.EnsureBucket(ctx, client, config.Bucket, config.Region)
package storage
