package storage

import "context"

// ObjectStorage captures the minimal S3-compatible operations the import
// archive needs.
type ObjectStorage interface {
	UploadFile(ctx context.Context, key string, srcPath string) error
}
