package storage

import (
	"context"
	"time"
)

// ObjectInfo is the listing metadata for one stored export file.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStorage is the minimal S3-compatible surface the report export and
// seed download flows need. Nil is a valid value for a deployment without a
// bucket; callers treat it as "exports disabled".
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	DownloadObject(ctx context.Context, key string, destPath string) error
	UploadObject(ctx context.Context, key string, data []byte) error
}
