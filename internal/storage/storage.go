package storage

import (
	"context"
	"io"
	"path"
	"time"
)

// Package storage archives raw hydra output in an S3-compatible object store.
// Implementations stream from readers; nothing is staged on local disk.

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; -1 lets the backend chunk.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the object store used for scan artifacts.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

const scanPrefix = "scans"

// OutputKey is where the captured stdout of a scan is archived.
func OutputKey(scanID string) string {
	return path.Join(scanPrefix, scanID, "stdout.log")
}

// ExportKey is where the hydra export file of a scan is archived; ext is "json" or "txt".
func ExportKey(scanID, ext string) string {
	return path.Join(scanPrefix, scanID, "export."+ext)
}

// ContentTypeFor maps an archive key to the content type it is stored with.
func ContentTypeFor(key string) string {
	if path.Ext(key) == ".json" {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}
