// Package storage abstracts object storage for uploaded invoice files.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/invoxa/invoice-manager/pkg/logger"
	"github.com/invoxa/invoice-manager/pkg/storage/minio"
	"github.com/invoxa/invoice-manager/pkg/storage/s3"
)

type StorageType string

const (
	StorageTypeS3    StorageType = "s3"
	StorageTypeMinio StorageType = "minio"
)

// Storage stores and retrieves raw invoice files by key.
type Storage interface {
	// Store uploads the file and returns its key.
	Store(ctx context.Context, reader io.Reader, filename string) (string, error)
	// Get opens the stored file.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the stored file.
	Delete(ctx context.Context, key string) error
	// CleanupBefore removes files last modified before threshold.
	CleanupBefore(ctx context.Context, threshold time.Time) error
}

// NewStorage builds the backend selected by STORAGE_TYPE.
func NewStorage(storageType StorageType, logger logger.Logger) (Storage, error) {
	switch storageType {
	case StorageTypeS3:
		return s3.GetClient(logger)
	case StorageTypeMinio:
		return minio.GetClient(logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}
