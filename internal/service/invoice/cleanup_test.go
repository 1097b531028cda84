package invoice

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoxa/invoice-manager/pkg/logger"
)

type fakeStorage struct {
	cleanupThreshold time.Time
	cleanupCalls     int
	cleanupErr       error
}

func (f *fakeStorage) Store(ctx context.Context, reader io.Reader, filename string) (string, error) {
	return filename, nil
}

func (f *fakeStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	return nil
}

func (f *fakeStorage) CleanupBefore(ctx context.Context, threshold time.Time) error {
	f.cleanupCalls++
	f.cleanupThreshold = threshold
	return f.cleanupErr
}

func TestCleanupFiles(t *testing.T) {
	store := &fakeStorage{}
	svc := NewService(nil, nil, store, nil, logger.NewTestLogger(), nil)

	retention := 30 * 24 * time.Hour
	require.NoError(t, svc.CleanupFiles(context.Background(), retention))

	assert.Equal(t, 1, store.cleanupCalls)
	assert.WithinDuration(t, time.Now().Add(-retention), store.cleanupThreshold, time.Minute)
}

func TestCleanupFilesStorageError(t *testing.T) {
	store := &fakeStorage{cleanupErr: errors.New("bucket unavailable")}
	svc := NewService(nil, nil, store, nil, logger.NewTestLogger(), nil)

	err := svc.CleanupFiles(context.Background(), 24*time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket unavailable")
}
