// Package archive stores an audit trail of raw signal submissions and
// generated recovery reports in blob storage. Archival is best-effort:
// callers log failures and move on, scoring never blocks on it.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vitalsign/vitalsign/pkg/config"
)

// StorageClient abstracts blob storage for signal snapshots and
// recovery reports.
type StorageClient interface {
	PutSignals(ctx context.Context, customerID, snapshotID string, data []byte) error
	GetSignals(ctx context.Context, customerID, snapshotID string) ([]byte, error)
	PutReport(ctx context.Context, reportID string, data []byte) error
	GetReport(ctx context.Context, reportID string) ([]byte, error)
}

// New creates the storage backend selected by the configuration.
func New(ctx context.Context, cfg config.ArchiveConfig) (StorageClient, error) {
	switch cfg.Backend {
	case "local":
		return NewLocalStorage(cfg.Dir), nil
	case "s3":
		return NewS3Storage(ctx, S3Config{
			Bucket:   cfg.Bucket,
			Prefix:   cfg.Prefix,
			Region:   cfg.Region,
			Endpoint: cfg.Endpoint,
		})
	case "gcs":
		return NewGCSStorage(ctx, cfg.Bucket, cfg.Prefix)
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Backend)
	}
}

// LocalStorage implements StorageClient using the local filesystem.
// Useful for development and testing.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) put(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// PutSignals stores one raw signal submission for a customer.
func (s *LocalStorage) PutSignals(ctx context.Context, customerID, snapshotID string, data []byte) error {
	return s.put(filepath.Join(s.BaseDir, "customers", customerID, "signals", snapshotID+".json"), data)
}

// GetSignals retrieves an archived signal submission.
func (s *LocalStorage) GetSignals(ctx context.Context, customerID, snapshotID string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.BaseDir, "customers", customerID, "signals", snapshotID+".json"))
}

// PutReport stores a generated recovery report.
func (s *LocalStorage) PutReport(ctx context.Context, reportID string, data []byte) error {
	return s.put(filepath.Join(s.BaseDir, "reports", reportID+".json"), data)
}

// GetReport retrieves an archived recovery report.
func (s *LocalStorage) GetReport(ctx context.Context, reportID string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.BaseDir, "reports", reportID+".json"))
}
