package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"calctl/core/config"
	"calctl/core/errors"
	"calctl/core/logger"
	"calctl/core/storage"
	"calctl/modules/event/repository"
)

// BackupService writes timestamped snapshots of the event collection to the
// backup directory and, when configured, uploads them to S3. Snapshots are
// taken from the repository, so they work the same for every storage driver.
type BackupService struct {
	repo repository.EventRepositoryInterface
	cfg  config.BackupConfig
	s3   *storage.S3Client
}

// BackupResult reports one completed backup.
type BackupResult struct {
	Path     string `json:"path"`
	Count    int    `json:"count"`
	Uploaded bool   `json:"uploaded"`
}

// BackupServiceInterface defines the backup contract.
type BackupServiceInterface interface {
	Run(ctx context.Context) (*BackupResult, *errors.AppError)
}

func NewBackupService(repo repository.EventRepositoryInterface, cfg config.BackupConfig) BackupServiceInterface {
	svc := &BackupService{
		repo: repo,
		cfg:  cfg,
	}
	if cfg.S3 != nil && cfg.S3.Bucket != "" {
		svc.s3 = storage.NewS3Client(cfg.S3)
	}
	return svc
}

// Run takes one snapshot now.
func (s *BackupService) Run(ctx context.Context) (*BackupResult, *errors.AppError) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "Failed to load events", err)
	}

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to serialize events", err)
	}

	if err := os.MkdirAll(s.cfg.Dir, 0o700); err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "Failed to create backup directory", err)
	}

	name := "events-" + time.Now().Format("20060102-150405") + ".json"
	path := filepath.Join(s.cfg.Dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "Failed to write backup", err)
	}

	result := &BackupResult{
		Path:  path,
		Count: len(events),
	}

	if s.s3 != nil {
		if err := s.s3.Upload(ctx, name, data); err != nil {
			// The local snapshot is already on disk; report the upload
			// failure without undoing it.
			return result, errors.NewAppError(errors.ErrStorage, "Snapshot saved locally but S3 upload failed", err)
		}
		result.Uploaded = true
	}

	logger.Info("backup completed", "path", path, "events", result.Count, "uploaded", result.Uploaded)
	return result, nil
}
