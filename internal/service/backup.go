package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/awsl-project/dontcaught/internal/domain"
	"github.com/awsl-project/dontcaught/internal/prefsync"
	"github.com/awsl-project/dontcaught/internal/repository"
	"github.com/awsl-project/dontcaught/internal/version"
)

// BackupService handles backup export and import operations
type BackupService struct {
	settingRepo repository.SystemSettingRepository
	page        *prefsync.Page
}

// NewBackupService creates a new backup service. Imported values for keys
// registered on page go through the page so the host effect and the UI follow.
func NewBackupService(settingRepo repository.SystemSettingRepository, page *prefsync.Page) *BackupService {
	return &BackupService{
		settingRepo: settingRepo,
		page:        page,
	}
}

// Export exports all persisted settings to a backup file
func (s *BackupService) Export(ctx context.Context) (*domain.BackupFile, error) {
	backup := &domain.BackupFile{
		Version:    domain.BackupVersion,
		ExportedAt: time.Now(),
		AppVersion: version.Version,
	}

	settings, err := s.settingRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export settings: %w", err)
	}
	for _, setting := range settings {
		backup.Data.Settings = append(backup.Data.Settings, domain.BackupSetting{
			Key:   setting.Key,
			Value: setting.Value,
		})
	}
	return backup, nil
}

// Import imports settings from a backup file
func (s *BackupService) Import(ctx context.Context, backup *domain.BackupFile, opts domain.ImportOptions) (*domain.ImportResult, error) {
	if backup == nil {
		return nil, fmt.Errorf("backup is empty")
	}
	if backup.Version != domain.BackupVersion {
		return nil, fmt.Errorf("unsupported backup version: %s", backup.Version)
	}
	switch opts.ConflictStrategy {
	case "", domain.ConflictSkip, domain.ConflictOverwrite, domain.ConflictError:
	default:
		return nil, fmt.Errorf("unknown conflict strategy: %s", opts.ConflictStrategy)
	}

	result := domain.NewImportResult()
	summary := domain.ImportSummary{}

	for _, bs := range backup.Data.Settings {
		_, err := s.settingRepo.Get(ctx, bs.Key)
		exists := err == nil
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("Setting '%s': %v", bs.Key, err))
			continue
		}

		if exists {
			switch opts.ConflictStrategy {
			case domain.ConflictSkip, "":
				summary.Skipped++
				continue
			case domain.ConflictOverwrite:
			case domain.ConflictError:
				result.Success = false
				result.Errors = append(result.Errors, fmt.Sprintf("Setting conflict: key '%s' already exists", bs.Key))
				result.Summary["settings"] = summary
				return result, nil
			}
		}

		if !opts.DryRun {
			if err := s.apply(ctx, bs); err != nil {
				result.Success = false
				result.Errors = append(result.Errors, fmt.Sprintf("Setting '%s': %v", bs.Key, err))
				continue
			}
		}
		if exists {
			summary.Updated++
		} else {
			summary.Imported++
		}
	}

	result.Summary["settings"] = summary
	return result, nil
}

func (s *BackupService) apply(ctx context.Context, bs domain.BackupSetting) error {
	if s.page != nil {
		if _, ok := s.page.Get(bs.Key); ok {
			value, _ := domain.ParseBool(bs.Value)
			_, err := s.page.Toggle(ctx, bs.Key, value)
			return err
		}
	}
	return s.settingRepo.Set(ctx, bs.Key, bs.Value)
}
