package domain

import "time"

// BackupVersion current backup format version
const BackupVersion = "1.0"

// BackupFile represents the complete backup structure
type BackupFile struct {
	Version    string     `json:"version"`
	ExportedAt time.Time  `json:"exportedAt"`
	AppVersion string     `json:"appVersion"`
	Data       BackupData `json:"data"`
}

// BackupData contains all exportable entities
type BackupData struct {
	Settings []BackupSetting `json:"settings,omitempty"`
}

// BackupSetting represents a persisted setting for backup
type BackupSetting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Conflict strategies for import
const (
	ConflictSkip      = "skip"
	ConflictOverwrite = "overwrite"
	ConflictError     = "error"
)

// ImportOptions defines options for import operation
type ImportOptions struct {
	ConflictStrategy string `json:"conflictStrategy"` // "skip", "overwrite", "error"
	DryRun           bool   `json:"dryRun"`
}

// ImportSummary contains counts for a single entity type
type ImportSummary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Updated  int `json:"updated"`
}

// ImportResult contains the result of an import operation
type ImportResult struct {
	Success  bool                     `json:"success"`
	Summary  map[string]ImportSummary `json:"summary"`
	Errors   []string                 `json:"errors"`
	Warnings []string                 `json:"warnings"`
}

// NewImportResult creates a new ImportResult with initialized fields
func NewImportResult() *ImportResult {
	return &ImportResult{
		Success:  true,
		Summary:  make(map[string]ImportSummary),
		Errors:   []string{},
		Warnings: []string{},
	}
}
