package repository

import (
	"context"

	"github.com/awsl-project/dontcaught/internal/domain"
)

// SystemSettingRepository is the durable key/value store behind app_settings.
type SystemSettingRepository interface {
	// Get returns domain.ErrNotFound when no row exists for key
	Get(ctx context.Context, key string) (*domain.SystemSetting, error)
	// Set upserts key with value; updated_at is assigned by the store
	Set(ctx context.Context, key, value string) error
	GetAll(ctx context.Context) ([]*domain.SystemSetting, error)
	Delete(ctx context.Context, key string) error
}

// FallbackRepository is the best-effort local mirror used when the durable
// store cannot be reached. Implementations never surface write failures.
type FallbackRepository interface {
	// GetBool returns the mirrored value of key, or def if it was never written
	GetBool(key string, def bool) bool
	SetBool(key string, value bool)
}
