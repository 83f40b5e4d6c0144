package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/awsl-project/dontcaught/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SystemSettingRepository struct {
	db *DB
	// now is replaced in tests
	now func() time.Time
}

func NewSystemSettingRepository(db *DB) *SystemSettingRepository {
	return &SystemSettingRepository{db: db, now: time.Now}
}

// keyEq quotes the column name; "key" is reserved in MySQL
func keyEq(key string) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: "key"}, Value: key}
}

func (r *SystemSettingRepository) Get(ctx context.Context, key string) (*domain.SystemSetting, error) {
	var model AppSetting
	err := r.db.gorm.WithContext(ctx).Where(keyEq(key)).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r.toDomain(&model), nil
}

// Set 插入或覆盖（upsert），updated_at 由存储层赋值
func (r *SystemSettingRepository) Set(ctx context.Context, key, value string) error {
	model := &AppSetting{
		Key:       key,
		Value:     value,
		UpdatedAt: Timestamp(r.now().UTC()),
	}
	return r.db.gorm.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(model).Error
}

func (r *SystemSettingRepository) GetAll(ctx context.Context) ([]*domain.SystemSetting, error) {
	var models []AppSetting
	if err := r.db.gorm.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&models).Error; err != nil {
		return nil, err
	}
	settings := make([]*domain.SystemSetting, len(models))
	for i := range models {
		settings[i] = r.toDomain(&models[i])
	}
	return settings, nil
}

func (r *SystemSettingRepository) Delete(ctx context.Context, key string) error {
	return r.db.gorm.WithContext(ctx).Where(keyEq(key)).Delete(&AppSetting{}).Error
}

func (r *SystemSettingRepository) toDomain(m *AppSetting) *domain.SystemSetting {
	return &domain.SystemSetting{
		Key:       m.Key,
		Value:     m.Value,
		UpdatedAt: m.UpdatedAt.Time(),
	}
}
