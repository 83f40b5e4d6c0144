package sqlite

// AppSetting is a row of app_settings. The table name, the key column and the
// "true"/"false" value literals are shared with data written by earlier
// releases and must not change.
type AppSetting struct {
	Key       string    `gorm:"column:key;primaryKey;size:128"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt Timestamp `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (AppSetting) TableName() string {
	return "app_settings"
}

// AllModels returns every model handled by auto-migration
func AllModels() []any {
	return []any{
		&AppSetting{},
	}
}
