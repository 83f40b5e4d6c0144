package sqlite

import (
	"database/sql/driver"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Timestamp 是跨数据库兼容的时间列
// SQLite 中旧版本通过 datetime('now') 写入的是文本 "2006-01-02 15:04:05"，
// 扫描时需要同时兼容 time.Time、文本和 Unix 秒
type Timestamp time.Time

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	time.RFC3339Nano,
}

// GormDBDataType 根据不同的数据库返回合适的类型
func (Timestamp) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "DATETIME(3)"
	case "postgres":
		return "TIMESTAMPTZ"
	default:
		return "DATETIME"
	}
}

// Value 实现 driver.Valuer 接口
func (t Timestamp) Value() (driver.Value, error) {
	tt := time.Time(t)
	if tt.IsZero() {
		return nil, nil
	}
	return tt.UTC(), nil
}

// Scan 实现 sql.Scanner 接口
func (t *Timestamp) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*t = Timestamp{}
		return nil
	case time.Time:
		*t = Timestamp(v)
		return nil
	case int64:
		*t = Timestamp(time.Unix(v, 0).UTC())
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("unsupported Timestamp scan type %T", value)
	}
}

func (t *Timestamp) parse(s string) error {
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = Timestamp(parsed)
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", s)
}

// Time returns the value as time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}
