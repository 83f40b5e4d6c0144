package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/awsl-project/dontcaught/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDBWithDSN(":memory:")
	if err != nil {
		t.Fatalf("NewDBWithDSN: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSystemSettingGetMissing(t *testing.T) {
	repo := NewSystemSettingRepository(newTestDB(t))

	_, err := repo.Get(context.Background(), domain.SettingKeySkipTaskbar)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestSystemSettingUpsert(t *testing.T) {
	repo := NewSystemSettingRepository(newTestDB(t))
	ctx := context.Background()

	first := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	second := first.Add(time.Hour)

	repo.now = func() time.Time { return first }
	if err := repo.Set(ctx, domain.SettingKeySkipTaskbar, "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	repo.now = func() time.Time { return second }
	if err := repo.Set(ctx, domain.SettingKeySkipTaskbar, "false"); err != nil {
		t.Fatalf("Set (overwrite): %v", err)
	}

	got, err := repo.Get(ctx, domain.SettingKeySkipTaskbar)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Value != "false" {
		t.Errorf("Value = %q, want %q", got.Value, "false")
	}
	if !got.UpdatedAt.Equal(second) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, second)
	}

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("GetAll() returned %d rows, want 1", len(all))
	}
}

func TestSystemSettingGetAllOrdered(t *testing.T) {
	repo := NewSystemSettingRepository(newTestDB(t))
	ctx := context.Background()

	for _, key := range []string{domain.SettingKeySkipTaskbar, domain.SettingKeyAlwaysOnTop, domain.SettingKeyAutostart} {
		if err := repo.Set(ctx, key, "true"); err != nil {
			t.Fatalf("Set(%q): %v", key, err)
		}
	}

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	want := []string{domain.SettingKeyAlwaysOnTop, domain.SettingKeyAutostart, domain.SettingKeySkipTaskbar}
	if len(all) != len(want) {
		t.Fatalf("GetAll() returned %d rows, want %d", len(all), len(want))
	}
	for i, s := range all {
		if s.Key != want[i] {
			t.Errorf("GetAll()[%d].Key = %q, want %q", i, s.Key, want[i])
		}
	}
}

func TestSystemSettingDelete(t *testing.T) {
	repo := NewSystemSettingRepository(newTestDB(t))
	ctx := context.Background()

	if err := repo.Set(ctx, domain.SettingKeyAutostart, "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := repo.Delete(ctx, domain.SettingKeyAutostart); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, domain.SettingKeyAutostart); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
}

func TestSystemSettingClosedDB(t *testing.T) {
	db := newTestDB(t)
	repo := NewSystemSettingRepository(db)
	db.Close()

	_, err := repo.Get(context.Background(), domain.SettingKeySkipTaskbar)
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() on closed db error = %v, want a store error", err)
	}
	if err := repo.Set(context.Background(), domain.SettingKeySkipTaskbar, "true"); err == nil {
		t.Error("Set() on closed db succeeded, want error")
	}
}

func TestDetectDialector(t *testing.T) {
	tests := []struct {
		dsn     string
		want    string
		wantErr bool
	}{
		{"sqlite:///tmp/a.db", "sqlite", false},
		{"/tmp/a.db", "sqlite", false},
		{":memory:", "sqlite", false},
		{"mysql://u:p@tcp(localhost:3306)/db?parseTime=true", "mysql", false},
		{"host=localhost port=5432 dbname=prefs sslmode=disable", "postgres", false},
		{"redis://localhost", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			got, err := detectDialector(tt.dsn)
			if (err != nil) != tt.wantErr {
				t.Fatalf("detectDialector(%q) error = %v, wantErr %v", tt.dsn, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("detectDialector(%q) = %q, want %q", tt.dsn, got, tt.want)
			}
		})
	}
}

func TestTimestampScan(t *testing.T) {
	want := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value any
	}{
		{"sqlite datetime text", "2024-06-01 12:30:00"},
		{"bytes", []byte("2024-06-01 12:30:00")},
		{"rfc3339", "2024-06-01T12:30:00Z"},
		{"time", want},
		{"unix seconds", want.Unix()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			if err := ts.Scan(tt.value); err != nil {
				t.Fatalf("Scan(%v): %v", tt.value, err)
			}
			if !ts.Time().Equal(want) {
				t.Errorf("Scan(%v) = %v, want %v", tt.value, ts.Time(), want)
			}
		})
	}

	var ts Timestamp
	if err := ts.Scan("yesterday"); err == nil {
		t.Error("Scan(\"yesterday\") succeeded, want error")
	}
}
