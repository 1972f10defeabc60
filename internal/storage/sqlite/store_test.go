package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/antonkravchenko/powerlock/internal/domain"
)

// newTestStore открывает базу во временном файле и применяет миграции.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store failed: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.MigrateUp(ctx, 0); err != nil {
		t.Fatalf("migrate up failed: %v", err)
	}

	return store
}

func TestMigrator_UpStatusDown(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open store failed: %v", err)
	}
	defer store.Close()

	if err := store.MigrateUp(ctx, 0); err != nil {
		t.Fatalf("migrate up failed: %v", err)
	}

	version, count, err := store.MigrationStatus(ctx)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if version == 0 || count == 0 {
		t.Fatalf("expected applied migrations, got version=%d count=%d", version, count)
	}

	// Повторный прогон идемпотентен.
	if err := store.MigrateUp(ctx, 0); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}
	version2, count2, err := store.MigrationStatus(ctx)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if version2 != version || count2 != count {
		t.Errorf("reapply changed status: %d/%d -> %d/%d", version, count, version2, count2)
	}

	if err := store.MigrateDown(ctx, count); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}
	version3, count3, err := store.MigrationStatus(ctx)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if version3 != 0 || count3 != 0 {
		t.Errorf("expected clean state, got version=%d count=%d", version3, count3)
	}
}

func TestStore_Ping(t *testing.T) {
	store := newTestStore(t)
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestOrderClause(t *testing.T) {
	allowed := map[string]bool{"id": true, "name": true}

	tests := []struct {
		name      string
		requested string
		want      string
		wantErr   bool
	}{
		{name: "empty uses fallback", requested: "", want: "name"},
		{name: "plain column", requested: "id", want: "id"},
		{name: "column with direction", requested: "id DESC", want: "id DESC"},
		{name: "lowercase direction", requested: "name asc", want: "name ASC"},
		{name: "unknown column", requested: "phone", wantErr: true},
		{name: "injection attempt", requested: "id; DROP TABLE customers", wantErr: true},
		{name: "bad direction", requested: "id SIDEWAYS", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := orderClause(tt.requested, "name", allowed)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidOrderColumn) {
					t.Fatalf("expected ErrInvalidOrderColumn, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	got, err := parseTime("2026-01-15 10:30:00")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// RFC3339 принимается как запасной формат.
	if _, err := parseTime("2026-01-15T10:30:00Z"); err != nil {
		t.Errorf("rfc3339 should parse: %v", err)
	}

	if _, err := parseTime("yesterday"); err == nil {
		t.Error("expected error for garbage input")
	}

	zero, err := parseTime("")
	if err != nil {
		t.Fatalf("empty should parse: %v", err)
	}
	if !zero.IsZero() {
		t.Errorf("expected zero time, got %v", zero)
	}
}
