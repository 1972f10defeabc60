package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite3 "modernc.org/sqlite"

	"github.com/antonkravchenko/powerlock/internal/domain"
)

const (
	defaultConnTimeout = 5 * time.Second
	opTimeout          = 5 * time.Second

	// timeFormat совпадает с форматом CURRENT_TIMESTAMP в SQLite,
	// чтобы значения из Go и из DEFAULT-выражений сортировались одинаково.
	timeFormat = "2006-01-02 15:04:05"
)

// Store оборачивает SQL-подключение к файлу SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open открывает файл базы и проверяет его доступность.
// Подключение одно на процесс: каждая операция выполняется в собственной
// транзакции, ничего не удерживается между операциями.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		path,
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// DB возвращает raw SQL DB, когда нужен низкоуровневый доступ.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path возвращает путь к файлу базы (нужен для backup/restore).
func (s *Store) Path() string {
	return s.path
}

// Ping проверяет доступность подключения.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlite store is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	return s.db.PingContext(pingCtx)
}

// EnsureSchema применяет все up-миграции.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return s.MigrateUp(ctx, 0)
}

// Close закрывает подключение к БД.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func nowText() string {
	return time.Now().UTC().Format(timeFormat)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

// parseTime разбирает отметку времени из колонки TIMESTAMP.
// Помимо собственного формата принимает RFC3339 на случай строк,
// записанных сторонними инструментами.
func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation(timeFormat, raw, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", raw, err)
	}
	return t.UTC(), nil
}

// isConstraintViolation распознаёт любое нарушение ограничений SQLite:
// низший байт расширенного кода всегда SQLITE_CONSTRAINT (19).
func isConstraintViolation(err error) bool {
	var serr *sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code()&0xff == 19
	}
	return false
}

// orderClause валидирует пользовательскую сортировку по белому списку колонок.
// Оригинальная схема подставляла её в запрос как есть; здесь это закрыто.
func orderClause(requested, fallback string, allowed map[string]bool) (string, error) {
	if requested == "" {
		return fallback, nil
	}

	column := requested
	direction := ""
	if i := indexSpace(requested); i > 0 {
		column = requested[:i]
		switch requested[i+1:] {
		case "ASC", "asc":
			direction = " ASC"
		case "DESC", "desc":
			direction = " DESC"
		default:
			return "", fmt.Errorf("%w: %s", domain.ErrInvalidOrderColumn, requested)
		}
	}

	if !allowed[column] {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidOrderColumn, column)
	}

	return column + direction, nil
}

func indexSpace(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			return i
		}
	}
	return -1
}
