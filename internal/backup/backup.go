package backup

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Backup копирует файл базы целиком в выбранное пользователем место.
func Backup(dbPath, destPath string) error {
	if err := copyFile(dbPath, destPath); err != nil {
		return fmt.Errorf("backup database: %w", err)
	}
	return nil
}

// Restore заменяет файл базы резервной копией. Открытые подключения
// продолжают видеть старый файл: изменения вступают в силу только
// после перезапуска приложения.
func Restore(srcPath, dbPath string) error {
	if err := copyFile(srcPath, dbPath); err != nil {
		return fmt.Errorf("restore database: %w", err)
	}
	return nil
}

// DefaultName возвращает имя резервной копии с отметкой времени.
func DefaultName(t time.Time) string {
	return fmt.Sprintf("backup_%s.db", t.Format("20060102_150405"))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}
