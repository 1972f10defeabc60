package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config описывает настройки приложения: путь к файлу базы,
// логирование и адрес служебного HTTP-сервера.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Export   ExportConfig   `yaml:"export"`
	Backup   BackupConfig   `yaml:"backup"`
}

// DatabaseConfig — настройки хранилища.
type DatabaseConfig struct {
	// Path — путь к единственному файлу базы. Каталог создаётся при старте.
	Path string `yaml:"path"`
}

// LogConfig — настройки логирования.
type LogConfig struct {
	Level string `yaml:"level"`
	// File — путь к файлу логов; пустое значение пишет только в stderr.
	File string `yaml:"file"`
}

// MetricsConfig — настройки служебного HTTP-сервера (метрики и health).
type MetricsConfig struct {
	// Addr — адрес вида ":9090"; пустое значение отключает сервер.
	Addr string `yaml:"addr"`
}

// ExportConfig — каталог по умолчанию для CSV-выгрузок.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// BackupConfig — каталог по умолчанию для резервных копий базы.
type BackupConfig struct {
	Dir string `yaml:"dir"`
}

// Default возвращает конфигурацию по умолчанию: база в ~/.powerlock,
// уровень info, служебный сервер выключен.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".powerlock")
	return Config{
		Database: DatabaseConfig{Path: filepath.Join(base, "powerlock.db")},
		Log:      LogConfig{Level: "info"},
		Export:   ExportConfig{Dir: filepath.Join(base, "exports")},
		Backup:   BackupConfig{Dir: filepath.Join(base, "backups")},
	}
}

// Load читает конфигурацию из YAML-файла и накладывает переменные
// окружения. Пустой путь пропускает файл и использует значения по
// умолчанию плюс окружение.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if cfg.Database.Path == "" {
		return Config{}, fmt.Errorf("database path is required")
	}

	return cfg, nil
}

// applyEnv переопределяет настройки переменными окружения POWERLOCK_*.
func (c *Config) applyEnv() {
	if v := os.Getenv("POWERLOCK_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("POWERLOCK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("POWERLOCK_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("POWERLOCK_METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv("POWERLOCK_EXPORT_DIR"); v != "" {
		c.Export.Dir = v
	}
	if v := os.Getenv("POWERLOCK_BACKUP_DIR"); v != "" {
		c.Backup.Dir = v
	}
}
