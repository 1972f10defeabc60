package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/antonkravchenko/powerlock/internal/backup"
	"github.com/antonkravchenko/powerlock/internal/config"
	"github.com/antonkravchenko/powerlock/internal/export"
	"github.com/antonkravchenko/powerlock/internal/service/customers"
	"github.com/antonkravchenko/powerlock/internal/service/inventory"
	"github.com/antonkravchenko/powerlock/internal/service/orders"
	"github.com/antonkravchenko/powerlock/internal/storage/sqlite"
)

// Dependencies собирает репозитории и сервисы поверх открытого хранилища.
// Встраиваемый интерфейс (CLI, десктоп) работает через эти сервисы.
type Dependencies struct {
	Store     *sqlite.Store
	Customers *customers.Service
	Inventory *inventory.Service
	Orders    *orders.Service

	exportDir string
	backupDir string
}

// BuildDependencies связывает слои: репозитории sqlite и сервисы над ними.
func BuildDependencies(store *sqlite.Store, cfg config.Config, logger *log.Entry) *Dependencies {
	customerRepo := sqlite.NewCustomerRepository(store)
	boltRepo := sqlite.NewBoltRepository(store)
	orderRepo := sqlite.NewOrderRepository(store)
	statsRepo := sqlite.NewStatsRepository(store)

	return &Dependencies{
		Store:     store,
		Customers: customers.NewService(customerRepo, logger.WithField("component", "customers")),
		Inventory: inventory.NewService(boltRepo, logger.WithField("component", "inventory")),
		Orders: orders.NewService(
			orderRepo,
			boltRepo,
			customerRepo,
			statsRepo,
			logger.WithField("component", "orders"),
		),
		exportDir: cfg.Export.Dir,
		backupDir: cfg.Backup.Dir,
	}
}

// ExportAll выгружает клиентов, склад и заказы в CSV-файлы в каталоге
// экспорта и возвращает пути созданных файлов.
func (d *Dependencies) ExportAll() ([]string, error) {
	if err := os.MkdirAll(d.exportDir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	customerList, err := d.Customers.List("")
	if err != nil {
		return nil, err
	}
	boltList, err := d.Inventory.List("")
	if err != nil {
		return nil, err
	}
	orderList, err := d.Orders.List("")
	if err != nil {
		return nil, err
	}

	files := []struct {
		name    string
		columns []string
		rows    [][]string
	}{
		{"customers.csv", export.CustomerColumns, export.CustomerRows(customerList)},
		{"bolts.csv", export.BoltColumns, export.BoltRows(boltList)},
		{"orders.csv", export.OrderColumns, export.OrderRows(orderList)},
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(d.exportDir, f.name)
		if err := export.WriteFile(path, f.columns, f.rows); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// ExportStatisticsReport пишет текстовый отчёт по сводной статистике
// заказов в каталог экспорта и возвращает путь файла.
func (d *Dependencies) ExportStatisticsReport() (string, error) {
	if err := os.MkdirAll(d.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	stats, err := d.Orders.Statistics()
	if err != nil {
		return "", err
	}

	path := filepath.Join(d.exportDir, "statistics.txt")
	if err := export.WriteReportFile(path, time.Now(), export.StatsSections(stats)); err != nil {
		return "", err
	}

	return path, nil
}

// BackupDatabase копирует файл базы в каталог резервных копий и
// возвращает путь созданной копии.
func (d *Dependencies) BackupDatabase() (string, error) {
	if err := os.MkdirAll(d.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	dest := filepath.Join(d.backupDir, backup.DefaultName(time.Now()))
	if err := backup.Backup(d.Store.Path(), dest); err != nil {
		return "", err
	}

	return dest, nil
}
