package export_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/antonkravchenko/powerlock/internal/domain"
	"github.com/antonkravchenko/powerlock/internal/export"
)

func TestWriteReport(t *testing.T) {
	stats := domain.OrderStats{
		TotalOrders: 3,
		ByStatus: map[domain.OrderStatus]int64{
			domain.OrderStatusPending: 2,
			domain.OrderStatusShipped: 1,
		},
		RecentOrders:      2,
		TotalItemsOrdered: 9,
		AvgItemsPerOrder:  3,
		TopBolts:          []domain.BoltOrderCount{{Name: "Hex Bolt", Qty: 5}},
		TopCustomers:      []domain.CustomerOrderCount{{Name: "Иванов И.И.", Orders: 3}},
	}

	generatedAt := time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC)

	var buf bytes.Buffer
	if err := export.WriteReport(&buf, generatedAt, export.StatsSections(stats)); err != nil {
		t.Fatalf("write report failed: %v", err)
	}

	report := buf.String()
	for _, want := range []string{
		"Report Generated: 2026-03-10 12:30:00",
		"Summary",
		"total_orders: 3",
		"avg_items_per_order: 3.00",
		"Orders by Status",
		"pending: 2",
		"shipped: 1",
		"Top Ordered Bolts",
		"Hex Bolt: 5",
		"Top Customers",
		"Иванов И.И.: 3",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report should contain %q:\n%s", want, report)
		}
	}

	// Статусы идут в порядке отображения, pending раньше shipped.
	if strings.Index(report, "pending: 2") > strings.Index(report, "shipped: 1") {
		t.Error("statuses should follow display order")
	}
}

func TestWriteReportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statistics.txt")

	err := export.WriteReportFile(path, time.Now(), []export.ReportSection{
		{Title: "Summary", Lines: []string{"total_orders: 0"}},
	})
	if err != nil {
		t.Fatalf("write report file failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report failed: %v", err)
	}
	if !strings.Contains(string(data), "total_orders: 0") {
		t.Errorf("unexpected report contents:\n%s", data)
	}
}
