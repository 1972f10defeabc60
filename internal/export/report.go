package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/antonkravchenko/powerlock/internal/domain"
)

const reportRuleWidth = 60

// ReportSection — именованный блок текстового отчёта.
type ReportSection struct {
	Title string
	Lines []string
}

// WriteReport пишет текстовый отчёт: отметка времени генерации,
// затем секции, отделённые линейками.
func WriteReport(w io.Writer, generatedAt time.Time, sections []ReportSection) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Report Generated: %s\n", generatedAt.Format(timeFormat))
	b.WriteString(strings.Repeat("=", reportRuleWidth))
	b.WriteString("\n\n")

	for _, section := range sections {
		b.WriteString(section.Title)
		b.WriteByte('\n')
		b.WriteString(strings.Repeat("-", reportRuleWidth))
		b.WriteByte('\n')
		for _, line := range section.Lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteString("\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// WriteReportFile пишет текстовый отчёт в файл по указанному пути.
func WriteReportFile(path string, generatedAt time.Time, sections []ReportSection) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	if err := WriteReport(f, generatedAt, sections); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close report file: %w", err)
	}

	return nil
}

// StatsSections раскладывает сводную статистику заказов по секциям отчёта.
func StatsSections(stats domain.OrderStats) []ReportSection {
	summary := ReportSection{
		Title: "Summary",
		Lines: []string{
			fmt.Sprintf("total_orders: %d", stats.TotalOrders),
			fmt.Sprintf("recent_orders: %d", stats.RecentOrders),
			fmt.Sprintf("total_items_ordered: %d", stats.TotalItemsOrdered),
			fmt.Sprintf("avg_items_per_order: %.2f", stats.AvgItemsPerOrder),
		},
	}

	byStatus := ReportSection{Title: "Orders by Status"}
	for _, status := range domain.OrderStatuses {
		if count, ok := stats.ByStatus[status]; ok {
			byStatus.Lines = append(byStatus.Lines, fmt.Sprintf("%s: %d", status, count))
		}
	}

	topBolts := ReportSection{Title: "Top Ordered Bolts"}
	for _, bolt := range stats.TopBolts {
		topBolts.Lines = append(topBolts.Lines, fmt.Sprintf("%s: %d", bolt.Name, bolt.Qty))
	}

	topCustomers := ReportSection{Title: "Top Customers"}
	for _, customer := range stats.TopCustomers {
		topCustomers.Lines = append(topCustomers.Lines, fmt.Sprintf("%s: %d", customer.Name, customer.Orders))
	}

	return []ReportSection{summary, byStatus, topBolts, topCustomers}
}
