package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/antonkravchenko/powerlock/internal/domain"
)

const timeFormat = "2006-01-02 15:04:05"

// Write сериализует листинг: строка заголовка, затем строки данных.
func Write(w io.Writer, columns []string, rows [][]string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return nil
}

// WriteFile сериализует листинг в файл по указанному пути.
func WriteFile(path string, columns []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	if err := Write(f, columns, rows); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}

	return nil
}

// Read разбирает листинг обратно в заголовок и строки данных.
func Read(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, errors.New("csv is empty: header row is required")
	}

	return records[0], records[1:], nil
}

// CustomerColumns — колонки листинга клиентов.
var CustomerColumns = []string{"id", "name", "phone"}

// CustomerRows готовит листинг клиентов к экспорту.
func CustomerRows(customers []domain.Customer) [][]string {
	rows := make([][]string, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10),
			c.Name,
			c.Phone,
		})
	}
	return rows
}

// BoltColumns — колонки листинга склада.
var BoltColumns = []string{"id", "name", "type", "stamp", "quantity", "last_updated"}

// BoltRows готовит листинг склада к экспорту.
func BoltRows(bolts []domain.Bolt) [][]string {
	rows := make([][]string, 0, len(bolts))
	for _, b := range bolts {
		rows = append(rows, []string{
			strconv.FormatInt(b.ID, 10),
			b.Name,
			string(b.Type),
			b.Stamp,
			strconv.FormatInt(b.Qty, 10),
			b.LastUpdated.Format(timeFormat),
		})
	}
	return rows
}

// OrderColumns — колонки листинга заказов.
var OrderColumns = []string{"id", "customer", "order_date", "status", "total_items", "notes"}

// OrderRows готовит листинг заказов к экспорту.
func OrderRows(orders []domain.Order) [][]string {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			strconv.FormatInt(o.ID, 10),
			o.CustomerName,
			o.OrderDate.Format(timeFormat),
			string(o.Status),
			strconv.FormatInt(o.TotalItems, 10),
			o.Notes,
		})
	}
	return rows
}
