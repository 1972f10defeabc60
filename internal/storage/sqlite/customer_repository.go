package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/antonkravchenko/powerlock/internal/domain"
)

var customerOrderColumns = map[string]bool{
	"id":    true,
	"name":  true,
	"phone": true,
}

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository создаёт SQLite-реализацию CustomerRepository.
func NewCustomerRepository(store *Store) domain.CustomerRepository {
	return &customerRepository{db: store.DB()}
}

func (r *customerRepository) GetByID(id int64) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var (
		customer domain.Customer
		phone    sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, phone FROM customers WHERE id = ?
	`, id).Scan(&customer.ID, &customer.Name, &phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("select customer: %w", err)
	}
	customer.Phone = phone.String

	return customer, nil
}

func (r *customerRepository) List(orderBy string) ([]domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	clause, err := orderClause(orderBy, "name", customerOrderColumns)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, phone FROM customers ORDER BY `+clause)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	return scanCustomers(rows)
}

func (r *customerRepository) Create(customer domain.Customer) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (name, phone) VALUES (?, ?)
	`, customer.Name, nullString(customer.Phone))
	if err != nil {
		return 0, fmt.Errorf("insert customer: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("customer insert id: %w", err)
	}

	return id, nil
}

func (r *customerRepository) Update(customer domain.Customer) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE customers SET name = ?, phone = ? WHERE id = ?
	`, customer.Name, nullString(customer.Phone), customer.ID)
	if err != nil {
		return false, fmt.Errorf("update customer: %w", err)
	}

	return changed(res)
}

func (r *customerRepository) Delete(id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		if isConstraintViolation(err) {
			return false, domain.ErrCustomerHasOrders
		}
		return false, fmt.Errorf("delete customer: %w", err)
	}

	return changed(res)
}

func (r *customerRepository) FindByName(name string) ([]domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, phone FROM customers
		WHERE name LIKE ?
		ORDER BY name
	`, "%"+name+"%")
	if err != nil {
		return nil, fmt.Errorf("find customers by name: %w", err)
	}
	defer rows.Close()

	return scanCustomers(rows)
}

func scanCustomers(rows *sql.Rows) ([]domain.Customer, error) {
	customers := make([]domain.Customer, 0)
	for rows.Next() {
		var (
			customer domain.Customer
			phone    sql.NullString
		)
		if err := rows.Scan(&customer.ID, &customer.Name, &phone); err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		customer.Phone = phone.String
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer rows: %w", err)
	}

	return customers, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func changed(res sql.Result) (bool, error) {
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

var _ domain.CustomerRepository = (*customerRepository)(nil)
