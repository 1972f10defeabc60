package memory

import (
	"sort"

	"github.com/antonkravchenko/powerlock/internal/domain"
)

type customerRepository struct {
	store *Store
}

var customerSortColumns = map[string]bool{
	"id":    true,
	"name":  true,
	"phone": true,
}

func (r *customerRepository) GetByID(id int64) (domain.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	customer, ok := r.store.customers[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return customer, nil
}

func (r *customerRepository) List(orderBy string) ([]domain.Customer, error) {
	column, desc, err := sortKey(orderBy, "name", customerSortColumns)
	if err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	customers := make([]domain.Customer, 0, len(r.store.customers))
	for _, customer := range r.store.customers {
		customers = append(customers, customer)
	}
	r.store.mu.RUnlock()

	sort.Slice(customers, func(i, j int) bool {
		var less bool
		switch column {
		case "id":
			less = customers[i].ID < customers[j].ID
		case "name":
			less = customers[i].Name < customers[j].Name
		case "phone":
			less = customers[i].Phone < customers[j].Phone
		default:
			less = customers[i].Name < customers[j].Name
		}
		if desc {
			return !less
		}
		return less
	})

	return customers, nil
}

func (r *customerRepository) Create(customer domain.Customer) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextCustomerID++
	customer.ID = r.store.nextCustomerID
	r.store.customers[customer.ID] = customer

	return customer.ID, nil
}

func (r *customerRepository) Update(customer domain.Customer) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.customers[customer.ID]; !ok {
		return false, nil
	}
	r.store.customers[customer.ID] = customer

	return true, nil
}

func (r *customerRepository) Delete(id int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.customers[id]; !ok {
		return false, nil
	}
	for _, order := range r.store.orders {
		if order.CustomerID == id {
			return false, domain.ErrCustomerHasOrders
		}
	}
	delete(r.store.customers, id)

	return true, nil
}

func (r *customerRepository) FindByName(name string) ([]domain.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matches := make([]domain.Customer, 0)
	for _, customer := range r.store.customers {
		if containsFold(customer.Name, name) {
			matches = append(matches, customer)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })

	return matches, nil
}

var _ domain.CustomerRepository = (*customerRepository)(nil)
