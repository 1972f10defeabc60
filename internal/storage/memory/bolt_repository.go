package memory

import (
	"sort"
	"strings"

	"github.com/antonkravchenko/powerlock/internal/domain"
)

type boltRepository struct {
	store *Store
}

var boltSortColumns = map[string]bool{
	"id":           true,
	"name":         true,
	"type":         true,
	"stamp":        true,
	"quantity":     true,
	"last_updated": true,
}

func (r *boltRepository) GetByID(id int64) (domain.Bolt, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	bolt, ok := r.store.bolts[id]
	if !ok {
		return domain.Bolt{}, domain.ErrBoltNotFound
	}
	return bolt, nil
}

func (r *boltRepository) GetByExactName(name string) (domain.Bolt, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var (
		best  domain.Bolt
		found bool
	)
	for _, bolt := range r.store.bolts {
		if !strings.EqualFold(bolt.Name, name) {
			continue
		}
		// При дубликатах берётся самая ранняя запись.
		if !found || bolt.ID < best.ID {
			best = bolt
			found = true
		}
	}
	if !found {
		return domain.Bolt{}, domain.ErrBoltNotFound
	}

	return best, nil
}

func (r *boltRepository) List(orderBy string) ([]domain.Bolt, error) {
	column, desc, err := sortKey(orderBy, "name", boltSortColumns)
	if err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	bolts := make([]domain.Bolt, 0, len(r.store.bolts))
	for _, bolt := range r.store.bolts {
		bolts = append(bolts, bolt)
	}
	r.store.mu.RUnlock()

	sort.Slice(bolts, func(i, j int) bool {
		var less bool
		switch column {
		case "id":
			less = bolts[i].ID < bolts[j].ID
		case "quantity":
			less = bolts[i].Qty < bolts[j].Qty
		case "last_updated":
			less = bolts[i].LastUpdated.Before(bolts[j].LastUpdated)
		default:
			less = bolts[i].Name < bolts[j].Name
		}
		if desc {
			return !less
		}
		return less
	})

	return bolts, nil
}

func (r *boltRepository) Create(bolt domain.Bolt) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextBoltID++
	bolt.ID = r.store.nextBoltID
	bolt.LastUpdated = now()
	r.store.bolts[bolt.ID] = bolt

	return bolt.ID, nil
}

func (r *boltRepository) Update(bolt domain.Bolt) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.bolts[bolt.ID]; !ok {
		return false, nil
	}
	bolt.LastUpdated = now()
	r.store.bolts[bolt.ID] = bolt

	return true, nil
}

func (r *boltRepository) Delete(id int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.bolts[id]; !ok {
		return false, nil
	}
	for _, order := range r.store.orders {
		for _, item := range order.Items {
			if item.BoltID == id {
				return false, domain.ErrBoltReferenced
			}
		}
	}
	delete(r.store.bolts, id)

	return true, nil
}

func (r *boltRepository) FindByName(name string) ([]domain.Bolt, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matches := make([]domain.Bolt, 0)
	for _, bolt := range r.store.bolts {
		if containsFold(bolt.Name, name) {
			matches = append(matches, bolt)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })

	return matches, nil
}

func (r *boltRepository) AdjustQty(id int64, delta int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	bolt, ok := r.store.bolts[id]
	if !ok {
		return false, nil
	}
	bolt.Qty += delta
	bolt.LastUpdated = now()
	r.store.bolts[id] = bolt

	return true, nil
}

var _ domain.BoltRepository = (*boltRepository)(nil)
