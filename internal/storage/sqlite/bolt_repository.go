package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/antonkravchenko/powerlock/internal/domain"
)

const boltColumns = `id, name, type, metal_strip, screw, rod, plate, square_mechanism, stamp, quantity, last_updated`

var boltOrderColumns = map[string]bool{
	"id":           true,
	"name":         true,
	"type":         true,
	"stamp":        true,
	"quantity":     true,
	"last_updated": true,
}

type boltRepository struct {
	db *sql.DB
}

// NewBoltRepository создаёт SQLite-реализацию BoltRepository.
func NewBoltRepository(store *Store) domain.BoltRepository {
	return &boltRepository{db: store.DB()}
}

func (r *boltRepository) GetByID(id int64) (domain.Bolt, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT `+boltColumns+` FROM bolts WHERE id = ?
	`, id)

	bolt, err := scanBolt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Bolt{}, domain.ErrBoltNotFound
		}
		return domain.Bolt{}, fmt.Errorf("select bolt: %w", err)
	}

	return bolt, nil
}

func (r *boltRepository) GetByExactName(name string) (domain.Bolt, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	// Точное совпадение без учёта регистра; при дубликатах берётся
	// самая ранняя запись.
	row := r.db.QueryRowContext(ctx, `
		SELECT `+boltColumns+` FROM bolts
		WHERE lower(name) = lower(?)
		ORDER BY id
		LIMIT 1
	`, name)

	bolt, err := scanBolt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Bolt{}, domain.ErrBoltNotFound
		}
		return domain.Bolt{}, fmt.Errorf("select bolt by name: %w", err)
	}

	return bolt, nil
}

func (r *boltRepository) List(orderBy string) ([]domain.Bolt, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	clause, err := orderClause(orderBy, "name", boltOrderColumns)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+boltColumns+` FROM bolts ORDER BY `+clause)
	if err != nil {
		return nil, fmt.Errorf("list bolts: %w", err)
	}
	defer rows.Close()

	return scanBolts(rows)
}

func (r *boltRepository) Create(bolt domain.Bolt) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO bolts (
			name, type, metal_strip, screw, rod, plate, square_mechanism, stamp, quantity, last_updated
		) VALUES (?,?,?,?,?,?,?,?,?,?)
	`,
		bolt.Name, string(bolt.Type),
		nullString(bolt.MetalStrip), nullString(bolt.Screw), nullString(bolt.Rod),
		nullString(bolt.Plate), nullString(bolt.SquareMechanism), nullString(bolt.Stamp),
		bolt.Qty, nowText(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert bolt: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("bolt insert id: %w", err)
	}

	return id, nil
}

func (r *boltRepository) Update(bolt domain.Bolt) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE bolts
		SET name = ?, type = ?, metal_strip = ?, screw = ?, rod = ?,
		    plate = ?, square_mechanism = ?, stamp = ?, quantity = ?,
		    last_updated = ?
		WHERE id = ?
	`,
		bolt.Name, string(bolt.Type),
		nullString(bolt.MetalStrip), nullString(bolt.Screw), nullString(bolt.Rod),
		nullString(bolt.Plate), nullString(bolt.SquareMechanism), nullString(bolt.Stamp),
		bolt.Qty, nowText(), bolt.ID,
	)
	if err != nil {
		return false, fmt.Errorf("update bolt: %w", err)
	}

	return changed(res)
}

func (r *boltRepository) Delete(id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM bolts WHERE id = ?`, id)
	if err != nil {
		if isConstraintViolation(err) {
			return false, domain.ErrBoltReferenced
		}
		return false, fmt.Errorf("delete bolt: %w", err)
	}

	return changed(res)
}

func (r *boltRepository) FindByName(name string) ([]domain.Bolt, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+boltColumns+` FROM bolts
		WHERE name LIKE ?
		ORDER BY name
	`, "%"+name+"%")
	if err != nil {
		return nil, fmt.Errorf("find bolts by name: %w", err)
	}
	defer rows.Close()

	return scanBolts(rows)
}

func (r *boltRepository) AdjustQty(id int64, delta int64) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE bolts
		SET quantity = quantity + ?, last_updated = ?
		WHERE id = ?
	`, delta, nowText(), id)
	if err != nil {
		return false, fmt.Errorf("adjust bolt quantity: %w", err)
	}

	return changed(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBolt(row rowScanner) (domain.Bolt, error) {
	var (
		bolt                                       domain.Bolt
		boltType                                   string
		metalStrip, screw, rod, plate, mech, stamp sql.NullString
		lastUpdated                                string
	)
	if err := row.Scan(
		&bolt.ID, &bolt.Name, &boltType,
		&metalStrip, &screw, &rod, &plate, &mech, &stamp,
		&bolt.Qty, &lastUpdated,
	); err != nil {
		return domain.Bolt{}, err
	}

	bolt.Type = domain.BoltType(boltType)
	bolt.MetalStrip = metalStrip.String
	bolt.Screw = screw.String
	bolt.Rod = rod.String
	bolt.Plate = plate.String
	bolt.SquareMechanism = mech.String
	bolt.Stamp = stamp.String

	updated, err := parseTime(lastUpdated)
	if err != nil {
		return domain.Bolt{}, err
	}
	bolt.LastUpdated = updated

	return bolt, nil
}

func scanBolts(rows *sql.Rows) ([]domain.Bolt, error) {
	bolts := make([]domain.Bolt, 0)
	for rows.Next() {
		bolt, err := scanBolt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bolt row: %w", err)
		}
		bolts = append(bolts, bolt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bolt rows: %w", err)
	}

	return bolts, nil
}

var _ domain.BoltRepository = (*boltRepository)(nil)
