package inventory_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/antonkravchenko/powerlock/internal/domain"
	"github.com/antonkravchenko/powerlock/internal/service/inventory"
	"github.com/antonkravchenko/powerlock/internal/storage/memory"
)

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: false, DisableTimestamp: true})
	logger.SetLevel(logrus.DebugLevel)
	return logger.WithField("component", "test")
}

func newTestService(t *testing.T) (*inventory.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return inventory.NewService(store.Bolts(), loggerForTests()), store
}

func TestCreate(t *testing.T) {
	svc, _ := newTestService(t)

	id, err := svc.Create(domain.Bolt{Name: "Hex Bolt", Type: domain.BoltTypeSingle, Qty: 10})
	require.NoError(t, err)

	bolt, err := svc.Get(id)
	require.NoError(t, err)
	require.Equal(t, "Hex Bolt", bolt.Name)
	require.Equal(t, int64(10), bolt.Qty)
}

func TestCreate_Invalid(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(domain.Bolt{Name: "", Type: domain.BoltTypeSingle})
	require.ErrorIs(t, err, domain.ErrNameRequired)

	_, err = svc.Create(domain.Bolt{Name: "Hex Bolt", Type: "triple"})
	require.ErrorIs(t, err, domain.ErrInvalidBoltType)

	_, err = svc.Create(domain.Bolt{Name: "Hex Bolt", Type: domain.BoltTypeSingle, Qty: -1})
	require.ErrorIs(t, err, domain.ErrQtyNegative)
}

func TestAdjustQty(t *testing.T) {
	svc, _ := newTestService(t)

	id, err := svc.Create(domain.Bolt{Name: "Hex Bolt", Type: domain.BoltTypeSingle, Qty: 10})
	require.NoError(t, err)

	changed, err := svc.AdjustQty(id, 5)
	require.NoError(t, err)
	require.True(t, changed)

	bolt, err := svc.Get(id)
	require.NoError(t, err)
	require.Equal(t, int64(15), bolt.Qty)

	// Дельта применяется как есть, даже если уводит остаток в минус.
	changed, err = svc.AdjustQty(id, -20)
	require.NoError(t, err)
	require.True(t, changed)

	bolt, err = svc.Get(id)
	require.NoError(t, err)
	require.Equal(t, int64(-5), bolt.Qty)
}

func TestAdjustQty_Missing(t *testing.T) {
	svc, _ := newTestService(t)

	changed, err := svc.AdjustQty(999, 1)
	require.NoError(t, err)
	require.False(t, changed)
}

func TestSearch(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(domain.Bolt{Name: "Hex Bolt", Type: domain.BoltTypeSingle})
	require.NoError(t, err)
	_, err = svc.Create(domain.Bolt{Name: "Anchor Bolt", Type: domain.BoltTypeDouble})
	require.NoError(t, err)

	found, err := svc.Search("hex")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "Hex Bolt", found[0].Name)
}
