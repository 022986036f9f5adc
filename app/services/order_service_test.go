package services_test

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopadmin/app/models"
	"github.com/shashiranjanraj/shopadmin/app/repositories"
	"github.com/shashiranjanraj/shopadmin/app/services"
	"github.com/shashiranjanraj/shopadmin/pkg/metrics"
)

func TestPlaceSequentialIDs(t *testing.T) {
	f := newFixture(t)

	var ids []string
	for i := 0; i < 3; i++ {
		o, err := f.orders.Place(bg, orderInput())
		require.NoError(t, err)
		ids = append(ids, o.OrderID)
		assert.Equal(t, models.StatusPending, o.Status)
		assert.Nil(t, o.SpecialNote)
	}
	assert.Equal(t, []string{"2024-05-01-001", "2024-05-01-002", "2024-05-01-003"}, ids)

	orders, err := f.orders.List(bg)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "2024-05-01-001", orders[0].OrderID)
	assert.True(t, orders[2].Total.Equal(orderInput().Total))
}

func TestPlaceAfterTwoExistingOrders(t *testing.T) {
	f := newFixture(t)
	insertOrder(t, f.db, "2024-05-01-001", "2024-05-01", 1)
	insertOrder(t, f.db, "2024-05-01-002", "2024-05-01", 2)

	o, err := f.orders.Place(bg, orderInput())
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01-003", o.OrderID)
}

func TestPlaceSkipsPastStaleCounter(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Create(&models.OrderCounter{Day: "2024-05-01", LastSeq: 1}).Error)
	insertOrder(t, f.db, "2024-05-01-004", "2024-05-01", 4)

	o, err := f.orders.Place(bg, orderInput())
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01-005", o.OrderID)
}

// SQLite serializes these transactions; the interleavings that lose a race
// are forced in the failOnce tests below.
func TestPlaceConcurrentIDsAreDistinct(t *testing.T) {
	f := newFixture(t)
	const n = 12

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ids  []string
		errs []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := f.orders.Place(bg, orderInput())
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			ids = append(ids, o.OrderID)
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	sort.Strings(ids)
	want := make([]string, n)
	for i := range want {
		want[i] = services.FormatOrderID("2024-05-01", i+1)
	}
	assert.Equal(t, want, ids)
}

func TestPlaceGivesUpAfterRepeatedConflicts(t *testing.T) {
	f := newFixture(t)
	// Occupies the first id without being visible to the day's floor.
	insertOrder(t, f.db, "2024-05-01-001", "", 0)

	_, err := f.orders.Place(bg, orderInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrPlacement)
	assert.ErrorIs(t, err, services.ErrPersistence)

	var n int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestPlaceSequencingFailureWritesNothing(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Migrator().DropTable("order_counters"))

	_, err := f.orders.Place(bg, orderInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrSequencing)

	var n int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestPlaceValidatesInput(t *testing.T) {
	f := newFixture(t)
	in := orderInput()
	in.FirstName = ""

	_, err := f.orders.Place(bg, in)
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.Contains(t, services.Message(err), "firstName")
}

func TestPlaceKeepsSpecialNote(t *testing.T) {
	f := newFixture(t)
	in := orderInput()
	in.SpecialNote = "Leave at the gate"

	o, err := f.orders.Place(bg, in)
	require.NoError(t, err)
	require.NotNil(t, o.SpecialNote)
	assert.Equal(t, "Leave at the gate", *o.SpecialNote)
}

func TestPlaceFiresEvent(t *testing.T) {
	f := newFixture(t)
	var got []string
	f.bus.Listen(services.EventOrderPlaced, func(_ string, payload any) {
		got = append(got, payload.(models.Order).OrderID)
	})

	_, err := f.orders.Place(bg, orderInput())
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-05-01-001"}, got)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	o, err := f.orders.Place(bg, orderInput())
	require.NoError(t, err)

	var changes []services.StatusChange
	f.bus.Listen(services.EventOrderStatusUpdated, func(_ string, payload any) {
		changes = append(changes, payload.(services.StatusChange))
	})

	t.Run("invalid status leaves the row alone", func(t *testing.T) {
		_, err := f.orders.UpdateStatus(bg, o.OrderID, "Shipped")
		assert.ErrorIs(t, err, services.ErrInvalidStatus)
		assert.Equal(t, "Invalid order status", services.Message(err))

		var got models.Order
		require.NoError(t, f.db.First(&got, o.ID).Error)
		assert.Equal(t, models.StatusPending, got.Status)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := f.orders.UpdateStatus(bg, "2024-05-01-999", models.StatusCompleted)
		assert.ErrorIs(t, err, services.ErrOrderNotFound)
		assert.True(t, errors.Is(err, services.ErrNotFound))
	})

	t.Run("order id is matched exactly", func(t *testing.T) {
		_, err := f.orders.UpdateStatus(bg, " "+o.OrderID, models.StatusCompleted)
		assert.ErrorIs(t, err, services.ErrOrderNotFound)

		var got models.Order
		require.NoError(t, f.db.First(&got, o.ID).Error)
		assert.Equal(t, models.StatusPending, got.Status)
	})

	t.Run("valid transition", func(t *testing.T) {
		_, err := f.orders.UpdateStatus(bg, o.OrderID, models.StatusProcessing)
		require.NoError(t, err)

		var got models.Order
		require.NoError(t, f.db.First(&got, o.ID).Error)
		assert.Equal(t, models.StatusProcessing, got.Status)
	})

	t.Run("same status again succeeds", func(t *testing.T) {
		_, err := f.orders.UpdateStatus(bg, o.OrderID, models.StatusProcessing)
		require.NoError(t, err)
	})

	require.Len(t, changes, 2)
	assert.Equal(t, services.StatusChange{OrderID: o.OrderID, Status: models.StatusProcessing}, changes[0])
}

func TestListByStatus(t *testing.T) {
	f := newFixture(t)
	a, err := f.orders.Place(bg, orderInput())
	require.NoError(t, err)
	_, err = f.orders.Place(bg, orderInput())
	require.NoError(t, err)
	_, err = f.orders.UpdateStatus(bg, a.OrderID, models.StatusCompleted)
	require.NoError(t, err)

	done, err := f.orders.ListByStatus(bg, models.StatusCompleted)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, a.OrderID, done[0].OrderID)

	_, err = f.orders.ListByStatus(bg, "Lost")
	assert.ErrorIs(t, err, services.ErrInvalidStatus)
}

func retries(t *testing.T) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metrics.OrderRetries.Write(&m))
	return m.GetCounter().GetValue()
}

// failOnce makes the first statement of kind against table fail with err,
// as if a concurrent transaction had won.
func failOnce(t *testing.T, db *gorm.DB, kind, table string, err error) {
	t.Helper()
	var fired atomic.Bool
	hook := func(tx *gorm.DB) {
		if tx.Statement.Table == table && fired.CompareAndSwap(false, true) {
			_ = tx.AddError(err)
		}
	}
	name := "test:fail_once_" + kind + "_" + table
	switch kind {
	case "create":
		require.NoError(t, db.Callback().Create().Before("gorm:create").Register(name, hook))
	case "update":
		require.NoError(t, db.Callback().Update().Before("gorm:update").Register(name, hook))
	default:
		t.Fatalf("unknown statement kind %q", kind)
	}
}

func TestPlaceRetriesAfterKeyConflict(t *testing.T) {
	f := newFixture(t)
	failOnce(t, f.db, "create", "order_details", gorm.ErrDuplicatedKey)
	before := retries(t)

	o, err := f.orders.Place(bg, orderInput())
	require.NoError(t, err)
	// The losing attempt rolled back its counter bump.
	assert.Equal(t, "2024-05-01-001", o.OrderID)
	assert.Equal(t, 1.0, retries(t)-before)

	var n int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	var c models.OrderCounter
	require.NoError(t, f.db.First(&c, "day = ?", "2024-05-01").Error)
	assert.Equal(t, 1, c.LastSeq)
}

func TestPlaceRetriesAfterCounterDeadlock(t *testing.T) {
	f := newFixture(t)
	_, err := f.orders.Place(bg, orderInput())
	require.NoError(t, err)

	failOnce(t, f.db, "update", "order_counters",
		&mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock; try restarting transaction"})
	before := retries(t)

	o, err := f.orders.Place(bg, orderInput())
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01-002", o.OrderID)
	assert.Equal(t, 1.0, retries(t)-before)
}

func TestPlaceDoesNotRetryHardFailures(t *testing.T) {
	f := newFixture(t)
	failOnce(t, f.db, "update", "order_counters", errors.New("disk I/O error"))
	before := retries(t)

	_, err := f.orders.Place(bg, orderInput())
	assert.ErrorIs(t, err, services.ErrSequencing)
	assert.Zero(t, retries(t)-before)
}

func TestPlaceReadsClockOnce(t *testing.T) {
	f := newFixture(t)
	ticks := []time.Time{
		time.Date(2024, 5, 1, 23, 59, 59, 0, time.UTC),
		time.Date(2024, 5, 2, 0, 0, 1, 0, time.UTC),
	}
	var calls atomic.Int32
	clock := func() time.Time {
		i := int(calls.Add(1)) - 1
		return ticks[min(i, len(ticks)-1)]
	}
	orders := services.NewOrderService(
		repositories.NewOrderRepository(f.db),
		services.NewSequencer(clock, time.UTC),
		f.bus, 5,
	)

	o, err := orders.Place(bg, orderInput())
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01-001", o.OrderID)
	assert.Equal(t, "2024-05-01", o.OrderDate.UTC().Format(time.DateOnly))
	assert.EqualValues(t, 1, calls.Load())
}
