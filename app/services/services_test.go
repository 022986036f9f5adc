package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopadmin/app/models"
	"github.com/shashiranjanraj/shopadmin/app/repositories"
	"github.com/shashiranjanraj/shopadmin/app/services"
	"github.com/shashiranjanraj/shopadmin/pkg/event"
	"github.com/shashiranjanraj/shopadmin/pkg/storage"
	"github.com/shashiranjanraj/shopadmin/pkg/testkit"
	"github.com/shashiranjanraj/shopadmin/pkg/workerpool"
)

// placedAt is the fixed clock every order test runs at.
var placedAt = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

type fixture struct {
	db      *gorm.DB
	disk    *storage.LocalDisk
	bus     *event.Bus
	assets  *services.AssetService
	catalog *services.CatalogService
	coupons *services.CouponService
	orders  *services.OrderService
	auth    *services.AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testkit.DB(t)
	disk := testkit.Disk(t)
	pool := workerpool.New(2)
	t.Cleanup(pool.Shutdown)

	bus := event.New()
	assets := services.NewAssetService(disk, pool, 0)
	seq := services.NewSequencer(func() time.Time { return placedAt }, time.UTC)

	f := &fixture{
		db:      db,
		disk:    disk,
		bus:     bus,
		assets:  assets,
		catalog: services.NewCatalogService(repositories.NewProductRepository(db), assets, nil),
		coupons: services.NewCouponService(repositories.NewCouponRepository(db)),
		orders:  services.NewOrderService(repositories.NewOrderRepository(db), seq, bus, 5),
		auth:    services.NewAuthService(repositories.NewAdminRepository(db)),
	}
	f.catalog.SetUpdateMissing("ok")
	return f
}

func orderInput() services.OrderInput {
	return services.OrderInput{
		FirstName:     "Ada",
		LastName:      "Lovelace",
		ContactNumber: "0771234567",
		Address1:      "12 Analytical Way",
		City:          "Colombo",
		Province:      "Western",
		PostalCode:    "00100",
		Subtotal:      decimal.RequireFromString("2500.00"),
		DeliveryFee:   decimal.RequireFromString("350.00"),
		Discount:      decimal.Zero,
		Total:         decimal.RequireFromString("2850.00"),
	}
}

// insertOrder writes an order row directly, bypassing the sequencer.
func insertOrder(t *testing.T, db *gorm.DB, orderID, day string, seq int) {
	t.Helper()
	o := models.Order{
		OrderID: orderID, FirstName: "x", LastName: "y", ContactNumber: "1",
		Address1: "a", City: "c", Province: "p", PostalCode: "0",
		Status: models.StatusPending, OrderDate: placedAt, Day: day, Seq: seq,
	}
	require.NoError(t, db.Create(&o).Error)
}

var bg = context.Background()
