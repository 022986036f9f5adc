// Package kernel wires the storefront admin application: storage, services,
// controllers and the HTTP middleware stack.
package kernel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopadmin/app/controllers"
	"github.com/shashiranjanraj/shopadmin/app/repositories"
	"github.com/shashiranjanraj/shopadmin/app/routes"
	"github.com/shashiranjanraj/shopadmin/app/schema"
	"github.com/shashiranjanraj/shopadmin/app/services"
	"github.com/shashiranjanraj/shopadmin/config"
	"github.com/shashiranjanraj/shopadmin/pkg/cache"
	"github.com/shashiranjanraj/shopadmin/pkg/database"
	"github.com/shashiranjanraj/shopadmin/pkg/event"
	gql "github.com/shashiranjanraj/shopadmin/pkg/graphql"
	"github.com/shashiranjanraj/shopadmin/pkg/logger"
	"github.com/shashiranjanraj/shopadmin/pkg/metrics"
	"github.com/shashiranjanraj/shopadmin/pkg/middleware"
	"github.com/shashiranjanraj/shopadmin/pkg/reqid"
	"github.com/shashiranjanraj/shopadmin/pkg/router"
	"github.com/shashiranjanraj/shopadmin/pkg/storage"
	"github.com/shashiranjanraj/shopadmin/pkg/workerpool"
	"github.com/shashiranjanraj/shopadmin/pkg/ws"
)

// Options are the external resources and knobs the application runs on.
type Options struct {
	DB    *gorm.DB
	Disk  storage.Disk
	Cache *cache.Store // nil runs uncached

	Clock         func() time.Time
	Location      *time.Location
	AssetWorkers  int
	PruneGrace    time.Duration
	MaxAttempts   int
	UpdateMissing string
	AuthRequired  bool
	RateLimit     int // requests per minute per IP; <= 0 disables
}

// FromConfig fills Options from the environment for already-opened
// resources.
func FromConfig(db *gorm.DB, disk storage.Disk, store *cache.Store) (Options, error) {
	loc, err := config.OrderLocation()
	if err != nil {
		return Options{}, err
	}
	return Options{
		DB:            db,
		Disk:          disk,
		Cache:         store,
		Clock:         time.Now,
		Location:      loc,
		AssetWorkers:  config.AssetWorkers(),
		PruneGrace:    config.AssetPruneGrace(),
		MaxAttempts:   config.OrderPlaceMaxAttempts(),
		UpdateMissing: config.ProductUpdateMissing(),
		AuthRequired:  config.AdminAuthRequired(),
		RateLimit:     config.RateLimitPerMinute(),
	}, nil
}

// App is one wired application instance.
type App struct {
	DB      *gorm.DB
	Disk    storage.Disk
	Cache   *cache.Store
	Pool    *workerpool.Pool
	Events  *event.Bus
	Hub     *ws.Hub
	Limiter *middleware.Limiter

	Assets  *services.AssetService
	Catalog *services.CatalogService
	Coupons *services.CouponService
	Orders  *services.OrderService
	Auth    *services.AuthService

	router *router.Router
}

// New wires services, controllers and routes over o. It performs no I/O.
func New(o Options) (*App, error) {
	a := &App{
		DB:      o.DB,
		Disk:    o.Disk,
		Cache:   o.Cache,
		Events:  event.New(),
		Hub:     ws.NewHub(),
		Limiter: middleware.NewLimiter(o.RateLimit, time.Minute),
		Pool: workerpool.New(o.AssetWorkers, workerpool.WithPanicHandler(func(v any) {
			logger.Error("asset task panicked", "panic", v)
		})),
	}

	a.Assets = services.NewAssetService(o.Disk, a.Pool, o.PruneGrace)
	a.Catalog = services.NewCatalogService(repositories.NewProductRepository(o.DB), a.Assets, o.Cache)
	if o.UpdateMissing != "" {
		a.Catalog.SetUpdateMissing(o.UpdateMissing)
	}
	a.Coupons = services.NewCouponService(repositories.NewCouponRepository(o.DB))
	a.Orders = services.NewOrderService(
		repositories.NewOrderRepository(o.DB),
		services.NewSequencer(o.Clock, o.Location),
		a.Events,
		o.MaxAttempts,
	)
	a.Auth = services.NewAuthService(repositories.NewAdminRepository(o.DB))

	a.Events.ListenAll(a.forward)

	s, err := schema.New(schema.Resolver{Catalog: a.Catalog, Coupons: a.Coupons, Orders: a.Orders})
	if err != nil {
		a.Pool.Shutdown()
		return nil, fmt.Errorf("kernel: graphql schema: %w", err)
	}

	h := routes.Handlers{
		Auth:     controllers.NewAuthController(a.Auth),
		Products: controllers.NewProductController(a.Catalog),
		Coupons:  controllers.NewCouponController(a.Coupons),
		Orders:   controllers.NewOrderController(a.Orders),
		Health:   controllers.NewHealthController(a.Ping),
		GraphQL:  gql.Handler(s),
		Feed:     a.Hub,
		Metrics:  metrics.Handler(),
		Admin:    middleware.Optional(o.AuthRequired, middleware.RequireAdmin),
	}
	if local, ok := o.Disk.(*storage.LocalDisk); ok {
		h.UploadsDir = local.Root()
	}

	a.router = router.New()
	// Outermost first: metrics see total latency, recovery sees every
	// panic, and the request id exists before anything logs.
	a.router.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		a.Limiter.Middleware,
	)
	routes.RegisterAPI(a.router, h)
	return a, nil
}

// Boot opens the configured database, upload disk and cache and wires
// the application over them.
func Boot(ctx context.Context) (*App, error) {
	// Refuse to start on a bad zone before anything is opened.
	if _, err := config.OrderLocation(); err != nil {
		return nil, err
	}

	db, err := database.Connect()
	if err != nil {
		return nil, err
	}

	disk, err := storage.Open(ctx, config.StorageDefault())
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	var store *cache.Store
	if config.RedisAddr() != "" {
		if store, err = cache.Connect(ctx); err != nil {
			logger.Warn("redis unavailable, product list is not cached", "error", err)
			store = nil
		}
	}

	var app *App
	opts, err := FromConfig(db, disk, store)
	if err == nil {
		app, err = New(opts)
	}
	if err != nil {
		_ = store.Close()
		_ = database.Close(db)
		return nil, err
	}
	return app, nil
}

// Handler is the HTTP entry point.
func (a *App) Handler() http.Handler { return a.router.Handler() }

// Routes lists the named routes.
func (a *App) Routes() []router.RouteInfo { return a.router.Routes() }

// Ping checks the database.
func (a *App) Ping(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close finishes pending asset work, then releases the cache and database.
func (a *App) Close() {
	a.Assets.Flush()
	a.Pool.Shutdown()
	if err := a.Cache.Close(); err != nil {
		logger.Warn("close cache", "error", err)
	}
	if err := database.Close(a.DB); err != nil {
		logger.Warn("close database", "error", err)
	}
}

// forward relays domain events to websocket clients as {event, data}.
func (a *App) forward(name string, payload any) {
	msg, err := json.Marshal(map[string]any{"event": name, "data": payload})
	if err != nil {
		logger.Warn("encode event", "event", name, "error", err)
		return
	}
	a.Hub.Publish(msg)
}
