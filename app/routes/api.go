package routes

import (
	"net/http"

	"github.com/shashiranjanraj/shopadmin/app/controllers"
	appctx "github.com/shashiranjanraj/shopadmin/pkg/ctx"
	"github.com/shashiranjanraj/shopadmin/pkg/router"
)

// Handlers is everything the route table mounts.
type Handlers struct {
	Auth     *controllers.AuthController
	Products *controllers.ProductController
	Coupons  *controllers.CouponController
	Orders   *controllers.OrderController
	Health   *controllers.HealthController

	GraphQL http.Handler
	Feed    http.Handler // websocket order feed
	Metrics http.HandlerFunc

	UploadsDir string // served at /uploads when set
	Admin      router.Middleware
}

// RegisterAPI mounts the storefront admin API. Admin guards the mutating
// /api routes; pass a pass-through middleware to leave them open.
func RegisterAPI(r *router.Router, h Handlers) {
	admin := h.Admin
	if admin == nil {
		admin = func(next http.Handler) http.Handler { return next }
	}

	r.Post("/admin_login", "admin.login", appctx.Wrap(h.Auth.Login))

	api := r.Group("/api")
	guarded := api.Group("", admin)

	api.Get("/prod_details", "products.index", appctx.Wrap(h.Products.Index))
	api.Get("/search", "products.search", appctx.Wrap(h.Products.Search))
	api.Get("/products", "products.by_category", appctx.Wrap(h.Products.ByCategory))
	guarded.Post("/add_product", "products.store", appctx.Wrap(h.Products.Store))
	guarded.Put("/update_product/{id}", "products.update", appctx.Wrap(h.Products.Update))
	guarded.Delete("/delete_product/{id}", "products.destroy", appctx.Wrap(h.Products.Destroy))

	api.Get("/coupon_details", "coupons.index", appctx.Wrap(h.Coupons.Index))
	api.Post("/apply_coupon", "coupons.apply", appctx.Wrap(h.Coupons.Apply))
	guarded.Post("/coupon_details", "coupons.store", appctx.Wrap(h.Coupons.Store))
	guarded.Put("/update_coupon/{id}", "coupons.update", appctx.Wrap(h.Coupons.Update))
	guarded.Delete("/delete_coupon/{id}", "coupons.destroy", appctx.Wrap(h.Coupons.Destroy))

	api.Post("/place_order", "orders.place", appctx.Wrap(h.Orders.Place))
	api.Get("/order_details", "orders.index", appctx.Wrap(h.Orders.Index))
	guarded.Put("/order_details/{orderID}", "orders.update_status", appctx.Wrap(h.Orders.UpdateStatus))

	if h.Health != nil {
		r.Get("/healthz", "health", appctx.Wrap(h.Health.Show))
	}
	if h.Metrics != nil {
		r.Get("/metrics", "metrics", h.Metrics)
	}
	if h.GraphQL != nil {
		r.Get("/graphql", "graphql.get", h.GraphQL.ServeHTTP)
		r.Post("/graphql", "graphql", h.GraphQL.ServeHTTP)
	}
	if h.Feed != nil {
		r.Get("/ws/orders", "orders.feed", h.Feed.ServeHTTP)
	}
	if h.UploadsDir != "" {
		r.Static("/uploads", h.UploadsDir)
	}
}
