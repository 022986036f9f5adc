package migrations

import "github.com/shashiranjanraj/shopadmin/app/models"

// order_counters backs the per-day order number reservation.
func init() {
	register("20240501000004_create_order_counters_table", &models.OrderCounter{}, "order_counters")
}
