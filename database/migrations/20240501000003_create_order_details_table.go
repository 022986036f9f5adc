package migrations

import "github.com/shashiranjanraj/shopadmin/app/models"

func init() {
	register("20240501000003_create_order_details_table", &models.Order{}, "order_details")
}
