package migrations

import "github.com/shashiranjanraj/shopadmin/app/models"

func init() {
	register("20240501000002_create_coupon_details_table", &models.Coupon{}, "coupon_details")
}
