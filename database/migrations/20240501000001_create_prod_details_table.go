package migrations

import "github.com/shashiranjanraj/shopadmin/app/models"

func init() {
	register("20240501000001_create_prod_details_table", &models.Product{}, "prod_details")
}
