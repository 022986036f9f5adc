package migrations

import "github.com/shashiranjanraj/shopadmin/app/models"

func init() {
	register("20240501000000_create_admin_login_table", &models.Admin{}, "admin_login")
}
