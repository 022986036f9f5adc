package seeders

import (
	"errors"
	"fmt"

	"github.com/shashiranjanraj/shopadmin/app/models"
	"github.com/shashiranjanraj/shopadmin/config"
	"github.com/shashiranjanraj/shopadmin/pkg/auth"
	"gorm.io/gorm"
)

func init() {
	Register("admin", SeedAdmin)
}

// SeedAdmin creates ADMIN_NAME with ADMIN_PASSWORD when it does not exist.
// Existing plain-text passwords for that admin are upgraded to bcrypt.
func SeedAdmin(db *gorm.DB) error {
	name := config.DefaultAdminName()
	password := config.DefaultAdminPassword()
	if password == "" {
		return errors.New("ADMIN_PASSWORD is not set")
	}

	var admin models.Admin
	err := db.Where("admin_name = ?", name).First(&admin).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, err := auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		return db.Create(&models.Admin{Name: name, Password: hash}).Error
	case err != nil:
		return err
	case !auth.IsHashed(admin.Password):
		hash, err := auth.HashPassword(admin.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		return db.Model(&admin).Update("admin_pw", hash).Error
	}
	return nil
}
