package repositories

import (
	"context"

	"github.com/shashiranjanraj/shopadmin/app/models"
	"gorm.io/gorm"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByName returns gorm.ErrRecordNotFound when there is no such admin.
func (r *AdminRepository) FindByName(ctx context.Context, name string) (models.Admin, error) {
	var a models.Admin
	err := r.db.WithContext(ctx).Where("admin_name = ?", name).First(&a).Error
	return a, err
}
