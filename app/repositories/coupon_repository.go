package repositories

import (
	"context"

	"github.com/shashiranjanraj/shopadmin/app/models"
	"gorm.io/gorm"
)

// CouponRepository reads and writes coupon_details.
type CouponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) All(ctx context.Context) ([]models.Coupon, error) {
	var out []models.Coupon
	err := r.db.WithContext(ctx).Order("coupon_id").Find(&out).Error
	return out, err
}

func (r *CouponRepository) Create(ctx context.Context, c *models.Coupon) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CouponRepository) Update(ctx context.Context, id uint, fields map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Coupon{}).Where("coupon_id = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *CouponRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("coupon_id = ?", id).Delete(&models.Coupon{})
	return res.RowsAffected, res.Error
}

// FirstByCode returns the lowest-id coupon with exactly this code, or
// gorm.ErrRecordNotFound.
func (r *CouponRepository) FirstByCode(ctx context.Context, code string) (models.Coupon, error) {
	var c models.Coupon
	err := r.db.WithContext(ctx).Where("coupon_code = ?", code).Order("coupon_id").First(&c).Error
	return c, err
}
