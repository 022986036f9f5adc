package seeders

import (
	"github.com/shashiranjanraj/shopadmin/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	Register("coupons", SeedCoupons)
}

// SeedCoupons adds a demo WELCOME10 coupon on an empty coupon table.
func SeedCoupons(db *gorm.DB) error {
	var n int64
	if err := db.Model(&models.Coupon{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return db.Create(&models.Coupon{
		Code:               "WELCOME10",
		Name:               "Welcome discount",
		DiscountPercentage: decimal.NewFromInt(10),
	}).Error
}
