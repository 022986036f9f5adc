package models

import "github.com/shopspring/decimal"

// Coupon is a percentage discount looked up by code. Codes are not unique in
// storage; lookups take the lowest coupon_id.
type Coupon struct {
	ID                 uint            `gorm:"column:coupon_id;primaryKey;autoIncrement"            json:"coupon_id"`
	Code               string          `gorm:"column:coupon_code;size:100;not null;index"           json:"coupon_code"`
	Name               string          `gorm:"column:coupon_name;size:255;not null"                 json:"coupon_name"`
	DiscountPercentage decimal.Decimal `gorm:"column:discount_percentage;type:decimal(5,2);not null" json:"discount_percentage"`
}

func (Coupon) TableName() string { return "coupon_details" }
