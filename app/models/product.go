package models

import (
	"github.com/shopspring/decimal"
)

// Product is one catalog entry. Variant columns hold compact JSON text and
// are NULL when the product has no such variant data. Handlers present the
// decoded documents; the raw text is what gets cached.
type Product struct {
	ID              uint            `gorm:"column:prod_id;primaryKey;autoIncrement"        json:"prod_id"`
	Name            string          `gorm:"column:prod_name;size:255;not null;index"       json:"prod_name"`
	Image           *string         `gorm:"column:prod_image;size:255"                     json:"prod_image"`
	Quantity        int             `gorm:"column:prod_qty;not null;default:0"             json:"prod_qty"`
	NewPrice        decimal.Decimal `gorm:"column:new_price;type:decimal(10,2);not null"   json:"new_price"`
	OldPrice        decimal.Decimal `gorm:"column:old_price;type:decimal(10,2);not null"   json:"old_price"`
	Description     string          `gorm:"column:prod_description;type:text"              json:"prod_description"`
	Category        string          `gorm:"column:category;size:100;index"                 json:"category"`
	SubCategory     *string         `gorm:"column:sub_category;type:text"                  json:"sub_category"`
	ColorVariations *string         `gorm:"column:color_variations;type:text"              json:"color_variations"`
	OtherVariations *string         `gorm:"column:other_variations;type:text"              json:"other_variations"`
}

func (Product) TableName() string { return "prod_details" }

// ImageName returns the stored filename or "".
func (p Product) ImageName() string {
	if p.Image == nil {
		return ""
	}
	return *p.Image
}
