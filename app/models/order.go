package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses.
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusCompleted  = "Completed"
)

// ValidStatus reports whether s is one of the three order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted:
		return true
	}
	return false
}

// Order is a placed customer order. OrderID has the form YYYY-MM-DD-NNN and
// never changes once written.
type Order struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"                           json:"id"`
	OrderID       string          `gorm:"column:orderID;size:20;not null;uniqueIndex"        json:"orderID"`
	FirstName     string          `gorm:"column:firstName;size:100;not null"                 json:"firstName"`
	LastName      string          `gorm:"column:lastName;size:100;not null"                  json:"lastName"`
	ContactNumber string          `gorm:"column:contactNumber;size:30;not null"              json:"contactNumber"`
	Address1      string          `gorm:"column:address1;size:255;not null"                  json:"address1"`
	Address2      string          `gorm:"column:address2;size:255"                           json:"address2"`
	City          string          `gorm:"column:city;size:100;not null"                      json:"city"`
	Province      string          `gorm:"column:province;size:100;not null"                  json:"province"`
	PostalCode    string          `gorm:"column:postalCode;size:20;not null"                 json:"postalCode"`
	SpecialNote   *string         `gorm:"column:specialNote;type:text"                       json:"specialNote"`
	Subtotal      decimal.Decimal `gorm:"column:subtotal;type:decimal(10,2);not null"        json:"subtotal"`
	DeliveryFee   decimal.Decimal `gorm:"column:deliveryFee;type:decimal(10,2);not null"     json:"deliveryFee"`
	Discount      decimal.Decimal `gorm:"column:discount;type:decimal(10,2);not null"        json:"discount"`
	Total         decimal.Decimal `gorm:"column:total;type:decimal(10,2);not null"           json:"total"`
	Status        string          `gorm:"column:order_status;size:20;not null;default:Pending" json:"order_status"`
	OrderDate     time.Time       `gorm:"column:orderDate;not null"                          json:"orderDate"`
	Day           string          `gorm:"column:order_day;size:10;not null;index"            json:"-"`
	Seq           int             `gorm:"column:order_seq;not null"                          json:"-"`
}

func (Order) TableName() string { return "order_details" }

// OrderCounter holds the last sequence number handed out for a day.
type OrderCounter struct {
	Day     string `gorm:"column:day;primaryKey;size:10"`
	LastSeq int    `gorm:"column:last_seq;not null"`
}

func (OrderCounter) TableName() string { return "order_counters" }
