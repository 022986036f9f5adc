package models

// Admin is a dashboard login. Password holds a bcrypt hash; rows created
// before hashing may still hold plain text.
type Admin struct {
	ID       uint   `gorm:"column:admin_id;primaryKey;autoIncrement" json:"admin_id"`
	Name     string `gorm:"column:admin_name;size:100;not null;uniqueIndex" json:"admin_name"`
	Password string `gorm:"column:admin_pw;size:255;not null" json:"-"`
}

func (Admin) TableName() string { return "admin_login" }
