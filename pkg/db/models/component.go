package models

import "time"

// Component is a part that suppliers provide and products are built from.
type Component struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"type:text;not null"`
	Description *string `gorm:"type:text"`

	Suppliers []Supplier `gorm:"many2many:supplier_components"`
	Products  []Product  `gorm:"many2many:product_components"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
