package models

import "time"

// Supplier represents a vendor that can provide components.
type Supplier struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"type:text;not null"`
	ContactInfo *string `gorm:"column:contact_info;type:text"`

	Components []Component `gorm:"many2many:supplier_components"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
