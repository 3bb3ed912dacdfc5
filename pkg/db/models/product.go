package models

import "time"

// Product is a sellable item assembled from one or more components.
type Product struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"type:text;not null"`
	ProductCode    string `gorm:"column:product_code;type:text;not null;uniqueIndex"`
	QuantityOnHand int    `gorm:"column:quantity_on_hand;not null;default:0"`

	Components []Component `gorm:"many2many:product_components"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
