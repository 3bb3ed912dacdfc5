package models

// SupplierComponent is an explicit join row linking a supplier to a component
// it can provide. Edge writes go through these rows directly so association
// changes stay inside the caller's transaction.
type SupplierComponent struct {
	SupplierID  uint `gorm:"primaryKey;autoIncrement:false"`
	ComponentID uint `gorm:"primaryKey;autoIncrement:false"`
}

func (SupplierComponent) TableName() string { return "supplier_components" }

// ProductComponent is an explicit join row linking a product to one of the
// components it is assembled from.
type ProductComponent struct {
	ProductID   uint `gorm:"primaryKey;autoIncrement:false"`
	ComponentID uint `gorm:"primaryKey;autoIncrement:false"`
}

func (ProductComponent) TableName() string { return "product_components" }
