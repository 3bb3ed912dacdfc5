package components

import (
	"context"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for components and their
// supplier edges.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// List returns every component with suppliers and products eager-loaded.
func (r *Repository) List(ctx context.Context) ([]models.Component, error) {
	var rows []models.Component
	err := r.db.WithContext(ctx).
		Preload("Suppliers").
		Preload("Products").
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

// FindByID loads one component with its suppliers and products.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Component, error) {
	var component models.Component
	if err := r.db.WithContext(ctx).
		Preload("Suppliers").
		Preload("Products").
		First(&component, "id = ?", id).
		Error; err != nil {
		return nil, err
	}
	return &component, nil
}

// CountByIDs returns how many of the given component ids exist.
func (r *Repository) CountByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Component{}).
		Where("id IN ?", ids).
		Count(&count).
		Error
	return count, err
}

// Create inserts a new component row without touching associations.
func (r *Repository) Create(ctx context.Context, component *models.Component) (*models.Component, error) {
	if err := r.db.WithContext(ctx).Omit("Suppliers", "Products").Create(component).Error; err != nil {
		return nil, err
	}
	return component, nil
}

// UpdateFields merges only the provided columns into the component row.
func (r *Repository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Component{}).
		Where("id = ?", id).
		Updates(fields).
		Error
}

// Delete removes the component row. Its join rows must already be gone.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Component{}).Error
}

// CreateSupplierEdges inserts one supplier_components row per supplier id.
func (r *Repository) CreateSupplierEdges(ctx context.Context, componentID uint, supplierIDs []uint) error {
	if len(supplierIDs) == 0 {
		return nil
	}
	edges := make([]models.SupplierComponent, 0, len(supplierIDs))
	for _, sid := range supplierIDs {
		edges = append(edges, models.SupplierComponent{SupplierID: sid, ComponentID: componentID})
	}
	return r.db.WithContext(ctx).Create(&edges).Error
}

// DeleteSupplierEdges removes every supplier_components row for the component.
func (r *Repository) DeleteSupplierEdges(ctx context.Context, componentID uint) error {
	return r.db.WithContext(ctx).
		Where("component_id = ?", componentID).
		Delete(&models.SupplierComponent{}).
		Error
}

// DeleteProductEdges removes every product_components row for the component.
func (r *Repository) DeleteProductEdges(ctx context.Context, componentID uint) error {
	return r.db.WithContext(ctx).
		Where("component_id = ?", componentID).
		Delete(&models.ProductComponent{}).
		Error
}
