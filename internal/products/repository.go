package products

import (
	"context"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for products and their
// component edges.
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

// List returns every product with components eager-loaded.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Components").
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

// FindByID loads one product with its components.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Components").
		First(&product, "id = ?", id).
		Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CountComponentsByIDs returns how many of the given component ids exist.
func (r *Repository) CountComponentsByIDs(ctx context.Context, ids []uint) (int64, error) {
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

// Create inserts a new product row without touching associations.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Omit("Components").Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateFields merges only the provided columns into the product row.
func (r *Repository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(fields).
		Error
}

// Delete removes the product row. Its join rows must already be gone.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// CreateComponentEdges inserts one product_components row per component id.
func (r *Repository) CreateComponentEdges(ctx context.Context, productID uint, componentIDs []uint) error {
	if len(componentIDs) == 0 {
		return nil
	}
	edges := make([]models.ProductComponent, 0, len(componentIDs))
	for _, cid := range componentIDs {
		edges = append(edges, models.ProductComponent{ProductID: productID, ComponentID: cid})
	}
	return r.db.WithContext(ctx).Create(&edges).Error
}

// DeleteComponentEdges removes every product_components row for the product.
func (r *Repository) DeleteComponentEdges(ctx context.Context, productID uint) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.ProductComponent{}).
		Error
}
