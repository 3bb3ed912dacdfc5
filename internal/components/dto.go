package components

import (
	"time"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
)

// ComponentDTO is the transport shape for a component with its relations.
type ComponentDTO struct {
	ID          uint          `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	Suppliers   []SupplierRef `json:"suppliers"`
	Products    []ProductRef  `json:"products"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// SupplierRef is the minimal supplier shape embedded in component responses.
type SupplierRef struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	ContactInfo *string `json:"contact_info,omitempty"`
}

// ProductRef is the minimal product shape embedded in component responses.
type ProductRef struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	ProductCode string `json:"product_code"`
}

func FromModel(c *models.Component) *ComponentDTO {
	if c == nil {
		return nil
	}
	suppliers := make([]SupplierRef, 0, len(c.Suppliers))
	for _, s := range c.Suppliers {
		suppliers = append(suppliers, SupplierRef{ID: s.ID, Name: s.Name, ContactInfo: s.ContactInfo})
	}
	products := make([]ProductRef, 0, len(c.Products))
	for _, p := range c.Products {
		products = append(products, ProductRef{ID: p.ID, Name: p.Name, ProductCode: p.ProductCode})
	}
	return &ComponentDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Suppliers:   suppliers,
		Products:    products,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func fromModels(rows []models.Component) []ComponentDTO {
	out := make([]ComponentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
