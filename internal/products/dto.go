package products

import (
	"time"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
)

// ProductDTO is the transport shape for a product with its bill of materials.
type ProductDTO struct {
	ID             uint           `json:"id"`
	Name           string         `json:"name"`
	ProductCode    string         `json:"product_code"`
	QuantityOnHand int            `json:"quantity_on_hand"`
	Components     []ComponentRef `json:"components"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ComponentRef is the minimal component shape embedded in product responses.
type ComponentRef struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	components := make([]ComponentRef, 0, len(p.Components))
	for _, c := range p.Components {
		components = append(components, ComponentRef{ID: c.ID, Name: c.Name, Description: c.Description})
	}
	return &ProductDTO{
		ID:             p.ID,
		Name:           p.Name,
		ProductCode:    p.ProductCode,
		QuantityOnHand: p.QuantityOnHand,
		Components:     components,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func fromModels(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
