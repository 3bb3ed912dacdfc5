package suppliers

import (
	"time"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
)

// SupplierDTO is the transport shape for a supplier with its components.
type SupplierDTO struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	ContactInfo *string        `json:"contact_info,omitempty"`
	Components  []ComponentRef `json:"components"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ComponentRef is the minimal component shape embedded in supplier responses.
type ComponentRef struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func FromModel(s *models.Supplier) *SupplierDTO {
	if s == nil {
		return nil
	}
	refs := make([]ComponentRef, 0, len(s.Components))
	for _, c := range s.Components {
		refs = append(refs, ComponentRef{ID: c.ID, Name: c.Name, Description: c.Description})
	}
	return &SupplierDTO{
		ID:          s.ID,
		Name:        s.Name,
		ContactInfo: s.ContactInfo,
		Components:  refs,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func fromModels(rows []models.Supplier) []SupplierDTO {
	out := make([]SupplierDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
