package components

import (
	"context"
	"fmt"
	"strings"

	"github.com/stockroomhq/stockroom-backend/pkg/db"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes component management operations, including the supplier
// association edge set.
type Service interface {
	List(ctx context.Context) ([]ComponentDTO, error)
	Get(ctx context.Context, id uint) (*ComponentDTO, error)
	Create(ctx context.Context, input CreateComponentInput) (*ComponentDTO, error)
	Update(ctx context.Context, id uint, input UpdateComponentInput) (*ComponentDTO, error)
	Delete(ctx context.Context, id uint) error
}

// CreateComponentInput holds the validated payload to create a component.
// SupplierIDs may be empty; supplier association is optional.
type CreateComponentInput struct {
	Name        string
	Description *string
	SupplierIDs []uint
}

// UpdateComponentInput holds optional mutation values; nil means unchanged.
// A non-nil SupplierIDs replaces the full supplier edge set (empty allowed).
type UpdateComponentInput struct {
	Name        *string
	Description *string
	SupplierIDs *[]uint
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a component service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("component repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) List(ctx context.Context) ([]ComponentDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list components")
	}
	return fromModels(rows), nil
}

func (s *service) Get(ctx context.Context, id uint) (*ComponentDTO, error) {
	component, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "component not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "fetch component")
	}
	return FromModel(component), nil
}

// Create inserts the component and its supplier edges atomically. A failure
// on any edge leaves no component row behind.
func (s *service) Create(ctx context.Context, input CreateComponentInput) (*ComponentDTO, error) {
	supplierIDs := dedupe(input.SupplierIDs)

	var created *models.Component
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := ensureSuppliersExist(ctx, tx, supplierIDs); err != nil {
			return err
		}

		component := &models.Component{
			Name:        strings.TrimSpace(input.Name),
			Description: input.Description,
		}
		if _, err := txRepo.Create(ctx, component); err != nil {
			return err
		}
		if err := txRepo.CreateSupplierEdges(ctx, component.ID, supplierIDs); err != nil {
			return err
		}

		reloaded, err := txRepo.FindByID(ctx, component.ID)
		if err != nil {
			return err
		}
		created = reloaded
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create component")
	}
	return FromModel(created), nil
}

// Update merges the provided fields and, when SupplierIDs is present,
// replaces the supplier edge set inside the same transaction.
func (s *service) Update(ctx context.Context, id uint, input UpdateComponentInput) (*ComponentDTO, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "component not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "fetch component")
	}

	fields := map[string]any{}
	if input.Name != nil {
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}

	var updated *models.Component
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := txRepo.UpdateFields(ctx, id, fields); err != nil {
			return err
		}
		if input.SupplierIDs != nil {
			supplierIDs := dedupe(*input.SupplierIDs)
			if err := ensureSuppliersExist(ctx, tx, supplierIDs); err != nil {
				return err
			}
			if err := txRepo.DeleteSupplierEdges(ctx, id); err != nil {
				return err
			}
			if err := txRepo.CreateSupplierEdges(ctx, id, supplierIDs); err != nil {
				return err
			}
		}

		reloaded, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		updated = reloaded
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update component")
	}
	return FromModel(updated), nil
}

// Delete removes the component and every edge referencing it, from both join
// tables, in one transaction. Suppliers and products survive.
func (s *service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "component not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "fetch component")
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.DeleteSupplierEdges(ctx, id); err != nil {
			return err
		}
		if err := txRepo.DeleteProductEdges(ctx, id); err != nil {
			return err
		}
		return txRepo.Delete(ctx, id)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete component")
	}
	return nil
}

func ensureSuppliersExist(ctx context.Context, tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := tx.WithContext(ctx).
		Model(&models.Supplier{}).
		Where("id IN ?", ids).
		Count(&count).
		Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "one or more supplier ids do not exist")
	}
	return nil
}

func dedupe(ids []uint) []uint {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
