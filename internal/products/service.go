package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/stockroomhq/stockroom-backend/pkg/db"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes product management operations. Every product carries a
// bill of materials with at least one component, and all edge mutations run
// inside a single transaction.
type Service interface {
	List(ctx context.Context) ([]ProductDTO, error)
	Get(ctx context.Context, id uint) (*ProductDTO, error)
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, id uint, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uint) error
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name           string
	ProductCode    string
	QuantityOnHand int
	ComponentIDs   []uint
}

// UpdateProductInput holds optional mutation values; nil means unchanged.
// A non-nil ComponentIDs replaces the full component edge set and must
// contain at least one id.
type UpdateProductInput struct {
	Name           *string
	ProductCode    *string
	QuantityOnHand *int
	ComponentIDs   *[]uint
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) List(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return fromModels(rows), nil
}

func (s *service) Get(ctx context.Context, id uint) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "fetch product")
	}
	return FromModel(product), nil
}

// Create inserts the product and its component edges atomically. Any missing
// component id or a duplicate product code rolls the whole write back.
func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	componentIDs := dedupe(input.ComponentIDs)
	if len(componentIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a product requires at least one component").
			WithDetails(map[string]string{"componentIds": "must contain at least one component id"})
	}
	if input.QuantityOnHand < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity on hand cannot be negative").
			WithDetails(map[string]string{"quantity_on_hand": "must be zero or positive"})
	}

	var created *models.Product
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := ensureComponentsExist(ctx, txRepo, componentIDs); err != nil {
			return err
		}

		product := &models.Product{
			Name:           strings.TrimSpace(input.Name),
			ProductCode:    strings.TrimSpace(input.ProductCode),
			QuantityOnHand: input.QuantityOnHand,
		}
		if _, err := txRepo.Create(ctx, product); err != nil {
			return err
		}
		if err := txRepo.CreateComponentEdges(ctx, product.ID, componentIDs); err != nil {
			return err
		}

		reloaded, err := txRepo.FindByID(ctx, product.ID)
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
		if db.IsUniqueViolation(err, "idx_products_product_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product code already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return FromModel(created), nil
}

// Update merges the provided fields and, when ComponentIDs is present,
// replaces the component edge set inside the same transaction. Sending an
// empty component set is rejected since it would strip the bill of materials.
func (s *service) Update(ctx context.Context, id uint, input UpdateProductInput) (*ProductDTO, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "fetch product")
	}

	var componentIDs []uint
	if input.ComponentIDs != nil {
		componentIDs = dedupe(*input.ComponentIDs)
		if len(componentIDs) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "a product requires at least one component").
				WithDetails(map[string]string{"componentIds": "must contain at least one component id"})
		}
	}
	if input.QuantityOnHand != nil && *input.QuantityOnHand < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity on hand cannot be negative").
			WithDetails(map[string]string{"quantity_on_hand": "must be zero or positive"})
	}

	fields := map[string]any{}
	if input.Name != nil {
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	if input.ProductCode != nil {
		fields["product_code"] = strings.TrimSpace(*input.ProductCode)
	}
	if input.QuantityOnHand != nil {
		fields["quantity_on_hand"] = *input.QuantityOnHand
	}

	var updated *models.Product
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := txRepo.UpdateFields(ctx, id, fields); err != nil {
			return err
		}
		if input.ComponentIDs != nil {
			if err := ensureComponentsExist(ctx, txRepo, componentIDs); err != nil {
				return err
			}
			if err := txRepo.DeleteComponentEdges(ctx, id); err != nil {
				return err
			}
			if err := txRepo.CreateComponentEdges(ctx, id, componentIDs); err != nil {
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
		if db.IsUniqueViolation(err, "idx_products_product_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product code already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return FromModel(updated), nil
}

// Delete removes the product and its component edges in one transaction.
// Components on the far side of each edge are left untouched.
func (s *service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "fetch product")
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.DeleteComponentEdges(ctx, id); err != nil {
			return err
		}
		return txRepo.Delete(ctx, id)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

func ensureComponentsExist(ctx context.Context, repo *Repository, ids []uint) error {
	count, err := repo.CountComponentsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "one or more component ids do not exist")
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
