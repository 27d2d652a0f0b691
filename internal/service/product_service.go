package service

import (
	"context"
	"strings"
	"time"

	"duzanda/internal/models"
	"duzanda/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type productService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewProductService(repo *repository.Repository, log *zap.Logger) ProductService {
	return &productService{
		repo: repo,
		now:  time.Now,
		log:  log,
	}
}

func (s *productService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	uid, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if role != models.RoleMaster {
		return nil, ErrForbidden
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if in.PricePerUnit.IsNegative() || in.PricePerPackage.IsNegative() {
		return nil, ErrPriceNegative
	}

	qty := in.QuantityInPackage
	if qty == 0 {
		qty = 1
	}

	p := &models.Product{
		MasterID:          uid,
		Name:              name,
		Description:       in.Description,
		Volume:            in.Volume,
		PackageType:       in.PackageType,
		QuantityInPackage: qty,
		PricePerUnit:      in.PricePerUnit,
		PricePerPackage:   in.PricePerPackage,
		// Устаревшее поле цены держится равным цене за единицу.
		Price: in.PricePerUnit,
		Stock: in.Stock,
	}
	if in.OldPrice != nil {
		p.OldPrice = decimal.NewNullDecimal(*in.OldPrice)
	}

	if err := s.repo.Products.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("Товар создан",
		zap.String("product_id", p.ID.String()),
		zap.String("master_id", uid.String()),
	)
	return p, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, patch ProductPatch) (*models.Product, error) {
	uid, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if role != models.RoleMaster {
		return nil, ErrForbidden
	}

	p, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.MasterID != uid {
		return nil, ErrProductNotFound
	}

	fields := map[string]any{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		fields["name"] = name
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Volume != nil {
		fields["volume"] = *patch.Volume
	}
	if patch.PackageType != nil {
		fields["package_type"] = *patch.PackageType
	}
	if patch.QuantityInPackage != nil {
		qty := *patch.QuantityInPackage
		if qty == 0 {
			qty = 1
		}
		fields["quantity_in_package"] = qty
	}
	if patch.PricePerUnit != nil {
		if patch.PricePerUnit.IsNegative() {
			return nil, ErrPriceNegative
		}
		fields["price_per_unit"] = *patch.PricePerUnit
		fields["price"] = *patch.PricePerUnit
	}
	if patch.PricePerPackage != nil {
		if patch.PricePerPackage.IsNegative() {
			return nil, ErrPriceNegative
		}
		fields["price_per_package"] = *patch.PricePerPackage
	}
	if patch.OldPrice != nil {
		fields["old_price"] = *patch.OldPrice
	}
	if patch.Stock != nil {
		fields["stock"] = *patch.Stock
	}

	if len(fields) > 0 {
		if err := s.repo.Products.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	return s.repo.Products.GetByID(ctx, id)
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	uid, role, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	if role != models.RoleMaster {
		return ErrForbidden
	}

	ok, err := s.repo.Products.DeleteByMaster(ctx, id, uid)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProductNotFound
	}

	s.log.Info("Товар удалён", zap.String("product_id", id.String()))
	return nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *productService) List(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.repo.Products.List(ctx, f)
}
