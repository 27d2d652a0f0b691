package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"duzanda/internal/models"
	"duzanda/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const countCacheTTL = 60 * time.Second

type cartService struct {
	repo   *repository.Repository
	counts CountCache // может быть nil
	now    func() time.Time
	log    *zap.Logger
}

func NewCartService(repo *repository.Repository, counts CountCache, log *zap.Logger) CartService {
	return &cartService{
		repo:   repo,
		counts: counts,
		now:    time.Now,
		log:    log,
	}
}

func countCacheKey(owner models.Owner) string {
	if uid, ok := owner.UserID(); ok {
		return fmt.Sprintf("cart:count:user:%s", uid)
	}
	token, _ := owner.SessionToken()
	return fmt.Sprintf("cart:count:session:%s", token)
}

func (s *cartService) invalidateCount(ctx context.Context, owners ...models.Owner) {
	if s.counts == nil {
		return
	}
	keys := make([]string, 0, len(owners))
	for _, o := range owners {
		if !o.IsZero() {
			keys = append(keys, countCacheKey(o))
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := s.counts.Del(ctx, keys...); err != nil {
		s.log.Warn("Не удалось сбросить кэш счётчика корзины", zap.Error(err))
	}
}

func (s *cartService) Add(ctx context.Context, owner models.Owner, in AddToCartInput) (*models.CartItem, error) {
	if in.Quantity == 0 {
		return nil, ErrQuantityInvalid
	}
	if !in.UnitType.Valid() {
		return nil, ErrUnitTypeInvalid
	}

	var line *models.CartItem
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		product, err := tx.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}

		// Строка берётся под блокировкой: одновременные добавления одной
		// позиции не теряют количество.
		existing, err := tx.CartItems.GetLineForUpdate(ctx, owner, in.ProductID, in.UnitType)
		if err != nil {
			return err
		}

		if existing != nil {
			remaining := int64(product.Stock) - int64(existing.Quantity)
			if remaining < 0 {
				remaining = 0
			}
			if int64(in.Quantity) > remaining {
				return &InsufficientStockError{Available: uint32(remaining)}
			}
			if err := tx.CartItems.AddQuantity(ctx, existing.ID, in.Quantity); err != nil {
				return err
			}
			existing.Quantity += in.Quantity
			line = existing
			return nil
		}

		if in.Quantity > product.Stock {
			return &InsufficientStockError{Available: product.Stock}
		}

		item := &models.CartItem{
			ProductID: in.ProductID,
			Size:      in.Size,
			Quantity:  in.Quantity,
			UnitType:  in.UnitType,
			AddedAt:   s.now(),
		}
		if uid, ok := owner.UserID(); ok {
			item.BuyerID = &uid
		} else if token, ok := owner.SessionToken(); ok {
			item.SessionToken = &token
		} else {
			return repository.ErrNoOwner
		}

		if err := tx.CartItems.Create(ctx, item); err != nil {
			return err
		}
		line = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCount(ctx, owner)
	return line, nil
}

func (s *cartService) AdjustQuantity(ctx context.Context, owner models.Owner, lineID uuid.UUID, delta int32) error {
	if delta != 1 && delta != -1 {
		return ErrQuantityInvalid
	}

	item, err := s.repo.CartItems.GetByID(ctx, owner, lineID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrLineNotFound
	}

	// Уменьшение с количества 1 — no-op, не удаление.
	ok, err := s.repo.CartItems.AdjustQuantity(ctx, owner, lineID, delta)
	if err != nil {
		return err
	}
	if ok {
		s.invalidateCount(ctx, owner)
	}
	return nil
}

func (s *cartService) Remove(ctx context.Context, owner models.Owner, lineID uuid.UUID) error {
	ok, err := s.repo.CartItems.Delete(ctx, owner, lineID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrLineNotFound
	}
	s.invalidateCount(ctx, owner)
	return nil
}

func (s *cartService) List(ctx context.Context, owner models.Owner) ([]models.CartItem, decimal.Decimal, error) {
	items, err := s.repo.CartItems.ListByOwner(ctx, owner)
	if err != nil {
		return nil, decimal.Zero, err
	}

	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].LineTotal())
	}
	return items, total, nil
}

func (s *cartService) Count(ctx context.Context, owner models.Owner) (int64, error) {
	key := countCacheKey(owner)

	if s.counts != nil {
		if v, err := s.counts.Get(ctx, key); err == nil {
			if n, perr := strconv.ParseInt(v, 10, 64); perr == nil {
				return n, nil
			}
		}
	}

	n, err := s.repo.CartItems.SumQuantity(ctx, owner)
	if err != nil {
		return 0, err
	}

	if s.counts != nil {
		if err := s.counts.Set(ctx, key, n, countCacheTTL); err != nil {
			s.log.Warn("Не удалось записать счётчик корзины в кэш", zap.Error(err))
		}
	}
	return n, nil
}
