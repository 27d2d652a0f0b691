package repository

import (
	"context"
	"errors"

	"duzanda/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepo interface {
	Create(ctx context.Context, item *models.CartItem) error
	// GetLineForUpdate берёт строку по ключу слияния (owner, product, unit_type)
	// под блокировкой строки; вызывать внутри WithTx.
	GetLineForUpdate(ctx context.Context, owner models.Owner, productID uuid.UUID, unit models.UnitType) (*models.CartItem, error)
	GetByID(ctx context.Context, owner models.Owner, id uuid.UUID) (*models.CartItem, error)
	AddQuantity(ctx context.Context, id uuid.UUID, qty uint32) error
	// AdjustQuantity атомарно меняет количество на delta; false — изменение
	// опустило бы количество ниже 1, строка не тронута.
	AdjustQuantity(ctx context.Context, owner models.Owner, id uuid.UUID, delta int32) (bool, error)
	Delete(ctx context.Context, owner models.Owner, id uuid.UUID) (bool, error)
	ListByOwner(ctx context.Context, owner models.Owner) ([]models.CartItem, error)
	SumQuantity(ctx context.Context, owner models.Owner) (int64, error)
	// MergeSessionIntoBuyer переносит строки анонимной сессии покупателю:
	// совпадающие по (product, unit_type) строки сливаются суммированием,
	// остальные меняют владельца. Вызывать внутри WithTx.
	MergeSessionIntoBuyer(ctx context.Context, token string, buyerID uuid.UUID) error
	DeleteByOwner(ctx context.Context, owner models.Owner) (int64, error)
}

type cartRepo struct{ db *gorm.DB }

func NewCartRepo(db *gorm.DB) CartRepo { return &cartRepo{db: db} }

// ownerScope — все запросы к корзине всегда фильтруются по владельцу.
func ownerScope(q *gorm.DB, owner models.Owner) *gorm.DB {
	if uid, ok := owner.UserID(); ok {
		return q.Where("buyer_id = ?", uid)
	}
	token, _ := owner.SessionToken()
	return q.Where("session_token = ?", token)
}

func (r *cartRepo) Create(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *cartRepo) GetLineForUpdate(ctx context.Context, owner models.Owner, productID uuid.UUID, unit models.UnitType) (*models.CartItem, error) {
	if owner.IsZero() {
		return nil, ErrNoOwner
	}
	var item models.CartItem
	q := ownerScope(r.db.WithContext(ctx), owner).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND unit_type = ?", productID, unit)
	err := q.First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepo) GetByID(ctx context.Context, owner models.Owner, id uuid.UUID) (*models.CartItem, error) {
	if owner.IsZero() {
		return nil, ErrNoOwner
	}
	var item models.CartItem
	err := ownerScope(r.db.WithContext(ctx), owner).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepo) AddQuantity(ctx context.Context, id uuid.UUID, qty uint32) error {
	return r.db.WithContext(ctx).Exec(`
UPDATE cart_items
SET quantity = quantity + @q
WHERE id = @id
`, map[string]any{"id": id, "q": qty}).Error
}

func (r *cartRepo) AdjustQuantity(ctx context.Context, owner models.Owner, id uuid.UUID, delta int32) (bool, error) {
	if owner.IsZero() {
		return false, ErrNoOwner
	}
	tx := ownerScope(r.db.WithContext(ctx).Model(&models.CartItem{}), owner).
		Where("id = ? AND quantity + ? >= 1", id, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	return tx.RowsAffected > 0, tx.Error
}

func (r *cartRepo) Delete(ctx context.Context, owner models.Owner, id uuid.UUID) (bool, error) {
	if owner.IsZero() {
		return false, ErrNoOwner
	}
	tx := ownerScope(r.db.WithContext(ctx), owner).Where("id = ?", id).Delete(&models.CartItem{})
	return tx.RowsAffected > 0, tx.Error
}

func (r *cartRepo) ListByOwner(ctx context.Context, owner models.Owner) ([]models.CartItem, error) {
	if owner.IsZero() {
		return nil, ErrNoOwner
	}
	var items []models.CartItem
	err := ownerScope(r.db.WithContext(ctx), owner).
		Preload("Product").Order("added_at ASC").Find(&items).Error
	return items, err
}

func (r *cartRepo) SumQuantity(ctx context.Context, owner models.Owner) (int64, error) {
	if owner.IsZero() {
		return 0, ErrNoOwner
	}
	var sum int64
	err := ownerScope(r.db.WithContext(ctx).Model(&models.CartItem{}), owner).
		Select("COALESCE(SUM(quantity), 0)").Scan(&sum).Error
	return sum, err
}

func (r *cartRepo) MergeSessionIntoBuyer(ctx context.Context, token string, buyerID uuid.UUID) error {
	db := r.db.WithContext(ctx)
	args := map[string]any{"token": token, "buyer": buyerID}

	// Суммируем количество в уже существующие строки покупателя.
	if err := db.Exec(`
UPDATE cart_items AS b
SET quantity = b.quantity + s.quantity
FROM cart_items AS s
WHERE b.buyer_id = @buyer
  AND s.session_token = @token
  AND b.product_id = s.product_id
  AND b.unit_type = s.unit_type
`, args).Error; err != nil {
		return err
	}

	// Удаляем влитые сессионные строки.
	if err := db.Exec(`
DELETE FROM cart_items AS s
WHERE s.session_token = @token
  AND EXISTS (
    SELECT 1 FROM cart_items AS b
    WHERE b.buyer_id = @buyer
      AND b.product_id = s.product_id
      AND b.unit_type = s.unit_type
  )
`, args).Error; err != nil {
		return err
	}

	// Остальные строки просто меняют владельца, токен обнуляется.
	return db.Exec(`
UPDATE cart_items
SET buyer_id = @buyer,
    session_token = NULL
WHERE session_token = @token
`, args).Error
}

func (r *cartRepo) DeleteByOwner(ctx context.Context, owner models.Owner) (int64, error) {
	if owner.IsZero() {
		return 0, ErrNoOwner
	}
	tx := ownerScope(r.db.WithContext(ctx), owner).
		Where("1 = 1").Delete(&models.CartItem{})
	return tx.RowsAffected, tx.Error
}
