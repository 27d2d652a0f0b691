package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNoOwner возвращается при попытке обратиться к корзине с пустым Owner.
var ErrNoOwner = errors.New("cart owner is required")

type Repository struct {
	DB         *gorm.DB
	Users      UserRepo
	Products   ProductRepo
	Sessions   SessionRepo
	CartItems  CartRepo
	Orders     OrderRepo
	OrderItems OrderItemRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:         db,
		Users:      NewUserRepo(db),
		Products:   NewProductRepo(db),
		Sessions:   NewSessionRepo(db),
		CartItems:  NewCartRepo(db),
		Orders:     NewOrderRepo(db),
		OrderItems: NewOrderItemRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

// WithTx выполняет fn в одной транзакции на весь набор репозиториев.
// В юнит-тестах репозиторий собирается из моков без *gorm.DB —
// тогда fn выполняется как есть.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.DB == nil {
		return fn(r)
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}
