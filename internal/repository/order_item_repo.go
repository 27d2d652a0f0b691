package repository

import (
	"context"

	"duzanda/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderItemRepo interface {
	BulkCreate(ctx context.Context, items []models.OrderItem) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	// ListByOrderForMaster — подмножество позиций заказа, относящихся
	// к товарам мастера.
	ListByOrderForMaster(ctx context.Context, orderID, masterID uuid.UUID) ([]models.OrderItem, error)
	// ExistsForMaster — есть ли в заказе хотя бы один товар мастера.
	ExistsForMaster(ctx context.Context, orderID, masterID uuid.UUID) (bool, error)
}

type orderItemRepo struct{ db *gorm.DB }

func NewOrderItemRepo(db *gorm.DB) OrderItemRepo { return &orderItemRepo{db: db} }

func (r *orderItemRepo) BulkCreate(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *orderItemRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var rows []models.OrderItem
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).
		Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *orderItemRepo) ListByOrderForMaster(ctx context.Context, orderID, masterID uuid.UUID) ([]models.OrderItem, error) {
	var rows []models.OrderItem
	err := r.db.WithContext(ctx).
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ? AND products.master_id = ?", orderID, masterID).
		Order("order_items.created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *orderItemRepo) ExistsForMaster(ctx context.Context, orderID, masterID uuid.UUID) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ? AND products.master_id = ?", orderID, masterID).
		Count(&cnt).Error
	return cnt > 0, err
}
