package repository

import (
	"context"
	"errors"

	"duzanda/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepo interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByIDForBuyer(ctx context.Context, id, buyerID uuid.UUID) (*models.Order, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error)
	ListByPhone(ctx context.Context, phone string) ([]models.Order, error)
	// ListForMaster возвращает заказы, содержащие хотя бы один товар мастера.
	ListForMaster(ctx context.Context, masterID uuid.UUID) ([]models.Order, error)
	// UpdateStatusFrom — CAS-переход: статус меняется, только если текущий
	// совпадает с from. false — заказ уже не в статусе from.
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to models.OrderStatus, tracking *string) (bool, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&ord, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ord, nil
}

func (r *orderRepo) GetByIDForBuyer(ctx context.Context, id, buyerID uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).Preload("Items").
		First(&ord, "id = ? AND buyer_id = ?", id, buyerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ord, nil
}

func (r *orderRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	var list []models.Order
	err := r.db.WithContext(ctx).Where("buyer_id = ?", buyerID).
		Order("created_at DESC").Preload("Items").Find(&list).Error
	return list, err
}

func (r *orderRepo) ListByPhone(ctx context.Context, phone string) ([]models.Order, error) {
	var list []models.Order
	err := r.db.WithContext(ctx).Where("phone_number = ?", phone).
		Order("created_at DESC").Preload("Items").Find(&list).Error
	return list, err
}

func (r *orderRepo) ListForMaster(ctx context.Context, masterID uuid.UUID) ([]models.Order, error) {
	var list []models.Order
	err := r.db.WithContext(ctx).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.master_id = ?", masterID).
		Group("orders.id").
		Order("MAX(orders.created_at) DESC").
		Find(&list).Error
	return list, err
}

func (r *orderRepo) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to models.OrderStatus, tracking *string) (bool, error) {
	upd := map[string]any{
		"status":     to,
		"updated_at": gorm.Expr("now()"),
	}
	if tracking != nil {
		upd["tracking_number"] = *tracking
	}
	tx := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(upd)
	return tx.RowsAffected > 0, tx.Error
}
