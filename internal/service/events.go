package service

import (
	"context"
	"time"

	"duzanda/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderItemEvent struct {
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Quantity  uint32          `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderCreatedEvent struct {
	OrderID     uuid.UUID        `json:"order_id"`
	BuyerID     uuid.UUID        `json:"buyer_id"`
	PhoneNumber string           `json:"phone_number"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	Items       []OrderItemEvent `json:"items"`
	CreatedAt   time.Time        `json:"created_at"`
}

type OrderStatusChangedEvent struct {
	OrderID   uuid.UUID          `json:"order_id"`
	From      models.OrderStatus `json:"from"`
	To        models.OrderStatus `json:"to"`
	ActorID   uuid.UUID          `json:"actor_id"`
	ChangedAt time.Time          `json:"changed_at"`
}

// EventBus может быть nil — тогда публикация отключена.
type EventBus interface {
	PublishOrderCreated(ctx context.Context, ev OrderCreatedEvent) error
	PublishOrderStatusChanged(ctx context.Context, ev OrderStatusChangedEvent) error
}
