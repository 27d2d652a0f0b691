package dto

import (
	"time"

	"duzanda/internal/models"
	"duzanda/internal/service"
)

type OrderItemResponse struct {
	ID        string  `json:"id"`
	ProductID *string `json:"product_id,omitempty"`
	Quantity  uint32  `json:"quantity"`
	Price     string  `json:"price"`
}

func NewOrderItemResponse(it *models.OrderItem) OrderItemResponse {
	resp := OrderItemResponse{
		ID:       it.ID.String(),
		Quantity: it.Quantity,
		Price:    it.Price.StringFixed(2),
	}
	if it.ProductID != nil {
		s := it.ProductID.String()
		resp.ProductID = &s
	}
	return resp
}

type OrderResponse struct {
	ID              string              `json:"id"`
	Status          string              `json:"status"`
	PhoneNumber     string              `json:"phone_number"`
	DeliveryAddress string              `json:"delivery_address"`
	TotalAmount     string              `json:"total_amount"`
	TrackingNumber  *string             `json:"tracking_number,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	Items           []OrderItemResponse `json:"items"`
}

func NewOrderResponse(o *models.Order) OrderResponse {
	resp := OrderResponse{
		ID:              o.ID.String(),
		Status:          string(o.Status),
		PhoneNumber:     o.PhoneNumber,
		DeliveryAddress: o.DeliveryAddress,
		TotalAmount:     o.TotalAmount.StringFixed(2),
		TrackingNumber:  o.TrackingNumber,
		CreatedAt:       o.CreatedAt,
		Items:           make([]OrderItemResponse, 0, len(o.Items)),
	}
	for i := range o.Items {
		resp.Items = append(resp.Items, NewOrderItemResponse(&o.Items[i]))
	}
	return resp
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
}

func NewOrderListResponse(orders []models.Order) OrderListResponse {
	resp := OrderListResponse{Orders: make([]OrderResponse, 0, len(orders))}
	for i := range orders {
		resp.Orders = append(resp.Orders, NewOrderResponse(&orders[i]))
	}
	return resp
}

type AdvanceStatusRequest struct {
	Status         string  `json:"status" binding:"required,oneof=processing shipped delivered"`
	TrackingNumber *string `json:"tracking_number"`
}

// SellerOrderResponse — заказ глазами мастера: только его позиции.
type SellerOrderResponse struct {
	Order OrderResponse       `json:"order"`
	Items []OrderItemResponse `json:"items"`
}

type SellerOrderListResponse struct {
	Orders []SellerOrderResponse `json:"orders"`
}

func NewSellerOrderListResponse(list []service.SellerOrder) SellerOrderListResponse {
	resp := SellerOrderListResponse{Orders: make([]SellerOrderResponse, 0, len(list))}
	for i := range list {
		so := SellerOrderResponse{
			Order: NewOrderResponse(&list[i].Order),
			Items: make([]OrderItemResponse, 0, len(list[i].Items)),
		}
		for j := range list[i].Items {
			so.Items = append(so.Items, NewOrderItemResponse(&list[i].Items[j]))
		}
		resp.Orders = append(resp.Orders, so)
	}
	return resp
}
