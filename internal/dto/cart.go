package dto

import (
	"duzanda/internal/models"
)

type AddToCartRequest struct {
	ProductID string  `json:"product_id" binding:"required,uuid"`
	Quantity  uint32  `json:"quantity" binding:"required,min=1"`
	UnitType  string  `json:"unit_type" binding:"required,oneof=unit package"`
	Size      *string `json:"size"`
}

type AdjustQuantityRequest struct {
	Delta int32 `json:"delta" binding:"required,oneof=1 -1"`
}

type CartItemResponse struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Size      *string `json:"size,omitempty"`
	Quantity  uint32  `json:"quantity"`
	UnitType  string  `json:"unit_type"`
	Price     string  `json:"price"`
	LineTotal string  `json:"line_total"`
}

func NewCartItemResponse(it *models.CartItem) CartItemResponse {
	return CartItemResponse{
		ID:        it.ID.String(),
		ProductID: it.ProductID.String(),
		Name:      it.Product.Name,
		Size:      it.Size,
		Quantity:  it.Quantity,
		UnitType:  string(it.UnitType),
		Price:     it.LinePrice().StringFixed(2),
		LineTotal: it.LineTotal().StringFixed(2),
	}
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total string             `json:"total"`
}

type CartCountResponse struct {
	Count int64 `json:"count"`
}

type CheckoutRequest struct {
	Phone           string `json:"phone" binding:"required"`
	DeliveryAddress string `json:"delivery_address" binding:"required"`
}

// CheckoutResponse: для автосозданного аккаунта покупателя логин и пароль
// возвращаются единственный раз, вместе с токеном входа.
type CheckoutResponse struct {
	Order             OrderResponse  `json:"order"`
	Tokens            *TokenResponse `json:"tokens,omitempty"`
	CreatedAccount    bool           `json:"created_account"`
	GeneratedUsername string         `json:"generated_username,omitempty"`
	GeneratedPassword string         `json:"generated_password,omitempty"`
}
