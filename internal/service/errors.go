package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrProductNotFound    = errors.New("product not found")
	ErrLineNotFound       = errors.New("cart line not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrQuantityInvalid    = errors.New("quantity must be > 0")
	ErrUnitTypeInvalid    = errors.New("unknown unit type")
	ErrInvalidTransition  = errors.New("order status transition not allowed")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPhoneInvalid       = errors.New("phone must contain at least 10 digits")
	ErrAddressRequired    = errors.New("delivery address is required")
	ErrNameRequired       = errors.New("product name is required")
	ErrPriceNegative      = errors.New("price must not be negative")
)

// InsufficientStockError — запрошенное количество превышает остаток;
// Available сообщается покупателю.
type InsufficientStockError struct {
	Available uint32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: only %d available", e.Available)
}
