package handlers

import (
	"errors"
	"net/http"

	"duzanda/internal/dto"
	"duzanda/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeServiceError переводит ошибки сервисного слоя в HTTP-ответы.
// Неизвестная ошибка логируется и отдаётся как 500 без деталей.
func writeServiceError(c *gin.Context, log *zap.Logger, err error) {
	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusConflict, dto.NewStockError(stockErr.Error(), stockErr.Available))
		return
	}

	switch {
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("unauthorized"))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid credentials"))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.NewForbiddenError("forbidden"))
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, dto.NewNotFoundError("product not found"))
	case errors.Is(err, service.ErrLineNotFound):
		c.JSON(http.StatusNotFound, dto.NewNotFoundError("cart line not found"))
	case errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, dto.NewNotFoundError("order not found"))
	case errors.Is(err, service.ErrUsernameExists):
		c.JSON(http.StatusConflict, dto.NewConflictError("username already exists"))
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, dto.NewConflictError("order status transition not allowed"))
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrQuantityInvalid),
		errors.Is(err, service.ErrUnitTypeInvalid),
		errors.Is(err, service.ErrPhoneInvalid),
		errors.Is(err, service.ErrAddressRequired),
		errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrPriceNegative):
		c.JSON(http.StatusBadRequest, dto.NewValidationError(err.Error(), []dto.FieldError{}))
	default:
		log.Error("Необработанная ошибка сервиса", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
	}
}
