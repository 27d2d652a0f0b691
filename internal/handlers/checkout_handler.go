package handlers

import (
	"net/http"
	"time"

	"duzanda/internal/dto"
	"duzanda/internal/service"
	"duzanda/internal/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	checkout  service.CheckoutService
	resolver  *service.IdentityResolver
	tokens    *token.HSProvider
	accessTTL time.Duration
	log       *zap.Logger
}

func NewCheckoutHandler(checkout service.CheckoutService, resolver *service.IdentityResolver, tokens *token.HSProvider, accessTTL time.Duration, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout:  checkout,
		resolver:  resolver,
		tokens:    tokens,
		accessTTL: accessTTL,
		log:       log,
	}
}

// CheckoutHandler godoc
// @Summary Оформление заказа
// @Description Оформляет заказ из корзины. Анонимная корзина вливается в корзину покупателя, найденного или созданного по номеру телефона; в ответе выдаётся токен входа.
// @Tags checkout
// @Accept json
// @Produce json
// @Param checkout body dto.CheckoutRequest true "Телефон и адрес доставки"
// @Success 200 {object} dto.CheckoutResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Пустая корзина или неверные данные"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Невалидный запрос оформления заказа", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	owner, err := resolveOwner(c, h.resolver)
	if err != nil {
		h.log.Error("Не удалось определить владельца корзины", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	res, err := h.checkout.Checkout(c.Request.Context(), owner, service.CheckoutInput{
		Phone:           req.Phone,
		DeliveryAddress: req.DeliveryAddress,
	})
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	resp := dto.CheckoutResponse{
		Order:             dto.NewOrderResponse(res.Order),
		CreatedAccount:    res.CreatedAccount,
		GeneratedUsername: res.GeneratedUsername,
		GeneratedPassword: res.GeneratedPassword,
	}

	// Аноним после оформления оказывается залогинен под покупателем,
	// сессионная кука корзины больше не нужна.
	if !owner.IsUser() {
		signed, exp, err := h.tokens.SignAccess(res.Buyer.ID, res.Buyer.Role, h.accessTTL)
		if err != nil {
			h.log.Error("Не удалось выписать access токен", zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
			return
		}
		tokens := dto.NewTokenResponse(signed, exp)
		resp.Tokens = &tokens
		c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	}

	c.JSON(http.StatusOK, resp)
}
