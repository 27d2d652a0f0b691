package handlers

import (
	"net/http"

	"duzanda/internal/dto"
	"duzanda/internal/models"
	"duzanda/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartHandler struct {
	carts    service.CartService
	resolver *service.IdentityResolver
	log      *zap.Logger
}

func NewCartHandler(carts service.CartService, resolver *service.IdentityResolver, log *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:    carts,
		resolver: resolver,
		log:      log,
	}
}

// AddHandler godoc
// @Summary Добавление товара в корзину
// @Description Добавляет товар в корзину покупателя или анонимной сессии. Совпадающая строка (товар + тип единицы) суммируется.
// @Tags cart
// @Accept json
// @Produce json
// @Param item body dto.AddToCartRequest true "Товар и количество"
// @Success 200 {object} dto.CartItemResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Failure 409 {object} dto.StockErrorResponse "Недостаточно остатка"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/cart/items [post]
func (h *CartHandler) Add(c *gin.Context) {
	var req dto.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Невалидный запрос добавления в корзину", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product_id", []dto.FieldError{}))
		return
	}

	owner, err := resolveOwner(c, h.resolver)
	if err != nil {
		h.log.Error("Не удалось определить владельца корзины", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	item, err := h.carts.Add(c.Request.Context(), owner, service.AddToCartInput{
		ProductID: productID,
		Quantity:  req.Quantity,
		UnitType:  models.UnitType(req.UnitType),
		Size:      req.Size,
	})
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCartItemResponse(item))
}

// AdjustHandler godoc
// @Summary Изменение количества строки корзины
// @Description Меняет количество строки на +1 или -1. Уменьшение с количества 1 ничего не делает.
// @Tags cart
// @Accept json
// @Produce json
// @Param id path string true "ID строки корзины"
// @Param delta body dto.AdjustQuantityRequest true "Изменение количества"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 404 {object} dto.NotFoundErrorResponse "Строка не найдена"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/cart/items/{id} [patch]
func (h *CartHandler) Adjust(c *gin.Context) {
	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid line id", []dto.FieldError{}))
		return
	}

	var req dto.AdjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	owner, err := resolveOwner(c, h.resolver)
	if err != nil {
		h.log.Error("Не удалось определить владельца корзины", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	if err := h.carts.AdjustQuantity(c.Request.Context(), owner, lineID, req.Delta); err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("quantity updated"))
}

// RemoveHandler godoc
// @Summary Удаление строки корзины
// @Tags cart
// @Produce json
// @Param id path string true "ID строки корзины"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверный ID"
// @Failure 404 {object} dto.NotFoundErrorResponse "Строка не найдена"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/cart/items/{id} [delete]
func (h *CartHandler) Remove(c *gin.Context) {
	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid line id", []dto.FieldError{}))
		return
	}

	owner, err := resolveOwner(c, h.resolver)
	if err != nil {
		h.log.Error("Не удалось определить владельца корзины", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	if err := h.carts.Remove(c.Request.Context(), owner, lineID); err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("line removed"))
}

// ListHandler godoc
// @Summary Содержимое корзины
// @Description Строки корзины с ценами по типу единицы и общей суммой.
// @Tags cart
// @Produce json
// @Success 200 {object} dto.CartResponse
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/cart [get]
func (h *CartHandler) List(c *gin.Context) {
	owner, err := resolveOwner(c, h.resolver)
	if err != nil {
		h.log.Error("Не удалось определить владельца корзины", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	items, total, err := h.carts.List(c.Request.Context(), owner)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	resp := dto.CartResponse{
		Items: make([]dto.CartItemResponse, 0, len(items)),
		Total: total.StringFixed(2),
	}
	for i := range items {
		resp.Items = append(resp.Items, dto.NewCartItemResponse(&items[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// CountHandler godoc
// @Summary Счётчик корзины
// @Description Суммарное количество единиц в корзине (бейдж в шапке).
// @Tags cart
// @Produce json
// @Success 200 {object} dto.CartCountResponse
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/cart/count [get]
func (h *CartHandler) Count(c *gin.Context) {
	owner, err := resolveOwner(c, h.resolver)
	if err != nil {
		h.log.Error("Не удалось определить владельца корзины", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	n, err := h.carts.Count(c.Request.Context(), owner)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.CartCountResponse{Count: n})
}
