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

type OrderHandler struct {
	orders service.OrderService
	log    *zap.Logger
}

func NewOrderHandler(orders service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		log:    log,
	}
}

func parseOrderID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid order id", []dto.FieldError{}))
		return uuid.Nil, false
	}
	return id, true
}

// AcceptHandler godoc
// @Summary Принятие заказа мастером
// @Description Переводит новый заказ в accepted. Мастер распоряжается заказом, только если в нём есть его товар.
// @Security BearerAuth
// @Tags orders
// @Produce json
// @Param id path string true "ID заказа"
// @Success 200 {object} dto.OrderResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неавторизован"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Не мастер или чужой заказ"
// @Failure 404 {object} dto.NotFoundErrorResponse "Заказ не найден"
// @Failure 409 {object} dto.ConflictErrorResponse "Недопустимый переход статуса"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/seller/orders/{id}/accept [post]
func (h *OrderHandler) Accept(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}
	order, err := h.orders.Accept(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// RejectHandler godoc
// @Summary Отклонение заказа мастером
// @Security BearerAuth
// @Tags orders
// @Produce json
// @Param id path string true "ID заказа"
// @Success 200 {object} dto.OrderResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неавторизован"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Не мастер или чужой заказ"
// @Failure 404 {object} dto.NotFoundErrorResponse "Заказ не найден"
// @Failure 409 {object} dto.ConflictErrorResponse "Недопустимый переход статуса"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/seller/orders/{id}/reject [post]
func (h *OrderHandler) Reject(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}
	order, err := h.orders.Reject(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// AdvanceStatusHandler godoc
// @Summary Продвижение заказа по цепочке статусов
// @Description accepted -> processing -> shipped -> delivered. При отправке можно указать трек-номер.
// @Security BearerAuth
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "ID заказа"
// @Param status body dto.AdvanceStatusRequest true "Новый статус"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неавторизован"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Не мастер или чужой заказ"
// @Failure 404 {object} dto.NotFoundErrorResponse "Заказ не найден"
// @Failure 409 {object} dto.ConflictErrorResponse "Недопустимый переход статуса"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/seller/orders/{id}/status [post]
func (h *OrderHandler) AdvanceStatus(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req dto.AdvanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	order, err := h.orders.AdvanceStatus(c.Request.Context(), id, models.OrderStatus(req.Status), req.TrackingNumber)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// ConfirmDeliveryHandler godoc
// @Summary Подтверждение получения покупателем
// @Description shipped -> delivered. Доступно только покупателю заказа.
// @Security BearerAuth
// @Tags orders
// @Produce json
// @Param id path string true "ID заказа"
// @Success 200 {object} dto.OrderResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неавторизован"
// @Failure 404 {object} dto.NotFoundErrorResponse "Заказ не найден"
// @Failure 409 {object} dto.ConflictErrorResponse "Недопустимый переход статуса"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/orders/{id}/confirm-delivery [post]
func (h *OrderHandler) ConfirmDelivery(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}
	order, err := h.orders.ConfirmDelivery(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// GetMyOrderHandler godoc
// @Summary Заказ покупателя
// @Security BearerAuth
// @Tags orders
// @Produce json
// @Param id path string true "ID заказа"
// @Success 200 {object} dto.OrderResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неавторизован"
// @Failure 404 {object} dto.NotFoundErrorResponse "Заказ не найден"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/orders/{id} [get]
func (h *OrderHandler) GetMyOrder(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}
	order, err := h.orders.GetMyOrder(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// ListMyOrdersHandler godoc
// @Summary Заказы покупателя
// @Security BearerAuth
// @Tags orders
// @Produce json
// @Success 200 {object} dto.OrderListResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неавторизован"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/orders [get]
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	orders, err := h.orders.ListMyOrders(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderListResponse(orders))
}

// FindByPhoneHandler godoc
// @Summary Поиск заказов по номеру телефона
// @Description Гостевой поиск заказов по номеру, указанному при оформлении.
// @Tags orders
// @Produce json
// @Param phone query string true "Номер телефона"
// @Success 200 {object} dto.OrderListResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверный номер"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/orders/by-phone [get]
func (h *OrderHandler) FindByPhone(c *gin.Context) {
	phone := c.Query("phone")
	orders, err := h.orders.FindOrdersByPhone(c.Request.Context(), phone)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderListResponse(orders))
}

// ListSellerOrdersHandler godoc
// @Summary Заказы мастера
// @Description Заказы, содержащие товары мастера; в каждом — только его позиции.
// @Security BearerAuth
// @Tags orders
// @Produce json
// @Success 200 {object} dto.SellerOrderListResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неавторизован"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Не мастер"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/seller/orders [get]
func (h *OrderHandler) ListSellerOrders(c *gin.Context) {
	list, err := h.orders.ListSellerOrders(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSellerOrderListResponse(list))
}
