package handlers

import (
	"net/http"
	"strconv"

	"duzanda/internal/dto"
	"duzanda/internal/repository"
	"duzanda/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductHandler struct {
	products service.ProductService
	log      *zap.Logger
}

func NewProductHandler(products service.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		log:      log,
	}
}

func parsePrice(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// CreateProductHandler godoc
// @Summary Создание товара
// @Security BearerAuth
// @Tags products
// @Accept json
// @Produce json
// @Param product body dto.CreateProductRequest true "Данные товара"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неавторизован"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Не мастер"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Невалидный запрос создания товара", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	perUnit, ok := parsePrice(req.PricePerUnit)
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid price_per_unit", []dto.FieldError{}))
		return
	}
	perPackage, ok := parsePrice(req.PricePerPackage)
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid price_per_package", []dto.FieldError{}))
		return
	}

	in := service.ProductInput{
		Name:              req.Name,
		Description:       req.Description,
		Volume:            req.Volume,
		PackageType:       req.PackageType,
		QuantityInPackage: req.QuantityInPackage,
		PricePerUnit:      perUnit,
		PricePerPackage:   perPackage,
		Stock:             req.Stock,
	}
	if req.OldPrice != nil {
		old, ok := parsePrice(*req.OldPrice)
		if !ok {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid old_price", []dto.FieldError{}))
			return
		}
		in.OldPrice = &old
	}

	p, err := h.products.Create(c.Request.Context(), in)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductResponse(p))
}

// UpdateProductHandler godoc
// @Summary Обновление товара
// @Description Частичное обновление; менять можно только свои товары.
// @Security BearerAuth
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "ID товара"
// @Param product body dto.UpdateProductRequest true "Изменяемые поля"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неавторизован"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Не мастер"
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/products/{id} [patch]
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id", []dto.FieldError{}))
		return
	}

	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	patch := service.ProductPatch{
		Name:              req.Name,
		Description:       req.Description,
		Volume:            req.Volume,
		PackageType:       req.PackageType,
		QuantityInPackage: req.QuantityInPackage,
		Stock:             req.Stock,
	}
	if req.PricePerUnit != nil {
		d, ok := parsePrice(*req.PricePerUnit)
		if !ok {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid price_per_unit", []dto.FieldError{}))
			return
		}
		patch.PricePerUnit = &d
	}
	if req.PricePerPackage != nil {
		d, ok := parsePrice(*req.PricePerPackage)
		if !ok {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid price_per_package", []dto.FieldError{}))
			return
		}
		patch.PricePerPackage = &d
	}
	if req.OldPrice != nil {
		d, ok := parsePrice(*req.OldPrice)
		if !ok {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid old_price", []dto.FieldError{}))
			return
		}
		patch.OldPrice = &d
	}

	p, err := h.products.Update(c.Request.Context(), id, patch)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductResponse(p))
}

// DeleteProductHandler godoc
// @Summary Удаление товара
// @Description Удалять можно только свои товары. Позиции прошлых заказов сохраняют цену.
// @Security BearerAuth
// @Tags products
// @Produce json
// @Param id path string true "ID товара"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверный ID"
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неавторизован"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Не мастер"
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id", []dto.FieldError{}))
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse("product deleted"))
}

// GetProductHandler godoc
// @Summary Карточка товара
// @Tags products
// @Produce json
// @Param id path string true "ID товара"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверный ID"
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id", []dto.FieldError{}))
		return
	}

	p, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductResponse(p))
}

// ListProductsHandler godoc
// @Summary Каталог товаров
// @Description Список товаров с поиском по названию/описанию и пагинацией.
// @Tags products
// @Produce json
// @Param q query string false "Поисковая строка"
// @Param master_id query string false "Фильтр по мастеру"
// @Param limit query int false "Размер страницы (по умолчанию 20)"
// @Param offset query int false "Смещение"
// @Success 200 {object} dto.ProductListResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные параметры"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	f := repository.ProductListFilter{
		Query: c.Query("q"),
	}
	if s := c.Query("master_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid master_id", []dto.FieldError{}))
			return
		}
		f.MasterID = &id
	}
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid limit", []dto.FieldError{}))
			return
		}
		f.Limit = n
	}
	if s := c.Query("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid offset", []dto.FieldError{}))
			return
		}
		f.Offset = n
	}

	list, total, err := h.products.List(c.Request.Context(), f)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductListResponse(list, total))
}
