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

type AuthHandler struct {
	auth      service.AuthService
	tokens    *token.HSProvider
	accessTTL time.Duration
	log       *zap.Logger
}

func NewAuthHandler(auth service.AuthService, tokens *token.HSProvider, accessTTL time.Duration, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		tokens:    tokens,
		accessTTL: accessTTL,
		log:       log,
	}
}

// RegisterMasterHandler godoc
// @Summary Регистрация мастера
// @Description Создаёт аккаунт продавца. Покупатели отдельно не регистрируются, их аккаунты появляются при оформлении заказа.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterMasterRequest true "Данные регистрации"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 409 {object} dto.ConflictErrorResponse "Логин уже занят"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/auth/register-master [post]
func (h *AuthHandler) RegisterMaster(c *gin.Context) {
	var req dto.RegisterMasterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Невалидный запрос регистрации", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	u, err := h.auth.RegisterMaster(c.Request.Context(), service.RegisterMasterInput{
		Username: req.Username,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	signed, exp, err := h.tokens.SignAccess(u.ID, u.Role, h.accessTTL)
	if err != nil {
		h.log.Error("Не удалось выписать access токен", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		User:   dto.NewUserResponse(u),
		Tokens: dto.NewTokenResponse(signed, exp),
	})
}

// LoginHandler godoc
// @Summary Вход по логину и паролю
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Данные авторизации"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неверный логин или пароль"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Невалидный запрос входа", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	u, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	signed, exp, err := h.tokens.SignAccess(u.ID, u.Role, h.accessTTL)
	if err != nil {
		h.log.Error("Не удалось выписать access токен", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		User:   dto.NewUserResponse(u),
		Tokens: dto.NewTokenResponse(signed, exp),
	})
}

// PhoneLoginHandler godoc
// @Summary Вход покупателя по номеру телефона
// @Description Находит покупателя по номеру или создаёт новый аккаунт со сгенерированным логином.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.PhoneLoginRequest true "Номер телефона"
// @Success 200 {object} dto.PhoneLoginResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверный номер"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/auth/login-phone [post]
func (h *AuthHandler) PhoneLogin(c *gin.Context) {
	var req dto.PhoneLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Невалидный запрос входа по телефону", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	u, created, err := h.auth.LoginByPhone(c.Request.Context(), req.Phone)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	signed, exp, err := h.tokens.SignAccess(u.ID, u.Role, h.accessTTL)
	if err != nil {
		h.log.Error("Не удалось выписать access токен", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.JSON(http.StatusOK, dto.PhoneLoginResponse{
		User:    dto.NewUserResponse(u),
		Tokens:  dto.NewTokenResponse(signed, exp),
		Created: created,
	})
}

// ProfileHandler godoc
// @Summary Профиль текущего пользователя
// @Security BearerAuth
// @Tags auth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неавторизован"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	u, err := h.auth.Profile(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(u))
}

// UpdateProfileHandler godoc
// @Summary Обновление профиля
// @Description Меняет телефон и адрес текущего пользователя.
// @Security BearerAuth
// @Tags auth
// @Accept json
// @Produce json
// @Param profile body dto.UpdateProfileRequest true "Изменяемые поля"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неавторизован"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/auth/profile [patch]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	u, err := h.auth.UpdateProfile(c.Request.Context(), service.ProfilePatch{
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(u))
}
