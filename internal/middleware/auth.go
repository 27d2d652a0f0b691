package middleware

import (
	"net/http"
	"strings"

	"duzanda/internal/dto"
	"duzanda/internal/service"
	"duzanda/internal/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys for user info
const (
	CtxUserID   = "user_id"
	CtxUserRole = "user_role"
)

// AuthRequired проверяет Bearer токен и кладёт пользователя в контекст
// запроса. Без валидного токена запрос отклоняется.
func AuthRequired(tokens *token.HSProvider, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("missing Authorization header"))
			return
		}
		t, ok := ExtractBearerToken(authz)
		if !ok || t == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid Authorization header"))
			return
		}

		claims, err := tokens.ParseAndValidateAccess(t)
		if err != nil {
			log.Warn("Невалидный access токен", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid token"))
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserRole, claims.Role)

		ctx := service.WithUserID(c.Request.Context(), claims.UserID)
		ctx = service.WithRole(ctx, claims.Role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// AuthOptional разбирает токен, если он есть; анонимные запросы проходят
// дальше без пользователя в контексте (корзина работает и для гостей).
func AuthOptional(tokens *token.HSProvider, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" {
			c.Next()
			return
		}
		t, ok := ExtractBearerToken(authz)
		if !ok || t == "" {
			c.Next()
			return
		}

		claims, err := tokens.ParseAndValidateAccess(t)
		if err != nil {
			log.Warn("Невалидный access токен, запрос продолжен как анонимный", zap.Error(err))
			c.Next()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserRole, claims.Role)

		ctx := service.WithUserID(c.Request.Context(), claims.UserID)
		ctx = service.WithRole(ctx, claims.Role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// ExtractBearerToken извлекает токен из заголовка Authorization.
// Допускаются кавычки вокруг токена и хвост после запятой.
func ExtractBearerToken(authz string) (string, bool) {
	scheme, rest, ok := strings.Cut(authz, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	if i := strings.IndexByte(rest, ','); i >= 0 {
		rest = rest[:i]
	}
	t := strings.Trim(rest, " \"'")
	if i := strings.IndexByte(t, ' '); i >= 0 {
		t = t[:i]
	}
	return t, true
}
