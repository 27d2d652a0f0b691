package handlers

import (
	"duzanda/internal/models"
	"duzanda/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionCookie — кука анонимной корзины.
const SessionCookie = "cart_session"

const sessionCookieMaxAge = 180 * 24 * 60 * 60 // 180 дней

// resolveOwner определяет владельца корзины для запроса. Новому анонимному
// посетителю выдаётся кука с токеном сессии.
func resolveOwner(c *gin.Context, resolver *service.IdentityResolver) (models.Owner, error) {
	cookie, _ := c.Cookie(SessionCookie)

	owner, minted, err := resolver.ResolveOwner(c.Request.Context(), cookie)
	if err != nil {
		return models.Owner{}, err
	}
	if minted {
		if token, ok := owner.SessionToken(); ok {
			c.SetCookie(SessionCookie, token, sessionCookieMaxAge, "/", "", false, true)
		}
	}
	return owner, nil
}
