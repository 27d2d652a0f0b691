package router_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "duzanda/docs"
	"duzanda/internal/handlers"
	"duzanda/internal/router"
	"duzanda/internal/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()
	tokens := token.NewHSProvider("test-secret", "duzanda", "duzanda")
	return router.Router(router.Handlers{
		Auth:     handlers.NewAuthHandler(nil, tokens, time.Hour, log),
		Cart:     handlers.NewCartHandler(nil, nil, log),
		Checkout: handlers.NewCheckoutHandler(nil, nil, tokens, time.Hour, log),
		Orders:   handlers.NewOrderHandler(nil, log),
		Products: handlers.NewProductHandler(nil, log),
	}, tokens, log)
}

func TestRouter_SwaggerDoc(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /swagger/doc.json: код %d, тело %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Duzanda API") {
		t.Fatal("в swagger-документе нет заголовка API")
	}
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /health: код %d", w.Code)
	}
}
