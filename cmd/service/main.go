package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"duzanda/config"
	_ "duzanda/docs"
	"duzanda/internal/cache"
	"duzanda/internal/handlers"
	"duzanda/internal/hashing"
	"duzanda/internal/producer"
	"duzanda/internal/repository"
	"duzanda/internal/router"
	"duzanda/internal/service"
	"duzanda/internal/token"
	"duzanda/pkg/database"
	"duzanda/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// @Title Duzanda API
// @Version 1.0
// @Description API витрины мастеров: корзина, заказы, товары
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)
	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)
	hasher := hashing.NewBcrypt(0)
	tokens := token.NewHSProvider(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)

	var counts service.CountCache
	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Fatal("Не удалось подключиться к Redis", zap.Error(err))
		}
		defer rdb.Close()
		counts = rdb
	}

	var events service.EventBus
	if cfg.Kafka.Enabled {
		p := producer.NewOrderEventProducer(cfg.Kafka.Brokers, cfg.Kafka.OrdersTopic)
		defer p.Close()
		events = p
	}

	resolver := service.NewIdentityResolver(repos.Sessions)
	carts := service.NewCartService(repos, counts, log)
	checkout := service.NewCheckoutService(repos, hasher, events, counts, log)
	orders := service.NewOrderService(repos, events, log)
	auth := service.NewAuthService(repos, hasher, log)
	products := service.NewProductService(repos, log)

	r := router.Router(router.Handlers{
		Auth:     handlers.NewAuthHandler(auth, tokens, cfg.JWT.AccessExp, log),
		Cart:     handlers.NewCartHandler(carts, resolver, log),
		Checkout: handlers.NewCheckoutHandler(checkout, resolver, tokens, cfg.JWT.AccessExp, log),
		Orders:   handlers.NewOrderHandler(orders, log),
		Products: handlers.NewProductHandler(products, log),
	}, tokens, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Запуск HTTP сервера", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP сервер завершился с ошибкой", zap.Error(err))
		}
	}()

	<-quit
	log.Info("Остановка HTTP сервера...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Ошибка при остановке HTTP сервера", zap.Error(err))
	}
	log.Info("HTTP сервер остановлен")
}
