package main

import (
	"log"
	"net/http"

	"vitrine-be/internal/address"
	"vitrine-be/internal/cart"
	"vitrine-be/internal/config"
	"vitrine-be/internal/db"
	"vitrine-be/internal/httpapi"
	"vitrine-be/internal/logger"
	"vitrine-be/internal/middleware"
	"vitrine-be/internal/order"
	"vitrine-be/internal/payment"
	"vitrine-be/internal/payment/webhook"
	"vitrine-be/internal/product"
	"vitrine-be/internal/stock"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	cartReader := cart.NewReader(database)
	addressRepo := address.NewRepository(database)
	productRepo := product.NewRepository(database)
	stockRepo := stock.NewRepository(database)
	paymentRepo := payment.NewRepository(database)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, cartReader, addressRepo)

	gateway := payment.NewMercadoPagoGateway(payment.GatewayConfig{
		AccessToken:     cfg.MPAccessToken,
		SuccessURL:      cfg.SuccessURL,
		PendingURL:      cfg.PendingURL,
		FailureURL:      cfg.FailureURL,
		NotificationURL: cfg.NotificationURL,
	})
	paymentSvc := payment.NewService(gateway)

	mux := http.NewServeMux()
	httpapi.NewHandler(orderSvc, paymentSvc, paymentRepo, productRepo, stockRepo).Register(mux)
	mux.Handle("POST /webhook/payment", webhook.NewHandler(orderSvc, cfg.WebhookToken))

	handler := logger.RequestIDMiddleware(
		logger.LoggingMiddleware(
			middleware.AuthMiddleware(cfg.JWTSecret)(
				middleware.RateLimitMiddleware(mux),
			),
		),
	)

	logger.L().Info("server listening", zap.String("port", cfg.AppPort))
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, handler))
}
