package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"golang.org/x/time/rate"

	"samkitchen-backend/config"
	"samkitchen-backend/db"
	"samkitchen-backend/internal/delivery/http/middleware"
	v1 "samkitchen-backend/internal/delivery/http/v1"
	"samkitchen-backend/internal/domain"
	"samkitchen-backend/internal/gateway"
	"samkitchen-backend/internal/infrastructure/cache"
	"samkitchen-backend/internal/repository/postgres"
	"samkitchen-backend/internal/usecase"
	"samkitchen-backend/pkg/logger"
	"samkitchen-backend/pkg/utils"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	pgxPool, err := postgres.NewPgxPool(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Connected to PostgreSQL")

	if _, err := pgxPool.Exec(context.Background(), db.Schema); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database schema")
	}

	// Repositories
	foodRepo := postgres.NewFoodRepository(pgxPool)
	orderRepo := postgres.NewOrderRepository(pgxPool)
	riderRepo := postgres.NewRiderRepository(pgxPool)
	paymentRepo := postgres.NewPaymentRepository(pgxPool)
	cashoutRepo := postgres.NewCashoutRepository(pgxPool)
	txManager := postgres.NewTransactionManager(pgxPool)

	memCache := cache.NewMemoryCache(30*time.Minute, 60*time.Minute)

	// Payment gateways
	gateways := gateway.Registry{
		gateway.MethodCard: gateway.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeAPIBase, cfg.GatewayHTTPTimeout),
		gateway.MethodSSL:  gateway.NewSSLCommerzGateway(cfg.SSLStoreID, cfg.SSLStorePassword, cfg.SSLAPIBase, cfg.SSLCallbackURL, cfg.GatewayHTTPTimeout),
	}

	// Usecases
	pricingRules := usecase.PricingRules{
		SingleLineCharge:      cfg.SingleLineDeliveryCharge,
		MultiLineCharge:       cfg.MultiLineDeliveryCharge,
		FreeDeliveryThreshold: cfg.FreeDeliveryThreshold,
	}
	pricingEngine := usecase.NewPricingEngine(foodRepo, pricingRules)

	foodUC := usecase.NewFoodUsecase(foodRepo, memCache, cfg.CacheFoodTTL)
	orderUC := usecase.NewOrderUsecase(orderRepo, cashoutRepo, pricingEngine, txManager)
	assignUC := usecase.NewAssignmentUsecase(orderRepo, riderRepo)
	paymentUC := usecase.NewPaymentUsecase(orderRepo, paymentRepo, gateways, txManager)
	cashoutUC := usecase.NewCashoutUsecase(cashoutRepo, txManager)
	riderUC := usecase.NewRiderUsecase(riderRepo, orderRepo)

	// Handlers
	foodHandler := v1.NewFoodHandler(foodUC)
	orderHandler := v1.NewOrderHandler(orderUC, assignUC, cashoutUC)
	paymentHandler := v1.NewPaymentHandler(paymentUC)
	riderHandler := v1.NewRiderHandler(riderUC, assignUC, cashoutUC)

	mux := http.NewServeMux()

	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(h)
	}
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(middleware.RequireRole(domain.RoleAdmin)(h))
	}
	riderOnly := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(middleware.RequireRole(domain.RoleRider)(h))
	}

	// Catalog (public)
	mux.HandleFunc("GET /api/v1/foods", foodHandler.List)
	mux.HandleFunc("GET /api/v1/foods/{id}", foodHandler.Get)

	// Orders
	mux.Handle("POST /api/v1/orders", authed(orderHandler.Create))
	mux.Handle("GET /api/v1/orders", authed(orderHandler.List))
	mux.Handle("GET /api/v1/orders/{id}", authed(orderHandler.Get))
	mux.Handle("PATCH /api/v1/orders/{id}", authed(orderHandler.Cancel))
	mux.Handle("PATCH /api/v1/orders/{id}/assign", adminOnly(orderHandler.Assign))
	mux.Handle("PATCH /api/v1/orders/{id}/status", riderOnly(orderHandler.UpdateStatus))
	mux.Handle("PATCH /api/v1/orders/{id}/cashout", riderOnly(orderHandler.Cashout))
	mux.Handle("GET /api/v1/orders/{id}/payment", authed(paymentHandler.GetByOrder))

	// Payments
	mux.Handle("POST /api/v1/payments/initiate", authed(paymentHandler.Initiate))
	mux.Handle("POST /api/v1/payments/confirm", authed(paymentHandler.Confirm))

	// Riders
	mux.HandleFunc("POST /api/v1/riders", riderHandler.Register)
	mux.Handle("GET /api/v1/riders/pending", adminOnly(riderHandler.ListPending))
	mux.Handle("PATCH /api/v1/riders/{id}/status", adminOnly(riderHandler.SetStatus))
	mux.Handle("GET /api/v1/riders/available", adminOnly(riderHandler.ListAvailable))
	mux.Handle("GET /api/v1/riders/deliveries", riderOnly(riderHandler.Deliveries))
	mux.Handle("GET /api/v1/riders/earnings", riderOnly(riderHandler.PendingEarnings))
	mux.Handle("POST /api/v1/riders/cashout", riderOnly(riderHandler.RequestCashout))

	// Health check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler)

	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		rate.Limit(cfg.RateLimitPerSecond),
		cfg.RateLimitBurst,
		time.Minute,
		3*time.Minute,
	)

	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	log.Info().Msgf("Server starting on %s", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	pgxPool.Close()
	log.Info().Msg("Server exited")
}
