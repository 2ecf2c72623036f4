package main

import (
	"context"
	"errors"
	"log/slog"
	"marketplace-api/internal/client"
	"marketplace-api/internal/config"
	"marketplace-api/internal/handler"
	"marketplace-api/internal/logger"
	"marketplace-api/internal/metrics"
	"marketplace-api/internal/middleware"
	"marketplace-api/internal/model"
	"marketplace-api/internal/payment"
	"marketplace-api/internal/repository"
	"marketplace-api/internal/server"
	"marketplace-api/internal/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// load .env into os.Environ
	envErr := godotenv.Load()

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		slog.Error("parse config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	slog.SetDefault(log)
	if envErr != nil {
		log.Info("no .env file found (ok in prod)")
	}

	db, err := client.InitDatabase(cfg.Database)
	if err != nil {
		log.Error("init database", slog.Any("err", err))
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)

	if cfg.Environment.IsDevelopment() {
		if err := productRepo.Seed(context.Background()); err != nil {
			log.Error("seed catalog", slog.Any("err", err))
			os.Exit(1)
		}
	}

	gateways := map[model.PaymentMethod]payment.Gateway{}
	if cfg.Paypal.Enabled() {
		gateways[model.PaymentMethodPaypal] = payment.NewPaypalGateway(client.NewPaypalClient(&cfg.Paypal))
	} else {
		log.Warn("paypal credentials missing, payment method disabled")
	}
	if cfg.BrainTree.Enabled() {
		gateways[model.PaymentMethodBraintree] = payment.NewBraintreeGateway(client.NewBraintreeClient(&cfg.BrainTree))
	} else {
		log.Warn("braintree credentials missing, payment method disabled")
	}
	processor := payment.NewProcessor(cfg.Payment, gateways, m)

	cartService := service.NewCartService(db, cartRepo, productRepo, log)
	checkoutService := service.NewCheckoutService(db, cfg.Checkout, cartRepo, orderRepo, processor, m, log)
	orderService := service.NewOrderService(orderRepo)
	productService := service.NewProductService(productRepo)

	if cfg.Auth.JWTSecret == "" {
		log.Warn("AUTH_JWT_SECRET not set, all bearer tokens will be rejected")
	}

	srv := server.NewServer(
		middleware.NewAuth(cfg.Auth.JWTSecret),
		m,
		log,
		handler.NewProductHandler(productService, log),
		handler.NewCartHandler(cartService, log),
		handler.NewOrderHandler(checkoutService, orderService, log),
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	log.Info("starting HTTP server", slog.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", slog.Any("err", err))
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
