package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"quickbite/internal/config"
	"quickbite/internal/db"
	"quickbite/internal/httpserver"
	"quickbite/internal/notify"
	"quickbite/internal/payment"
	"quickbite/internal/realtime"
	orderrepo "quickbite/internal/repository/order"
	restaurantrepo "quickbite/internal/repository/restaurant"
	cartsvc "quickbite/internal/service/cart"
	checkoutsvc "quickbite/internal/service/checkout"
	ordersvc "quickbite/internal/service/order"
	trackingsvc "quickbite/internal/service/tracking"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "api").Logger()

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to db")
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	notifier := notify.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	defer notifier.Close()

	transport := realtime.NewRedisTransport(redisClient, logger)
	payments := payment.NewClient(cfg.PaymentURL, cfg.PaymentTimeout)

	orders := orderrepo.NewPostgres(dbpool)
	restaurants := restaurantrepo.NewPostgres(dbpool)

	carts := cartsvc.NewStore()
	checkout := checkoutsvc.New(orders, payments, notifier, logger, cfg.TaxRate, cfg.DeliveryFee, "EUR")
	orderService := ordersvc.New(orders, restaurants, transport, notifier, logger, cfg.PreparationMinutes, cfg.DeliveryMinutes)
	feed := trackingsvc.NewFeed(transport, orders, logger)

	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Carts:       carts,
		Checkout:    checkout,
		Orders:      orderService,
		Feed:        feed,
		TaxRate:     cfg.TaxRate,
		DeliveryFee: cfg.DeliveryFee,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		logger.Error().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
