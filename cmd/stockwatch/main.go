package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ariefcatur/go-shop-backend.git/internal/config"
	kafkax "github.com/ariefcatur/go-shop-backend.git/internal/kafka"
	"github.com/ariefcatur/go-shop-backend.git/internal/postgres"
	"github.com/ariefcatur/go-shop-backend.git/internal/redisx"
	"github.com/ariefcatur/go-shop-backend.git/internal/shop"
	"github.com/ariefcatur/go-shop-backend.git/internal/stockwatch"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Alert producer
	alerts := kafkax.NewProducer(cfg.KafkaBrokers, shop.TopicStockAlerts, 1024)
	alerts.Start(ctx)

	// Service
	svc := &stockwatch.Service{
		Products:    &shop.ProductRepo{DB: db},
		Dedup:       &stockwatch.RedisDedup{Client: rdb, Service: "stockwatch"},
		Redis:       rdb,
		Alerts:      alerts,
		ServiceName: cfg.ServiceName + "-stockwatch",
		Threshold:   mustAtoi(os.Getenv("STOCKWATCH_LOW_THRESHOLD"), "5"),
		Logger:      logger,
	}

	// Consumer
	group := getenv("STOCKWATCH_GROUP", "stockwatch")
	workers := mustAtoi(os.Getenv("STOCKWATCH_WORKERS"), "8")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, shop.TopicOrderPlaced, workers)

	go func() {
		logger.Info("stockwatch consumer started",
			zap.String("group", group),
			zap.String("topic", shop.TopicOrderPlaced),
			zap.Int("workers", workers))
		if err := cons.Start(ctx, svc.HandleOrderPlaced); err != nil {
			logger.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down consumer")
	cancel()
	time.Sleep(500 * time.Millisecond)
	alerts.Close()
	alerts.WaitClosed()
}
