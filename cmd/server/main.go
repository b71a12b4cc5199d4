package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storefront/internal/config"
	handlers "storefront/internal/controllers/http"
	"storefront/internal/infra/auth"
	"storefront/internal/infra/cache"
	"storefront/internal/infra/mail"
	mmysql "storefront/internal/infra/mysql"
	"storefront/internal/infra/rabbitmq"
	"storefront/internal/infra/storage"
	"storefront/internal/observability"
	"storefront/internal/payments/paytm"
	mysqlrepo "storefront/internal/repository/mysql"
	"storefront/internal/scheduler"
	"storefront/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	db, err := mmysql.NewMySQL(cfg.MySQL, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	orderRepo := mysqlrepo.NewOrderRepository(db, logger)
	dealRepo := mysqlrepo.NewDealRepository(db, logger)
	productRepo := mysqlrepo.NewProductRepository(db, logger)
	cartRepo := mysqlrepo.NewCartRepository(db)
	userRepo := mysqlrepo.NewUserRepository(db, logger)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		DB:           0,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	defer redisClient.Close()
	var appCache cache.Cache = cache.NewRedisCache(redisClient, "storefront:")
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, caching disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		appCache = cache.Noop{}
	}

	var (
		publisher rabbitmq.PublisherInterface
		mailer    mail.Mailer
	)
	if cfg.RabbitMQ.URL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, logger)
		if err != nil {
			return err
		}
		defer p.Close()
		publisher = p
		mailer = mail.NewQueueMailer(p)
	} else {
		logger.Warn("RABBITMQ_URL not set, order events and emails disabled")
	}

	var uploader storage.Uploader
	if cfg.Storage.Bucket != "" {
		client, err := gcs.NewClient(ctx)
		if err != nil {
			return err
		}
		defer client.Close()
		u, err := storage.NewGCSUploader(client, cfg.Storage.Bucket, cfg.Storage.PublicBaseURL)
		if err != nil {
			return err
		}
		uploader = u
	} else {
		logger.Warn("IMAGE_BUCKET not set, deal image upload disabled")
	}

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	gateway, err := paytm.New(paytm.Config{
		MerchantID:    cfg.Paytm.MerchantID,
		MerchantKey:   cfg.Paytm.MerchantKey,
		Website:       cfg.Paytm.Website,
		ChannelID:     cfg.Paytm.ChannelID,
		IndustryType:  cfg.Paytm.IndustryType,
		OrderIDPrefix: cfg.Paytm.OrderIDPrefix,
		CallbackURL:   cfg.Paytm.CallbackURL,
		Production:    cfg.Production(),
		Timeout:       cfg.Paytm.Timeout,
	})
	if err != nil {
		return err
	}

	orders := services.NewOrderService(orderRepo, cartRepo, publisher, mailer, logger)
	orders.SetCache(appCache)
	deals := services.NewDealService(dealRepo, productRepo, uploader, logger)
	deals.SetCache(appCache)
	reaper := services.NewOrderReaper(orderRepo, orders, scheduler.SystemClock{}, logger)
	payments := services.NewPaymentService(gateway, orders, reaper, logger)
	payments.SetUsers(userRepo)

	handler := handlers.NewHandler(orders, deals, payments, tokens, cfg.Frontend.BaseURL, logger)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), observability.GinLogger(logger))
	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	dealSweep := func(ctx context.Context) error {
		_, err := deals.ExpirySweep(ctx)
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting storefront", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return scheduler.NewRunner("deal-expiry", cfg.Sweeps.DealInterval, dealSweep, logger).Run(gctx)
	})
	g.Go(func() error {
		return scheduler.NewRunner("order-reaper", cfg.Sweeps.ReaperInterval, reaper.Task(cfg.Sweeps.AbandonTimeout), logger).Run(gctx)
	})

	return g.Wait()
}
