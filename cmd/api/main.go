package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-hotel-reservation/internal/api"
	"github.com/sanosuguru/go-hotel-reservation/internal/api/handler"
	apimiddleware "github.com/sanosuguru/go-hotel-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-hotel-reservation/internal/application"
	"github.com/sanosuguru/go-hotel-reservation/internal/config"
	"github.com/sanosuguru/go-hotel-reservation/internal/infrastructure/broker"
	"github.com/sanosuguru/go-hotel-reservation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-hotel-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-hotel-reservation/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env はローカル開発用。存在しなくてもよい
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Set(logger.NewLogger(cfg.Log.Env, cfg.Log.Level))
	defer func() { _ = logger.Sync() }()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続エラー", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("マイグレーションエラー", zap.Error(err))
	}

	checks := map[string]handler.Checker{
		"database": func(ctx context.Context) error { return postgres.Ping(ctx, db) },
	}

	// Redis が使えない場合はロックとキャッシュなしで動作する
	var (
		lockManager redisinfra.LockManagerInterface
		cache       redisinfra.CalendarCacheInterface
	)
	if cfg.Redis.Enabled {
		rdb := redisinfra.NewClient(&cfg.Redis)
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := redisinfra.Ping(pingCtx, rdb)
		cancel()
		if err != nil {
			logger.Warn("Redisに接続できないため、分散ロックとカレンダーキャッシュを無効化します", zap.Error(err))
		} else {
			lockManager = redisinfra.NewLockManager(rdb)
			cache = redisinfra.NewCalendarCache(rdb)
			checks["redis"] = func(ctx context.Context) error { return redisinfra.Ping(ctx, rdb) }
			logger.Info("Redis接続完了", zap.String("addr", cfg.Redis.Addr()))
		}
	}

	publisher, closer, err := newPublisher(cfg.Broker)
	if err != nil {
		logger.Fatal("イベント送信先の初期化エラー", zap.Error(err), zap.String("kind", string(cfg.Broker.Kind)))
	}
	if closer != nil {
		defer closer.Close()
	}

	m := metrics.Init()

	// リポジトリ
	txManager := postgres.NewTxManager(db)
	roomRepo := postgres.NewRoomRepository(db)
	amenityRepo := postgres.NewAmenityRepository(db)
	clientRepo := postgres.NewClientRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)

	// サービス
	availability := application.NewAvailabilityService(roomRepo, reservationRepo, cache, m)
	roomService := application.NewRoomService(txManager, roomRepo, amenityRepo, reservationRepo, availability, cfg.Search.DefaultPageSize)
	amenityService := application.NewAmenityService(txManager, amenityRepo, roomRepo, m)
	clientService := application.NewClientService(clientRepo, reservationRepo)
	reservationService := application.NewReservationService(
		txManager, reservationRepo, roomRepo, clientRepo, availability, lockManager, publisher, m,
	)
	paymentService := application.NewPaymentService(
		txManager, paymentRepo, reservationRepo, clientRepo, availability, publisher, m,
	)

	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	apimiddleware.SetupMiddleware(e, cfg.Server.RequestTimeout)
	e.Use(apimiddleware.PrometheusMiddleware(m))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), apimiddleware.MetricsBasicAuth(cfg.Metrics))

	v1 := e.Group("/api/v1")
	v1.GET("/health", handler.NewHealthHandler(checks).Check)
	handler.NewRoomHandler(roomService, reservationService).Register(v1)
	handler.NewAmenityHandler(amenityService).Register(v1)
	handler.NewClientHandler(clientService).Register(v1)
	handler.NewReservationHandler(reservationService).Register(v1)
	handler.NewPaymentHandler(paymentService).Register(v1)

	var syncWorker *worker.AvailabilitySyncWorker
	if cfg.Worker.AvailabilitySyncInterval > 0 {
		syncWorker = worker.NewAvailabilitySyncWorker(availability, cfg.Worker.AvailabilitySyncInterval)
		go syncWorker.Start(context.Background())
	}

	go func() {
		logger.Info("サーバー起動", zap.String("port", cfg.Server.Port))
		if err := e.Start(fmt.Sprintf(":%s", cfg.Server.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	if syncWorker != nil {
		syncWorker.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("サーバーシャットダウンエラー", zap.Error(err))
		return
	}
	logger.Info("サーバーが正常にシャットダウンしました")
}

// newPublisher は設定に応じた予約イベントの送信先を返す
// BrokerNone の場合は送信しない
func newPublisher(cfg config.BrokerConfig) (application.EventPublisher, io.Closer, error) {
	switch cfg.Kind {
	case config.BrokerAMQP:
		p, err := broker.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("予約イベントをAMQPに送信します", zap.String("queue", cfg.AMQPQueue))
		return p, p, nil
	case config.BrokerKafka:
		p := broker.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		logger.Info("予約イベントをKafkaに送信します", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
		return p, p, nil
	case config.BrokerNone, "":
		return nil, nil, nil
	default:
		return nil, nil, fmt.Errorf("未対応のBROKER_KIND: %s", cfg.Kind)
	}
}
