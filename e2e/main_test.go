package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-hotel-reservation/internal/api"
	"github.com/sanosuguru/go-hotel-reservation/internal/api/handler"
	"github.com/sanosuguru/go-hotel-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-hotel-reservation/internal/application"
	"github.com/sanosuguru/go-hotel-reservation/internal/config"
	"github.com/sanosuguru/go-hotel-reservation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-hotel-reservation/internal/infrastructure/redis"
)

var (
	testServer  *TestServer
	testDB      *sqlx.DB
	redisClient *redis.Client
)

// TestServer はE2Eテスト用のサーバー
type TestServer struct {
	Echo *echo.Echo
}

// TestMain はE2Eテストのエントリポイント
// パッケージ全体で1回だけサーバーを起動する
func TestMain(m *testing.M) {
	cfg := config.Load()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		os.Exit(0) // DB未起動時はスキップ
	}
	testDB = db
	if err := postgres.RunMigrations(db.DB, "../migrations"); err != nil {
		db.Close()
		os.Exit(1)
	}

	// Redis は任意。未起動ならロックとキャッシュなしで動かす
	var (
		lockManager redisinfra.LockManagerInterface
		cache       redisinfra.CalendarCacheInterface
	)
	rc := redisinfra.NewClient(&cfg.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := redisinfra.Ping(ctx, rc); err == nil {
		redisClient = rc
		lockManager = redisinfra.NewLockManager(rc)
		cache = redisinfra.NewCalendarCache(rc)
	} else {
		rc.Close()
	}
	cancel()

	txManager := postgres.NewTxManager(db)
	roomRepo := postgres.NewRoomRepository(db)
	amenityRepo := postgres.NewAmenityRepository(db)
	clientRepo := postgres.NewClientRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)

	availability := application.NewAvailabilityService(roomRepo, reservationRepo, cache, nil)
	roomService := application.NewRoomService(txManager, roomRepo, amenityRepo, reservationRepo, availability, cfg.Search.DefaultPageSize)
	amenityService := application.NewAmenityService(txManager, amenityRepo, roomRepo, nil)
	clientService := application.NewClientService(clientRepo, reservationRepo)
	reservationService := application.NewReservationService(txManager, reservationRepo, roomRepo, clientRepo, availability, lockManager, nil, nil)
	paymentService := application.NewPaymentService(txManager, paymentRepo, reservationRepo, clientRepo, availability, nil, nil)

	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	middleware.SetupMiddleware(e, 10*time.Second)

	v1 := e.Group("/api/v1")
	v1.GET("/health", handler.NewHealthHandler(map[string]handler.Checker{
		"database": func(ctx context.Context) error { return postgres.Ping(ctx, db) },
	}).Check)
	handler.NewRoomHandler(roomService, reservationService).Register(v1)
	handler.NewAmenityHandler(amenityService).Register(v1)
	handler.NewClientHandler(clientService).Register(v1)
	handler.NewReservationHandler(reservationService).Register(v1)
	handler.NewPaymentHandler(paymentService).Register(v1)

	testServer = &TestServer{Echo: e}

	code := m.Run()

	cleanupTables()
	if redisClient != nil {
		redisClient.Close()
	}
	db.Close()

	os.Exit(code)
}

// cleanupTables はテーブルをクリーンアップ
func cleanupTables() {
	testDB.Exec("TRUNCATE TABLE payments, reservations, room_amenities, amenities, rooms, clients CASCADE")
}

// getTestServer は共有サーバーを取得（テスト前にテーブルをクリーンアップ）
func getTestServer(t *testing.T) *TestServer {
	t.Helper()
	if testServer == nil {
		t.Skip("テスト環境が利用できません")
	}
	cleanupTables()
	return testServer
}

// Request はHTTPリクエストを実行
func (s *TestServer) Request(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}
