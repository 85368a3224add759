//go:build integration
// +build integration

package application

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-hotel-reservation/internal/config"
	"github.com/sanosuguru/go-hotel-reservation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-hotel-reservation/internal/infrastructure/redis"
)

type integrationEnv struct {
	db           *sqlx.DB
	reservations *ReservationService
	rooms        *RoomService
	amenities    *AmenityService
	clients      *ClientService
	payments     *PaymentService
	availability *AvailabilityService
}

func setupTestEnv(t *testing.T) (*integrationEnv, func()) {
	t.Helper()
	cfg := config.Load()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		t.Skipf("DB接続エラー: %v", err)
	}
	if err := postgres.RunMigrations(db.DB, "../../migrations"); err != nil {
		t.Skipf("マイグレーションエラー: %v", err)
	}

	var lockManager redisinfra.LockManagerInterface
	var cache redisinfra.CalendarCacheInterface
	redisClient := redisinfra.NewClient(&cfg.Redis)
	if err := redisinfra.Ping(context.Background(), redisClient); err == nil {
		lockManager = redisinfra.NewLockManager(redisClient)
		cache = redisinfra.NewCalendarCache(redisClient)
	} else {
		t.Logf("Redisなしで実行: %v", err)
	}

	roomRepo := postgres.NewRoomRepository(db)
	amenityRepo := postgres.NewAmenityRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)
	clientRepo := postgres.NewClientRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	txManager := postgres.NewTxManager(db)

	availability := NewAvailabilityService(roomRepo, reservationRepo, cache, nil)
	env := &integrationEnv{
		db:           db,
		availability: availability,
		reservations: NewReservationService(txManager, reservationRepo, roomRepo, clientRepo, availability, lockManager, nil, nil),
		rooms:        NewRoomService(txManager, roomRepo, amenityRepo, reservationRepo, availability, cfg.Search.DefaultPageSize),
		amenities:    NewAmenityService(txManager, amenityRepo, roomRepo, nil),
		clients:      NewClientService(clientRepo, reservationRepo),
		payments:     NewPaymentService(txManager, paymentRepo, reservationRepo, clientRepo, availability, nil, nil),
	}

	purge := func() {
		for _, table := range []string{"payments", "reservations", "room_amenities", "amenities", "rooms", "clients"} {
			db.Exec("DELETE FROM " + table)
		}
	}
	purge()

	cleanup := func() {
		purge()
		redisClient.Close()
		db.Close()
	}
	return env, cleanup
}
