package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/amenity"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/client"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/money"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/payment"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/room"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-hotel-reservation/internal/infrastructure/redis"
)

// === Mock implementations ===

// MockTxManager implements transaction.Manager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

// MockTx implements transaction.Tx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockRoomRepository implements room.Repository
type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) Create(ctx context.Context, r *room.Room) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRoomRepository) CreateBulk(ctx context.Context, rooms []*room.Room) ([]*room.Room, error) {
	args := m.Called(ctx, rooms)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*room.Room), args.Error(1)
}

func (m *MockRoomRepository) GetByID(ctx context.Context, id string) (*room.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*room.Room), args.Error(1)
}

func (m *MockRoomRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*room.Room, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*room.Room), args.Error(1)
}

func (m *MockRoomRepository) List(ctx context.Context) ([]*room.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*room.Room), args.Error(1)
}

func (m *MockRoomRepository) ListByAmenityForUpdate(ctx context.Context, tx transaction.Tx, amenityID string) ([]*room.Room, error) {
	args := m.Called(ctx, tx, amenityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*room.Room), args.Error(1)
}

func (m *MockRoomRepository) Update(ctx context.Context, tx transaction.Tx, r *room.Room) error {
	args := m.Called(ctx, tx, r)
	return args.Error(0)
}

func (m *MockRoomRepository) UpdateRate(ctx context.Context, tx transaction.Tx, id string, rate money.Money) error {
	args := m.Called(ctx, tx, id, rate)
	return args.Error(0)
}

func (m *MockRoomRepository) SetAvailable(ctx context.Context, tx transaction.Tx, id string, available bool) error {
	args := m.Called(ctx, tx, id, available)
	return args.Error(0)
}

func (m *MockRoomRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRoomRepository) Search(ctx context.Context, criteria room.SearchCriteria) (*room.Page, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*room.Page), args.Error(1)
}

func (m *MockRoomRepository) SyncAvailability(ctx context.Context, asOf time.Time) (int, error) {
	args := m.Called(ctx, asOf)
	return args.Int(0), args.Error(1)
}

// MockAmenityRepository implements amenity.Repository
type MockAmenityRepository struct {
	mock.Mock
}

func (m *MockAmenityRepository) Create(ctx context.Context, a *amenity.Amenity) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAmenityRepository) GetByID(ctx context.Context, id string) (*amenity.Amenity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*amenity.Amenity), args.Error(1)
}

func (m *MockAmenityRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*amenity.Amenity, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*amenity.Amenity), args.Error(1)
}

func (m *MockAmenityRepository) List(ctx context.Context) ([]*amenity.Amenity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*amenity.Amenity), args.Error(1)
}

func (m *MockAmenityRepository) ListByRoomID(ctx context.Context, roomID string) ([]*amenity.Amenity, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*amenity.Amenity), args.Error(1)
}

func (m *MockAmenityRepository) Update(ctx context.Context, tx transaction.Tx, a *amenity.Amenity) error {
	args := m.Called(ctx, tx, a)
	return args.Error(0)
}

func (m *MockAmenityRepository) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockAmenityRepository) Assign(ctx context.Context, tx transaction.Tx, roomID, amenityID string) error {
	args := m.Called(ctx, tx, roomID, amenityID)
	return args.Error(0)
}

func (m *MockAmenityRepository) Unassign(ctx context.Context, tx transaction.Tx, roomID, amenityID string) error {
	args := m.Called(ctx, tx, roomID, amenityID)
	return args.Error(0)
}

// MockReservationRepository implements reservation.Repository
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, tx transaction.Tx, r *reservation.Reservation) error {
	args := m.Called(ctx, tx, r)
	return args.Error(0)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*reservation.Reservation, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) List(ctx context.Context) ([]*reservation.Reservation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListByClientID(ctx context.Context, clientID string) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListByRoomID(ctx context.Context, tx transaction.Tx, roomID string) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, tx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) CountByRoomID(ctx context.Context, roomID string) (int, error) {
	args := m.Called(ctx, roomID)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationRepository) CountByClientID(ctx context.Context, clientID string) (int, error) {
	args := m.Called(ctx, clientID)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationRepository) Update(ctx context.Context, tx transaction.Tx, r *reservation.Reservation) error {
	args := m.Called(ctx, tx, r)
	return args.Error(0)
}

func (m *MockReservationRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, id string, status reservation.Status) error {
	args := m.Called(ctx, tx, id, status)
	return args.Error(0)
}

func (m *MockReservationRepository) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

// MockClientRepository implements client.Repository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, c *client.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepository) GetByID(ctx context.Context, id string) (*client.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockClientRepository) List(ctx context.Context) ([]*client.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*client.Client), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, c *client.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPaymentRepository implements payment.Repository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, tx transaction.Tx, p *payment.Payment) error {
	args := m.Called(ctx, tx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*payment.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) List(ctx context.Context) ([]*payment.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

// MockLockManager implements redisinfra.LockManagerInterface
type MockLockManager struct {
	mock.Mock
}

func (m *MockLockManager) AcquireLock(ctx context.Context, key string, ttl time.Duration) (redisinfra.Lock, error) {
	args := m.Called(ctx, key, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(redisinfra.Lock), args.Error(1)
}

func (m *MockLockManager) AcquireLockWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryInterval time.Duration) (redisinfra.Lock, error) {
	args := m.Called(ctx, key, ttl, maxRetries, retryInterval)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(redisinfra.Lock), args.Error(1)
}

// MockLock implements redisinfra.Lock
type MockLock struct {
	mock.Mock
}

func (m *MockLock) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLock) Extend(ctx context.Context, ttl time.Duration) error {
	args := m.Called(ctx, ttl)
	return args.Error(0)
}

// MockCalendarCache implements redisinfra.CalendarCacheInterface
type MockCalendarCache struct {
	mock.Mock
}

func (m *MockCalendarCache) Get(ctx context.Context, roomID string) ([]time.Time, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *MockCalendarCache) Set(ctx context.Context, roomID string, dates []time.Time, ttl time.Duration) error {
	args := m.Called(ctx, roomID, dates, ttl)
	return args.Error(0)
}

func (m *MockCalendarCache) Invalidate(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

// MockPublisher implements EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, ev reservation.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// === Test helper ===

type testDeps struct {
	txManager   *MockTxManager
	tx          *MockTx
	roomRepo    *MockRoomRepository
	amenityRepo *MockAmenityRepository
	resRepo     *MockReservationRepository
	clientRepo  *MockClientRepository
	paymentRepo *MockPaymentRepository
	lockManager *MockLockManager
	lock        *MockLock
	cache       *MockCalendarCache
	publisher   *MockPublisher

	availability *AvailabilityService
	reservations *ReservationService
	rooms        *RoomService
	amenities    *AmenityService
	clients      *ClientService
	payments     *PaymentService
}

func newTestDeps() *testDeps {
	d := &testDeps{
		txManager:   new(MockTxManager),
		tx:          new(MockTx),
		roomRepo:    new(MockRoomRepository),
		amenityRepo: new(MockAmenityRepository),
		resRepo:     new(MockReservationRepository),
		clientRepo:  new(MockClientRepository),
		paymentRepo: new(MockPaymentRepository),
		lockManager: new(MockLockManager),
		lock:        new(MockLock),
		cache:       new(MockCalendarCache),
		publisher:   new(MockPublisher),
	}

	d.availability = NewAvailabilityService(d.roomRepo, d.resRepo, d.cache, nil)
	d.reservations = NewReservationService(d.txManager, d.resRepo, d.roomRepo, d.clientRepo, d.availability, d.lockManager, d.publisher, nil)
	d.rooms = NewRoomService(d.txManager, d.roomRepo, d.amenityRepo, d.resRepo, d.availability, 5)
	d.amenities = NewAmenityService(d.txManager, d.amenityRepo, d.roomRepo, nil)
	d.clients = NewClientService(d.clientRepo, d.resRepo)
	d.payments = NewPaymentService(d.txManager, d.paymentRepo, d.resRepo, d.clientRepo, d.availability, d.publisher, nil)
	return d
}

// expectTx はトランザクション1回分の Begin/Commit/Rollback を設定する
func (d *testDeps) expectTx(ctx context.Context, commit bool) {
	d.txManager.On("Begin", ctx).Return(d.tx, nil).Once()
	d.tx.On("Rollback").Return(nil)
	if commit {
		d.tx.On("Commit").Return(nil)
	}
}

// expectLock は部屋ロックの取得と解放を設定する
func (d *testDeps) expectLock(ctx context.Context, roomID string) {
	d.lockManager.On("AcquireLockWithRetry", ctx, redisinfra.RoomLockKey(roomID), roomLockTTL, roomLockRetries, roomLockRetryDelay).
		Return(d.lock, nil)
	d.lock.On("Release", mock.Anything).Return(nil)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func eventOfType(t reservation.EventType) interface{} {
	return mock.MatchedBy(func(ev reservation.Event) bool { return ev.Type == t })
}
