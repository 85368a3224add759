package handler

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-hotel-reservation/internal/application"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/amenity"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/client"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/payment"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/room"
)

// MockRoomService はRoomServiceInterfaceのモック
type MockRoomService struct {
	mock.Mock
}

func (m *MockRoomService) CreateRoom(ctx context.Context, input application.CreateRoomInput) (*room.Room, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*room.Room), args.Error(1)
}

func (m *MockRoomService) CreateRooms(ctx context.Context, input application.CreateRoomsInput) ([]*room.Room, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*room.Room), args.Error(1)
}

func (m *MockRoomService) GetRoom(ctx context.Context, id string) (*room.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*room.Room), args.Error(1)
}

func (m *MockRoomService) ListRooms(ctx context.Context) ([]*room.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*room.Room), args.Error(1)
}

func (m *MockRoomService) UpdateRoom(ctx context.Context, id string, input application.UpdateRoomInput) (*room.Room, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*room.Room), args.Error(1)
}

func (m *MockRoomService) DeleteRoom(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRoomService) DeleteAllRooms(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockRoomService) SearchRooms(ctx context.Context, criteria room.SearchCriteria) (*room.Page, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*room.Page), args.Error(1)
}

func (m *MockRoomService) ListRoomAmenities(ctx context.Context, roomID string) ([]*amenity.Amenity, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*amenity.Amenity), args.Error(1)
}

// MockAmenityService はAmenityServiceInterfaceのモック
type MockAmenityService struct {
	mock.Mock
}

func (m *MockAmenityService) CreateAmenity(ctx context.Context, input application.AmenityInput) (*amenity.Amenity, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*amenity.Amenity), args.Error(1)
}

func (m *MockAmenityService) GetAmenity(ctx context.Context, id string) (*amenity.Amenity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*amenity.Amenity), args.Error(1)
}

func (m *MockAmenityService) ListAmenities(ctx context.Context) ([]*amenity.Amenity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*amenity.Amenity), args.Error(1)
}

func (m *MockAmenityService) UpdateAmenity(ctx context.Context, id string, input application.AmenityInput) (*amenity.Amenity, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*amenity.Amenity), args.Error(1)
}

func (m *MockAmenityService) DeleteAmenity(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAmenityService) AssignAmenity(ctx context.Context, roomID, amenityID string) (*room.Room, error) {
	args := m.Called(ctx, roomID, amenityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*room.Room), args.Error(1)
}

func (m *MockAmenityService) UnassignAmenity(ctx context.Context, roomID, amenityID string) (*room.Room, error) {
	args := m.Called(ctx, roomID, amenityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*room.Room), args.Error(1)
}

// MockReservationService はReservationServiceInterfaceのモック
type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) CreateReservation(ctx context.Context, input application.CreateReservationInput) (*reservation.Reservation, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationService) GetReservation(ctx context.Context, id string) (*reservation.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationService) ListReservations(ctx context.Context) ([]*reservation.Reservation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

func (m *MockReservationService) ListClientReservations(ctx context.Context, clientID string) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

func (m *MockReservationService) UpdateReservation(ctx context.Context, id string, input application.UpdateReservationInput) (*reservation.Reservation, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationService) DeleteReservation(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReservationService) UnavailableDates(ctx context.Context, roomID string) ([]time.Time, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

// MockClientService はClientServiceInterfaceのモック
type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) CreateClient(ctx context.Context, input application.ClientInput) (*client.Client, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockClientService) GetClient(ctx context.Context, id string) (*client.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockClientService) ListClients(ctx context.Context) ([]*client.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*client.Client), args.Error(1)
}

func (m *MockClientService) UpdateClient(ctx context.Context, id string, input application.ClientInput) (*client.Client, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockClientService) DeleteClient(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockPaymentService はPaymentServiceInterfaceのモック
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreatePayment(ctx context.Context, input application.CreatePaymentInput) (*payment.Payment, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentService) GetPayment(ctx context.Context, id string) (*payment.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentService) ListPayments(ctx context.Context) ([]*payment.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Payment), args.Error(1)
}

func (m *MockPaymentService) UpdatePayment(ctx context.Context, id string, input application.UpdatePaymentInput) (*payment.Payment, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentService) DeletePayment(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
