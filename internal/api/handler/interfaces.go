package handler

import (
	"context"
	"time"

	"github.com/sanosuguru/go-hotel-reservation/internal/application"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/amenity"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/client"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/payment"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/room"
)

// RoomServiceInterface は部屋サービスのインターフェース
type RoomServiceInterface interface {
	CreateRoom(ctx context.Context, input application.CreateRoomInput) (*room.Room, error)
	CreateRooms(ctx context.Context, input application.CreateRoomsInput) ([]*room.Room, error)
	GetRoom(ctx context.Context, id string) (*room.Room, error)
	ListRooms(ctx context.Context) ([]*room.Room, error)
	UpdateRoom(ctx context.Context, id string, input application.UpdateRoomInput) (*room.Room, error)
	DeleteRoom(ctx context.Context, id string) error
	DeleteAllRooms(ctx context.Context) (int, error)
	SearchRooms(ctx context.Context, criteria room.SearchCriteria) (*room.Page, error)
	ListRoomAmenities(ctx context.Context, roomID string) ([]*amenity.Amenity, error)
}

// AmenityServiceInterface はアメニティサービスのインターフェース
type AmenityServiceInterface interface {
	CreateAmenity(ctx context.Context, input application.AmenityInput) (*amenity.Amenity, error)
	GetAmenity(ctx context.Context, id string) (*amenity.Amenity, error)
	ListAmenities(ctx context.Context) ([]*amenity.Amenity, error)
	UpdateAmenity(ctx context.Context, id string, input application.AmenityInput) (*amenity.Amenity, error)
	DeleteAmenity(ctx context.Context, id string) error
	AssignAmenity(ctx context.Context, roomID, amenityID string) (*room.Room, error)
	UnassignAmenity(ctx context.Context, roomID, amenityID string) (*room.Room, error)
}

// ReservationServiceInterface は予約サービスのインターフェース
type ReservationServiceInterface interface {
	CreateReservation(ctx context.Context, input application.CreateReservationInput) (*reservation.Reservation, error)
	GetReservation(ctx context.Context, id string) (*reservation.Reservation, error)
	ListReservations(ctx context.Context) ([]*reservation.Reservation, error)
	ListClientReservations(ctx context.Context, clientID string) ([]*reservation.Reservation, error)
	UpdateReservation(ctx context.Context, id string, input application.UpdateReservationInput) (*reservation.Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
	UnavailableDates(ctx context.Context, roomID string) ([]time.Time, error)
}

// ClientServiceInterface は顧客サービスのインターフェース
type ClientServiceInterface interface {
	CreateClient(ctx context.Context, input application.ClientInput) (*client.Client, error)
	GetClient(ctx context.Context, id string) (*client.Client, error)
	ListClients(ctx context.Context) ([]*client.Client, error)
	UpdateClient(ctx context.Context, id string, input application.ClientInput) (*client.Client, error)
	DeleteClient(ctx context.Context, id string) error
}

// PaymentServiceInterface は支払いサービスのインターフェース
type PaymentServiceInterface interface {
	CreatePayment(ctx context.Context, input application.CreatePaymentInput) (*payment.Payment, error)
	GetPayment(ctx context.Context, id string) (*payment.Payment, error)
	ListPayments(ctx context.Context) ([]*payment.Payment, error)
	UpdatePayment(ctx context.Context, id string, input application.UpdatePaymentInput) (*payment.Payment, error)
	DeletePayment(ctx context.Context, id string) error
}
