package room

import (
	"errors"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/domainerr"
)

// Room ドメインのエラー定義
var (
	ErrRoomNotFound           = errors.New("Room not found!")
	ErrRoomNumberExists       = errors.New("Room with this number already exists.")
	ErrRoomHasReservations    = errors.New("Room has active reservations and cannot be deleted.")
	ErrInvalidRoomNumber      = errors.New("Room number must be between 1 to 4 digits")
	ErrInvalidRate            = errors.New("Price must be greater than 0")
	ErrInvalidRoomType        = errors.New("Room type must be one of SINGLE, DOUBLE, TWIN, DELUXE")
	ErrInvalidRoomCount       = errors.New("There must be at least one room")
	ErrAmenityAlreadyAssigned = errors.New("Amenity is already assigned to this room.")
	ErrAmenityNotAssigned     = errors.New("Amenity is not assigned to this room.")

	// 定員ルール
	ErrNoGuests           = errors.New("There must be at least 1 guest.")
	ErrSingleRoomCapacity = errors.New("For a SINGLE room, only 1 guest is allowed.")
	ErrDoubleRoomCapacity = errors.New("For a DOUBLE room, the number of guests must be between 1 and 2.")
	ErrTwinRoomCapacity   = errors.New("For a TWIN room, the number of guests must be between 1 and 2.")
	ErrDeluxeRoomCapacity = errors.New("For a DELUXE room, the number of guests must be between 1 and 5.")
)

// HasReservations は部屋IDを含む ErrRoomHasReservations を返す
func HasReservations(id string) error {
	return domainerr.New(ErrRoomHasReservations, "Room with ID: %s has active reservations and cannot be deleted.", id)
}
