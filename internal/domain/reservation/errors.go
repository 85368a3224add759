package reservation

import "errors"

// Reservation ドメインのエラー定義
var (
	ErrReservationNotFound      = errors.New("Reservation not found!")
	ErrRoomAlreadyBooked        = errors.New("The room is already booked for the selected dates.")
	ErrDatesRequired            = errors.New("Check-in date and check-out date must not be null.")
	ErrCheckInNotBeforeCheckOut = errors.New("Check-in date must be before the check-out date.")
	ErrInvalidStatus            = errors.New("Status must be one of UNCONFIRMED, CONFIRMED, CANCELLED.")
	ErrClientIDRequired         = errors.New("Client ID cannot be null")
	ErrRoomIDRequired           = errors.New("Room ID cannot be null")
)
