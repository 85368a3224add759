package payment

import "errors"

// Payment ドメインのエラー定義
var (
	ErrPaymentNotFound       = errors.New("Payment not found!")
	ErrInvalidCardNumber     = errors.New("Card number must be 16 digits")
	ErrPaymentDateRequired   = errors.New("Payment date cannot be null")
	ErrFuturePaymentDate     = errors.New("Payment date cannot be in the future")
	ErrInvalidAmount         = errors.New("Amount must be greater than zero")
	ErrInvalidStatus         = errors.New("Status must be one of PENDING, COMPLETED, FAILED")
	ErrClientIDRequired      = errors.New("Client ID cannot be null")
	ErrReservationIDRequired = errors.New("Reservation ID cannot be null")
)
