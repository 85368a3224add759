package client

import (
	"errors"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/domainerr"
)

// Client ドメインのエラー定義
var (
	ErrClientNotFound        = errors.New("Client not found!")
	ErrEmailExists           = errors.New("Account with this email already exists.")
	ErrClientHasReservations = errors.New("Client has active reservations and cannot be deleted.")
	ErrClientHasPayments     = errors.New("Client has payments and cannot be deleted.")
	ErrInvalidFirstName      = errors.New("First name must be between 2 and 50 characters")
	ErrInvalidLastName       = errors.New("Last name must be between 2 and 50 characters")
	ErrEmailRequired         = errors.New("Email cannot be null")
	ErrInvalidEmail          = errors.New("Email should be valid")
	ErrInvalidPhone          = errors.New("Phone number must be valid")
	ErrPasswordRequired      = errors.New("Password cannot be null")
	ErrPasswordTooLong       = errors.New("Password must not exceed 72 bytes")
)

// EmailExists は重複したメールアドレスを含む ErrEmailExists を返す
func EmailExists(email string) error {
	return domainerr.New(ErrEmailExists, "Account with email %s already exists.", email)
}

// HasReservations は顧客IDを含む ErrClientHasReservations を返す
func HasReservations(id string) error {
	return domainerr.New(ErrClientHasReservations, "Client with ID: %s has active reservations and cannot be deleted.", id)
}

// HasPayments は顧客IDを含む ErrClientHasPayments を返す
func HasPayments(id string) error {
	return domainerr.New(ErrClientHasPayments, "Client with ID: %s has payments and cannot be deleted.", id)
}
