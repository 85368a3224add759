package payment

import (
	"strings"
	"time"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/money"
)

// Status は支払いの状態を表す
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// IsValid は定義済みの状態かを返す
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Payment は支払いエンティティを表す
// カード番号は下4桁以外をマスクした形でのみ保持する
// ReservationID は予約削除後に空になる
type Payment struct {
	ID            string
	ClientID      string
	ReservationID string
	CardNumber    string
	PaidOn        time.Time
	Amount        money.Money
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewPayment は新しい支払いを作成する
func NewPayment(clientID, reservationID, cardNumber string, paidOn time.Time, amount money.Money, status Status) (*Payment, error) {
	masked, err := MaskCardNumber(cardNumber)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Payment{
		ClientID:      clientID,
		ReservationID: reservationID,
		CardNumber:    masked,
		PaidOn:        paidOn,
		Amount:        amount,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Validate は支払いの検証を行う
func (p *Payment) Validate(now time.Time) error {
	if p.ClientID == "" {
		return ErrClientIDRequired
	}
	if p.ReservationID == "" {
		return ErrReservationIDRequired
	}
	if p.PaidOn.IsZero() {
		return ErrPaymentDateRequired
	}
	if p.PaidOn.After(now) {
		return ErrFuturePaymentDate
	}
	if !p.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !p.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// MaskCardNumber は16桁のカード番号を検証し、下4桁以外を * に置き換える
func MaskCardNumber(cardNumber string) (string, error) {
	if len(cardNumber) != 16 {
		return "", ErrInvalidCardNumber
	}
	for _, c := range cardNumber {
		if c < '0' || c > '9' {
			return "", ErrInvalidCardNumber
		}
	}
	return strings.Repeat("*", 12) + cardNumber[12:], nil
}
