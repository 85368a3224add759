package reservation

import (
	"time"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/money"
)

// Status は予約の状態を表す
type Status string

const (
	StatusUnconfirmed Status = "UNCONFIRMED"
	StatusConfirmed   Status = "CONFIRMED"
	StatusCancelled   Status = "CANCELLED"
)

// IsValid は定義済みの状態かを返す
func (s Status) IsValid() bool {
	switch s {
	case StatusUnconfirmed, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Reservation は予約エンティティを表す
// CheckIn/CheckOut は UTC 0時に正規化された日付で、期間は [CheckIn, CheckOut) の半開区間
type Reservation struct {
	ID         string
	ClientID   string
	RoomID     string
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int
	TotalPrice money.Money
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewReservation は未確定状態の予約を作成する
func NewReservation(clientID, roomID string, checkIn, checkOut time.Time, guests int, total money.Money) *Reservation {
	now := time.Now()
	return &Reservation{
		ClientID:   clientID,
		RoomID:     roomID,
		CheckIn:    Day(checkIn),
		CheckOut:   Day(checkOut),
		Guests:     guests,
		TotalPrice: total,
		Status:     StatusUnconfirmed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Confirm は支払い登録に伴い予約を確定する
func (r *Reservation) Confirm() {
	r.Status = StatusConfirmed
	r.UpdatedAt = time.Now()
}

// Unconfirm は支払い削除に伴い予約を未確定に戻す
func (r *Reservation) Unconfirm() {
	r.Status = StatusUnconfirmed
	r.UpdatedAt = time.Now()
}

// Overlaps は指定期間と宿泊期間が重なるかを返す
func (r *Reservation) Overlaps(checkIn, checkOut time.Time) bool {
	return Overlaps(r.CheckIn, r.CheckOut, Day(checkIn), Day(checkOut))
}

// Nights は宿泊数を返す
func (r *Reservation) Nights() int {
	return Nights(r.CheckIn, r.CheckOut)
}
