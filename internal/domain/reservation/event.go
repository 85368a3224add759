package reservation

import (
	"time"

	"github.com/google/uuid"
)

// EventType は予約ライフサイクルイベントの種別
type EventType string

const (
	EventCreated     EventType = "reservation.created"
	EventUpdated     EventType = "reservation.updated"
	EventDeleted     EventType = "reservation.deleted"
	EventConfirmed   EventType = "reservation.confirmed"
	EventUnconfirmed EventType = "reservation.unconfirmed"
)

const dateLayout = "2006-01-02"

// Event は外部に通知する予約イベント
type Event struct {
	ID            string    `json:"id"`
	Type          EventType `json:"type"`
	ReservationID string    `json:"reservation_id"`
	ClientID      string    `json:"client_id"`
	RoomID        string    `json:"room_id"`
	CheckIn       string    `json:"check_in"`
	CheckOut      string    `json:"check_out"`
	Guests        int       `json:"guests"`
	TotalPrice    string    `json:"total_price"`
	Status        Status    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewEvent は予約の現在の状態からイベントを作成する
func NewEvent(t EventType, r *Reservation) Event {
	return Event{
		ID:            uuid.New().String(),
		Type:          t,
		ReservationID: r.ID,
		ClientID:      r.ClientID,
		RoomID:        r.RoomID,
		CheckIn:       r.CheckIn.Format(dateLayout),
		CheckOut:      r.CheckOut.Format(dateLayout),
		Guests:        r.Guests,
		TotalPrice:    r.TotalPrice.String(),
		Status:        r.Status,
		OccurredAt:    time.Now().UTC(),
	}
}
