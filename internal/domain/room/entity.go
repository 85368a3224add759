package room

import (
	"regexp"
	"time"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/money"
)

// Type は部屋タイプを表す
type Type string

const (
	TypeSingle Type = "SINGLE"
	TypeDouble Type = "DOUBLE"
	TypeTwin   Type = "TWIN"
	TypeDeluxe Type = "DELUXE"
)

// IsValid は定義済みの部屋タイプかを返す
func (t Type) IsValid() bool {
	switch t {
	case TypeSingle, TypeDouble, TypeTwin, TypeDeluxe:
		return true
	}
	return false
}

var roomNumberPattern = regexp.MustCompile(`^\d{1,4}$`)

// Room は部屋エンティティを表す
// Rate は基本料金に割り当て済みアメニティの追加料金を足し込んだ1泊料金
// Available は予約作成時に false、予約削除時に true になる目安のフラグで、
// 日付ごとの空き状況の正は予約の重複判定にある
type Room struct {
	ID          string
	Number      string
	Rate        money.Money
	Type        Type
	Available   bool
	Description string
	AmenityIDs  []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewRoom は新しい部屋を作成する
func NewRoom(number string, rate money.Money, t Type, description string) *Room {
	now := time.Now()
	return &Room{
		Number:      number,
		Rate:        rate,
		Type:        t,
		Available:   true,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate は部屋の検証を行う
func (r *Room) Validate() error {
	if !roomNumberPattern.MatchString(r.Number) {
		return ErrInvalidRoomNumber
	}
	if !r.Rate.IsPositive() {
		return ErrInvalidRate
	}
	if !r.Type.IsValid() {
		return ErrInvalidRoomType
	}
	return nil
}

// HasAmenity はアメニティが割り当て済みかを返す
func (r *Room) HasAmenity(amenityID string) bool {
	for _, id := range r.AmenityIDs {
		if id == amenityID {
			return true
		}
	}
	return false
}

// AddAmenity はアメニティを割り当て、追加料金を1泊料金に加算する
func (r *Room) AddAmenity(amenityID string, surcharge money.Money) error {
	if r.HasAmenity(amenityID) {
		return ErrAmenityAlreadyAssigned
	}
	r.AmenityIDs = append(r.AmenityIDs, amenityID)
	r.AdjustRate(surcharge)
	return nil
}

// RemoveAmenity はアメニティの割り当てを外し、追加料金を1泊料金から差し引く
func (r *Room) RemoveAmenity(amenityID string, surcharge money.Money) error {
	for i, id := range r.AmenityIDs {
		if id == amenityID {
			r.AmenityIDs = append(r.AmenityIDs[:i], r.AmenityIDs[i+1:]...)
			r.AdjustRate(-surcharge)
			return nil
		}
	}
	return ErrAmenityNotAssigned
}

// AdjustRate は1泊料金に差分を適用する
func (r *Room) AdjustRate(delta money.Money) {
	r.Rate += delta
	r.UpdatedAt = time.Now()
}

// Reserve は予約作成に伴い空きフラグを落とす
func (r *Room) Reserve() {
	r.Available = false
	r.UpdatedAt = time.Now()
}

// Release は予約削除に伴い空きフラグを戻す
func (r *Room) Release() {
	r.Available = true
	r.UpdatedAt = time.Now()
}
