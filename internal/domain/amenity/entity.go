package amenity

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/money"
)

// Amenity はアメニティエンティティを表す
// Surcharge は割り当てられた部屋の1泊料金に加算される追加料金
type Amenity struct {
	ID          string
	Name        string
	Description string
	Surcharge   money.Money
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewAmenity は新しいアメニティを作成する
func NewAmenity(name, description string, surcharge money.Money) *Amenity {
	now := time.Now()
	return &Amenity{
		Name:        strings.TrimSpace(name),
		Description: description,
		Surcharge:   surcharge,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate はアメニティの検証を行う
func (a *Amenity) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(a.Name) > 50 {
		return ErrNameTooLong
	}
	if utf8.RuneCountInString(a.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if a.Surcharge < 0 {
		return ErrNegativeSurcharge
	}
	return nil
}

// Reprice は追加料金を変更し、割り当て済みの部屋に適用すべき差分を返す
func (a *Amenity) Reprice(surcharge money.Money) money.Money {
	delta := surcharge - a.Surcharge
	a.Surcharge = surcharge
	a.UpdatedAt = time.Now()
	return delta
}
