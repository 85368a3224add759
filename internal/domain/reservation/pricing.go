package reservation

import (
	"time"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/money"
)

// TotalPrice は 1泊料金 × 宿泊数 を返す
// 1泊料金にはアメニティの追加料金が既に含まれている
func TotalPrice(rate money.Money, checkIn, checkOut time.Time) (money.Money, error) {
	if err := ValidateStay(checkIn, checkOut); err != nil {
		return 0, err
	}
	return rate.Times(Nights(checkIn, checkOut)), nil
}
