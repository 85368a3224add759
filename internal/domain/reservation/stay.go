package reservation

import (
	"sort"
	"time"
)

const day = 24 * time.Hour

// Day は時刻を UTC の日付（0時）に切り詰める
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateStay はチェックイン・チェックアウト日の前提条件を検証する
func ValidateStay(checkIn, checkOut time.Time) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return ErrDatesRequired
	}
	if !Day(checkIn).Before(Day(checkOut)) {
		return ErrCheckInNotBeforeCheckOut
	}
	return nil
}

// Overlaps は半開区間 [aIn, aOut) と [bIn, bOut) が重なるかを返す
// チェックアウト日と同日のチェックインは重ならない
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && bIn.Before(aOut)
}

// Nights は宿泊数（日数差）を返す
func Nights(checkIn, checkOut time.Time) int {
	return int(Day(checkOut).Sub(Day(checkIn)) / day)
}

// Conflicting は予約一覧のうち指定期間と重なるものを返す
// excludeID に一致する予約（更新中の予約自身）は判定から除く
func Conflicting(reservations []*Reservation, checkIn, checkOut time.Time, excludeID string) []*Reservation {
	var conflicts []*Reservation
	for _, r := range reservations {
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		if r.Overlaps(checkIn, checkOut) {
			conflicts = append(conflicts, r)
		}
	}
	return conflicts
}

// UnavailableDates は各予約の [CheckIn, CheckOut) に含まれる日付を昇順・重複なしで返す
func UnavailableDates(reservations []*Reservation) []time.Time {
	seen := make(map[time.Time]struct{})
	dates := make([]time.Time, 0)
	for _, r := range reservations {
		for d := Day(r.CheckIn); d.Before(Day(r.CheckOut)); d = d.Add(day) {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
