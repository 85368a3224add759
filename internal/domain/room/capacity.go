package room

// capacityRule は部屋タイプごとの定員ルール
type capacityRule struct {
	roomType Type
	reject   func(guests int) bool
	err      error
}

// capacityRules は上から順に評価される。部屋タイプを追加する場合は行を追加すること
var capacityRules = []capacityRule{
	{TypeSingle, func(g int) bool { return g != 1 }, ErrSingleRoomCapacity},
	{TypeDouble, func(g int) bool { return g > 2 }, ErrDoubleRoomCapacity},
	{TypeTwin, func(g int) bool { return g > 2 }, ErrTwinRoomCapacity},
	{TypeDeluxe, func(g int) bool { return g > 5 }, ErrDeluxeRoomCapacity},
}

// ValidateGuests は部屋タイプと宿泊人数の組み合わせを検証する
// 人数 0 以下は部屋タイプに関係なく先に弾く
func ValidateGuests(t Type, guests int) error {
	if guests < 1 {
		return ErrNoGuests
	}
	for _, rule := range capacityRules {
		if rule.roomType != t {
			continue
		}
		if rule.reject(guests) {
			return rule.err
		}
		return nil
	}
	return ErrInvalidRoomType
}
