package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidAmount は金額の書式が不正な場合のエラー
var ErrInvalidAmount = errors.New("amount must be a decimal value with up to 2 decimal places")

// Money は金額を最小通貨単位（セント）の整数で保持する
// 料金の加減算を差分で積み上げるため、浮動小数点は使わない
type Money int64

// FromCents はセント単位の整数から Money を作成する
func FromCents(cents int64) Money {
	return Money(cents)
}

// Parse は "150", "150.5", "150.00" 形式の文字列を Money に変換する
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || (hasFrac && (frac == "" || len(frac) > 2)) {
		return 0, ErrInvalidAmount
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if !isDigits(whole) || !isDigits(frac) {
		return 0, ErrInvalidAmount
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	cents, _ := strconv.ParseInt(frac, 10, 64)
	// int64 のセントに収まらない金額は扱わない
	if units > (math.MaxInt64-cents)/100 {
		return 0, ErrInvalidAmount
	}
	v := units*100 + cents
	if neg {
		v = -v
	}
	return Money(v), nil
}

// MustParse はテスト・定数定義用。書式不正なら panic する
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Cents はセント単位の値を返す
func (m Money) Cents() int64 {
	return int64(m)
}

// Times は金額を n 倍する
func (m Money) Times(n int) Money {
	return m * Money(n)
}

// IsPositive は 0 より大きいかを返す
func (m Money) IsPositive() bool {
	return m > 0
}

func (m Money) String() string {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON は "150.00" 形式の文字列として出力する
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// UnmarshalJSON は数値・文字列のどちらも受け付ける
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return nil
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
