package room

import (
	"time"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/money"
)

const (
	DefaultPageSize = 5
	MaxPageSize     = 100
)

// SearchCriteria は部屋検索の条件。nil の項目は条件に含めない
// CheckIn/CheckOut を指定した場合、その期間に重複する予約を持つ部屋は
// Available フラグに関係なく除外される
type SearchCriteria struct {
	Type      *Type
	MinRate   *money.Money
	MaxRate   *money.Money
	Available *bool
	CheckIn   *time.Time
	CheckOut  *time.Time
	SortDesc  bool
	Page      int
	Size      int
}

// HasStay は期間条件が指定されているかを返す
func (c *SearchCriteria) HasStay() bool {
	return c.CheckIn != nil || c.CheckOut != nil
}

// Normalize はページ指定を補正する
func (c *SearchCriteria) Normalize(defaultSize int) {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if c.Page < 0 {
		c.Page = 0
	}
	if c.Size <= 0 {
		c.Size = defaultSize
	}
	if c.Size > MaxPageSize {
		c.Size = MaxPageSize
	}
}

// Offset は取得開始位置を返す
func (c *SearchCriteria) Offset() int {
	return c.Page * c.Size
}

// Page は部屋検索結果の1ページ分
type Page struct {
	Rooms []*Room
	Page  int
	Size  int
	Total int
}
