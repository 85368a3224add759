package room

import (
	"context"
	"time"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/money"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/transaction"
)

// Repository は部屋リポジトリのインターフェース
type Repository interface {
	// Create は新しい部屋を作成する（部屋番号重複時は ErrRoomNumberExists）
	Create(ctx context.Context, room *Room) error

	// CreateBulk は複数の部屋を作成し、既存の部屋番号はスキップする
	// 実際に作成された部屋のみを返す
	CreateBulk(ctx context.Context, rooms []*Room) ([]*Room, error)

	// GetByID はIDから部屋を取得する
	GetByID(ctx context.Context, id string) (*Room, error)

	// GetByIDForUpdate は部屋を行ロック付きで取得する（トランザクション必須）
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Room, error)

	// List は全ての部屋を部屋番号順で取得する
	List(ctx context.Context) ([]*Room, error)

	// ListByAmenityForUpdate はアメニティが割り当てられた部屋を行ロック付きで取得する（トランザクション必須）
	ListByAmenityForUpdate(ctx context.Context, tx transaction.Tx, amenityID string) ([]*Room, error)

	// Update は部屋の属性を更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, room *Room) error

	// UpdateRate は1泊料金を更新する（トランザクション必須）
	UpdateRate(ctx context.Context, tx transaction.Tx, id string, rate money.Money) error

	// SetAvailable は空きフラグを更新する（トランザクション必須）
	SetAvailable(ctx context.Context, tx transaction.Tx, id string, available bool) error

	// Delete は部屋を削除する（アメニティ割り当ても削除される）
	Delete(ctx context.Context, id string) error

	// Search は条件に一致する部屋をページ単位で取得する
	Search(ctx context.Context, criteria SearchCriteria) (*Page, error)

	// SyncAvailability は asOf 以降にチェックアウトする予約の有無で空きフラグを再計算し、
	// 空きなしとなった部屋数を返す
	SyncAvailability(ctx context.Context, asOf time.Time) (int, error)
}
