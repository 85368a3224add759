package reservation

import (
	"context"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約を作成する（トランザクション必須）
	// 同じ部屋で期間が重なる予約が既にある場合は ErrRoomAlreadyBooked
	Create(ctx context.Context, tx transaction.Tx, reservation *Reservation) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Reservation, error)

	// GetByIDForUpdate は予約を行ロック付きで取得する（トランザクション必須）
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Reservation, error)

	// List は全ての予約をチェックイン日順で取得する
	List(ctx context.Context) ([]*Reservation, error)

	// ListByClientID は顧客の予約一覧を取得する
	ListByClientID(ctx context.Context, clientID string) ([]*Reservation, error)

	// ListByRoomID は部屋の予約一覧を取得する（tx が nil の場合はトランザクション外で読む）
	ListByRoomID(ctx context.Context, tx transaction.Tx, roomID string) ([]*Reservation, error)

	// CountByRoomID は部屋の予約件数を返す
	CountByRoomID(ctx context.Context, roomID string) (int, error)

	// CountByClientID は顧客の予約件数を返す
	CountByClientID(ctx context.Context, clientID string) (int, error)

	// Update は予約を更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, reservation *Reservation) error

	// UpdateStatus は予約の状態のみを更新する（トランザクション必須）
	UpdateStatus(ctx context.Context, tx transaction.Tx, id string, status Status) error

	// Delete は予約を削除する（トランザクション必須）
	Delete(ctx context.Context, tx transaction.Tx, id string) error
}
