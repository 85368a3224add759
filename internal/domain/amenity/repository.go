package amenity

import (
	"context"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/transaction"
)

// Repository はアメニティリポジトリのインターフェース
type Repository interface {
	// Create は新しいアメニティを作成する（名前重複時は ErrAmenityNameExists）
	Create(ctx context.Context, amenity *Amenity) error

	// GetByID はIDからアメニティを取得する
	GetByID(ctx context.Context, id string) (*Amenity, error)

	// GetByIDForUpdate はアメニティを行ロック付きで取得する（トランザクション必須）
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Amenity, error)

	// List は全てのアメニティを名前順で取得する
	List(ctx context.Context) ([]*Amenity, error)

	// ListByRoomID は部屋に割り当てられたアメニティを取得する
	ListByRoomID(ctx context.Context, roomID string) ([]*Amenity, error)

	// Update はアメニティを更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, amenity *Amenity) error

	// Delete はアメニティを削除する（トランザクション必須）
	Delete(ctx context.Context, tx transaction.Tx, id string) error

	// Assign は部屋にアメニティを割り当てる（トランザクション必須）
	Assign(ctx context.Context, tx transaction.Tx, roomID, amenityID string) error

	// Unassign は部屋からアメニティの割り当てを外す（トランザクション必須）
	Unassign(ctx context.Context, tx transaction.Tx, roomID, amenityID string) error
}
