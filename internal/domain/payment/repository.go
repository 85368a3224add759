package payment

import (
	"context"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/transaction"
)

// Repository は支払いリポジトリのインターフェース
type Repository interface {
	// Create は新しい支払いを作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, payment *Payment) error

	// GetByID はIDから支払いを取得する
	GetByID(ctx context.Context, id string) (*Payment, error)

	// List は全ての支払いを取得する
	List(ctx context.Context) ([]*Payment, error)

	// Update は支払いを更新する
	Update(ctx context.Context, payment *Payment) error

	// Delete は支払いを削除する（トランザクション必須）
	Delete(ctx context.Context, tx transaction.Tx, id string) error
}
