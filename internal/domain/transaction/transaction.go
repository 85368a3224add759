package transaction

import (
	"context"
	"fmt"
)

// Tx はトランザクションを表すインターフェース
// ドメイン層がインフラ層（sqlx等）に依存しないようにするための抽象化
type Tx interface {
	Commit() error
	Rollback() error
}

// Manager はトランザクションを開始する
type Manager interface {
	Begin(ctx context.Context) (Tx, error)
}

// Run は fn を1つのトランザクション内で実行する
// fn がエラーを返した場合は全ての変更をロールバックし、途中までの適用は残さない
func Run(ctx context.Context, m Manager, fn func(tx Tx) error) error {
	tx, err := m.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}
	return nil
}
