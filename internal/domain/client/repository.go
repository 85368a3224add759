package client

import "context"

// Repository は顧客リポジトリのインターフェース
type Repository interface {
	// Create は新しい顧客を作成する（メールアドレス重複時は ErrEmailExists）
	Create(ctx context.Context, client *Client) error

	// GetByID はIDから顧客を取得する
	GetByID(ctx context.Context, id string) (*Client, error)

	// List は全ての顧客を取得する
	List(ctx context.Context) ([]*Client, error)

	// Update は顧客を更新する（メールアドレス重複時は ErrEmailExists）
	Update(ctx context.Context, client *Client) error

	// Delete は顧客を削除する
	Delete(ctx context.Context, id string) error
}
