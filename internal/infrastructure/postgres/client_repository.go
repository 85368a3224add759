package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/client"
)

const clientColumns = `id, first_name, last_name, email, phone, password_hash, created_at, updated_at`

type clientRow struct {
	ID           string    `db:"id"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Email        string    `db:"email"`
	Phone        string    `db:"phone"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r *clientRow) toEntity() *client.Client {
	return &client.Client{
		ID: r.ID, FirstName: r.FirstName, LastName: r.LastName,
		Email: r.Email, Phone: r.Phone, PasswordHash: r.PasswordHash,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type ClientRepository struct{ db *sqlx.DB }

func NewClientRepository(db *sqlx.DB) *ClientRepository { return &ClientRepository{db: db} }

func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	query := `INSERT INTO clients (first_name, last_name, email, phone, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, c.FirstName, c.LastName, c.Email, c.Phone, c.PasswordHash, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return client.EmailExists(c.Email)
		}
		return fmt.Errorf("顧客作成に失敗: %w", err)
	}
	return nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id string) (*client.Client, error) {
	if !validID(id) {
		return nil, client.ErrClientNotFound
	}
	var row clientRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id); err != nil {
		if isNoRows(err) {
			return nil, client.ErrClientNotFound
		}
		return nil, fmt.Errorf("顧客取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ClientRepository) List(ctx context.Context) ([]*client.Client, error) {
	var rows []clientRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+clientColumns+` FROM clients ORDER BY created_at`); err != nil {
		return nil, fmt.Errorf("顧客一覧取得に失敗: %w", err)
	}
	result := make([]*client.Client, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

func (r *ClientRepository) Update(ctx context.Context, c *client.Client) error {
	query := `UPDATE clients SET first_name = $1, last_name = $2, email = $3, phone = $4, password_hash = $5, updated_at = $6 WHERE id = $7`
	result, err := r.db.ExecContext(ctx, query, c.FirstName, c.LastName, c.Email, c.Phone, c.PasswordHash, c.UpdatedAt, c.ID)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return client.EmailExists(c.Email)
		}
		return fmt.Errorf("顧客更新に失敗: %w", err)
	}
	return expectAffected(result, client.ErrClientNotFound)
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return clientDeleteGuard(err, id)
		}
		return fmt.Errorf("顧客削除に失敗: %w", err)
	}
	return expectAffected(result, client.ErrClientNotFound)
}

// clientDeleteGuard は顧客削除時の外部キー違反を参照元に応じたエラーに変換する
func clientDeleteGuard(err error, id string) error {
	if pgConstraint(err) == fkPaymentsClient {
		return client.HasPayments(id)
	}
	return client.HasReservations(id)
}

var _ client.Repository = (*ClientRepository)(nil)
