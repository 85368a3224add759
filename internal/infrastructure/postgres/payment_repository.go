package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/money"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/payment"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/transaction"
)

const paymentColumns = `id, client_id, reservation_id, card_number, paid_on, amount_cents, status, created_at, updated_at`

type paymentRow struct {
	ID            string         `db:"id"`
	ClientID      string         `db:"client_id"`
	ReservationID sql.NullString `db:"reservation_id"`
	CardNumber    string         `db:"card_number"`
	PaidOn        time.Time      `db:"paid_on"`
	AmountCents   int64          `db:"amount_cents"`
	Status        string         `db:"status"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (r *paymentRow) toEntity() *payment.Payment {
	return &payment.Payment{
		ID: r.ID, ClientID: r.ClientID, ReservationID: r.ReservationID.String,
		CardNumber: r.CardNumber, PaidOn: r.PaidOn, Amount: money.FromCents(r.AmountCents),
		Status: payment.Status(r.Status), CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type PaymentRepository struct{ db *sqlx.DB }

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, tx transaction.Tx, p *payment.Payment) error {
	query := `INSERT INTO payments (client_id, reservation_id, card_number, paid_on, amount_cents, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := conn(r.db, tx).QueryRowxContext(ctx, query,
		p.ClientID, nullable(p.ReservationID), p.CardNumber, p.PaidOn, p.Amount.Cents(), string(p.Status), p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("支払い作成に失敗: %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*payment.Payment, error) {
	if !validID(id) {
		return nil, payment.ErrPaymentNotFound
	}
	var row paymentRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id); err != nil {
		if isNoRows(err) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("支払い取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *PaymentRepository) List(ctx context.Context) ([]*payment.Payment, error) {
	var rows []paymentRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+paymentColumns+` FROM payments ORDER BY paid_on DESC`); err != nil {
		return nil, fmt.Errorf("支払い一覧取得に失敗: %w", err)
	}
	result := make([]*payment.Payment, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	query := `UPDATE payments SET card_number = $1, paid_on = $2, status = $3, updated_at = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, p.CardNumber, p.PaidOn, string(p.Status), p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("支払い更新に失敗: %w", err)
	}
	return expectAffected(result, payment.ErrPaymentNotFound)
}

func (r *PaymentRepository) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	result, err := conn(r.db, tx).ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("支払い削除に失敗: %w", err)
	}
	return expectAffected(result, payment.ErrPaymentNotFound)
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ payment.Repository = (*PaymentRepository)(nil)
