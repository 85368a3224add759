package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/money"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/transaction"
)

const reservationColumns = `id, client_id, room_id, check_in, check_out, guests, total_cents, status, created_at, updated_at`

type reservationRow struct {
	ID         string    `db:"id"`
	ClientID   string    `db:"client_id"`
	RoomID     string    `db:"room_id"`
	CheckIn    time.Time `db:"check_in"`
	CheckOut   time.Time `db:"check_out"`
	Guests     int       `db:"guests"`
	TotalCents int64     `db:"total_cents"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r *reservationRow) toEntity() *reservation.Reservation {
	return &reservation.Reservation{
		ID: r.ID, ClientID: r.ClientID, RoomID: r.RoomID,
		CheckIn: reservation.Day(r.CheckIn), CheckOut: reservation.Day(r.CheckOut),
		Guests: r.Guests, TotalPrice: money.FromCents(r.TotalCents),
		Status:    reservation.Status(r.Status),
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type ReservationRepository struct{ db *sqlx.DB }

func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create は予約を作成する
// 排他制約に違反した場合（同じ部屋で期間が重なる）は ErrRoomAlreadyBooked を返す
func (r *ReservationRepository) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	query := `INSERT INTO reservations (client_id, room_id, check_in, check_out, guests, total_cents, status, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4::date, $5, $6, $7, $8, $9) RETURNING id`
	err := conn(r.db, tx).QueryRowxContext(ctx, query,
		res.ClientID, res.RoomID, dateParam(res.CheckIn), dateParam(res.CheckOut),
		res.Guests, res.TotalPrice.Cents(), string(res.Status), res.CreatedAt, res.UpdatedAt,
	).Scan(&res.ID)
	if err != nil {
		return mapReservationWriteError(err, "予約作成に失敗")
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	return r.get(ctx, r.db, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
}

func (r *ReservationRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*reservation.Reservation, error) {
	sqlTx := UnwrapTx(tx)
	if sqlTx == nil {
		return nil, fmt.Errorf("予約のロック取得にはトランザクションが必要です")
	}
	return r.get(ctx, sqlTx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1 FOR UPDATE`, id)
}

func (r *ReservationRepository) get(ctx context.Context, q queryer, query, id string) (*reservation.Reservation, error) {
	if !validID(id) {
		return nil, reservation.ErrReservationNotFound
	}
	var row reservationRow
	if err := q.GetContext(ctx, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ReservationRepository) List(ctx context.Context) ([]*reservation.Reservation, error) {
	return r.list(ctx, r.db, `SELECT `+reservationColumns+` FROM reservations ORDER BY check_in, created_at`)
}

func (r *ReservationRepository) ListByClientID(ctx context.Context, clientID string) ([]*reservation.Reservation, error) {
	return r.list(ctx, r.db, `SELECT `+reservationColumns+` FROM reservations WHERE client_id = $1 ORDER BY check_in`, clientID)
}

func (r *ReservationRepository) ListByRoomID(ctx context.Context, tx transaction.Tx, roomID string) ([]*reservation.Reservation, error) {
	return r.list(ctx, conn(r.db, tx), `SELECT `+reservationColumns+` FROM reservations WHERE room_id = $1 ORDER BY check_in`, roomID)
}

func (r *ReservationRepository) list(ctx context.Context, q queryer, query string, args ...interface{}) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	result := make([]*reservation.Reservation, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

func (r *ReservationRepository) CountByRoomID(ctx context.Context, roomID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM reservations WHERE room_id = $1`, roomID)
}

func (r *ReservationRepository) CountByClientID(ctx context.Context, clientID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM reservations WHERE client_id = $1`, clientID)
}

func (r *ReservationRepository) count(ctx context.Context, query, id string) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, query, id); err != nil {
		return 0, fmt.Errorf("予約件数取得に失敗: %w", err)
	}
	return n, nil
}

func (r *ReservationRepository) Update(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	query := `UPDATE reservations SET client_id = $1, room_id = $2, check_in = $3::date, check_out = $4::date,
		guests = $5, total_cents = $6, status = $7, updated_at = $8 WHERE id = $9`
	result, err := conn(r.db, tx).ExecContext(ctx, query,
		res.ClientID, res.RoomID, dateParam(res.CheckIn), dateParam(res.CheckOut),
		res.Guests, res.TotalPrice.Cents(), string(res.Status), res.UpdatedAt, res.ID)
	if err != nil {
		return mapReservationWriteError(err, "予約更新に失敗")
	}
	return expectAffected(result, reservation.ErrReservationNotFound)
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, id string, status reservation.Status) error {
	result, err := conn(r.db, tx).ExecContext(ctx,
		`UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("予約状態更新に失敗: %w", err)
	}
	return expectAffected(result, reservation.ErrReservationNotFound)
}

// Delete は予約を削除する。参照している支払いの reservation_id は ON DELETE SET NULL で外れる
func (r *ReservationRepository) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	result, err := conn(r.db, tx).ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("予約削除に失敗: %w", err)
	}
	return expectAffected(result, reservation.ErrReservationNotFound)
}

func mapReservationWriteError(err error, msg string) error {
	if pgCode(err) == pgExclusionViolation {
		return reservation.ErrRoomAlreadyBooked
	}
	return fmt.Errorf("%s: %w", msg, err)
}

var _ reservation.Repository = (*ReservationRepository)(nil)
