package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/amenity"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/money"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/room"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/transaction"
)

const amenityColumns = `a.id, a.name, a.description, a.surcharge_cents, a.created_at, a.updated_at`

type amenityRow struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	Description    string    `db:"description"`
	SurchargeCents int64     `db:"surcharge_cents"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r *amenityRow) toEntity() *amenity.Amenity {
	return &amenity.Amenity{
		ID: r.ID, Name: r.Name, Description: r.Description,
		Surcharge: money.FromCents(r.SurchargeCents),
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type AmenityRepository struct{ db *sqlx.DB }

func NewAmenityRepository(db *sqlx.DB) *AmenityRepository { return &AmenityRepository{db: db} }

func (r *AmenityRepository) Create(ctx context.Context, a *amenity.Amenity) error {
	query := `INSERT INTO amenities (name, description, surcharge_cents, created_at, updated_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, a.Name, a.Description, a.Surcharge.Cents(), a.CreatedAt, a.UpdatedAt).Scan(&a.ID); err != nil {
		if pgCode(err) == pgUniqueViolation {
			return amenity.NameExists(a.Name)
		}
		return fmt.Errorf("アメニティ作成に失敗: %w", err)
	}
	return nil
}

func (r *AmenityRepository) GetByID(ctx context.Context, id string) (*amenity.Amenity, error) {
	return r.get(ctx, r.db, `SELECT `+amenityColumns+` FROM amenities a WHERE a.id = $1`, id)
}

func (r *AmenityRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*amenity.Amenity, error) {
	sqlTx := UnwrapTx(tx)
	if sqlTx == nil {
		return nil, fmt.Errorf("アメニティのロック取得にはトランザクションが必要です")
	}
	return r.get(ctx, sqlTx, `SELECT `+amenityColumns+` FROM amenities a WHERE a.id = $1 FOR UPDATE`, id)
}

func (r *AmenityRepository) get(ctx context.Context, q queryer, query, id string) (*amenity.Amenity, error) {
	if !validID(id) {
		return nil, amenity.ErrAmenityNotFound
	}
	var row amenityRow
	if err := q.GetContext(ctx, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, amenity.ErrAmenityNotFound
		}
		return nil, fmt.Errorf("アメニティ取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *AmenityRepository) List(ctx context.Context) ([]*amenity.Amenity, error) {
	return r.list(ctx, `SELECT `+amenityColumns+` FROM amenities a ORDER BY a.name`)
}

func (r *AmenityRepository) ListByRoomID(ctx context.Context, roomID string) ([]*amenity.Amenity, error) {
	query := `SELECT ` + amenityColumns + ` FROM amenities a
		JOIN room_amenities ra ON ra.amenity_id = a.id
		WHERE ra.room_id = $1 ORDER BY a.name`
	return r.list(ctx, query, roomID)
}

func (r *AmenityRepository) list(ctx context.Context, query string, args ...interface{}) ([]*amenity.Amenity, error) {
	var rows []amenityRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("アメニティ一覧取得に失敗: %w", err)
	}
	result := make([]*amenity.Amenity, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

func (r *AmenityRepository) Update(ctx context.Context, tx transaction.Tx, a *amenity.Amenity) error {
	query := `UPDATE amenities SET name = $1, description = $2, surcharge_cents = $3, updated_at = $4 WHERE id = $5`
	result, err := conn(r.db, tx).ExecContext(ctx, query, a.Name, a.Description, a.Surcharge.Cents(), a.UpdatedAt, a.ID)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return amenity.NameExists(a.Name)
		}
		return fmt.Errorf("アメニティ更新に失敗: %w", err)
	}
	return expectAffected(result, amenity.ErrAmenityNotFound)
}

// Delete はアメニティを削除する。room_amenities は ON DELETE CASCADE で消える
func (r *AmenityRepository) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	result, err := conn(r.db, tx).ExecContext(ctx, `DELETE FROM amenities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("アメニティ削除に失敗: %w", err)
	}
	return expectAffected(result, amenity.ErrAmenityNotFound)
}

func (r *AmenityRepository) Assign(ctx context.Context, tx transaction.Tx, roomID, amenityID string) error {
	_, err := conn(r.db, tx).ExecContext(ctx,
		`INSERT INTO room_amenities (room_id, amenity_id) VALUES ($1, $2)`, roomID, amenityID)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return room.ErrAmenityAlreadyAssigned
		}
		return fmt.Errorf("アメニティ割り当てに失敗: %w", err)
	}
	return nil
}

func (r *AmenityRepository) Unassign(ctx context.Context, tx transaction.Tx, roomID, amenityID string) error {
	result, err := conn(r.db, tx).ExecContext(ctx,
		`DELETE FROM room_amenities WHERE room_id = $1 AND amenity_id = $2`, roomID, amenityID)
	if err != nil {
		return fmt.Errorf("アメニティ割り当て解除に失敗: %w", err)
	}
	return expectAffected(result, room.ErrAmenityNotAssigned)
}

var _ amenity.Repository = (*AmenityRepository)(nil)
