package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/money"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/room"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/transaction"
)

// roomColumns はアメニティIDを配列として同時に取得する
// FOR UPDATE と併用するため GROUP BY ではなくスカラーサブクエリで集約する
const roomColumns = `r.id, r.room_number, r.rate_cents, r.type, r.available, r.description,
	ARRAY(SELECT ra.amenity_id::text FROM room_amenities ra WHERE ra.room_id = r.id ORDER BY ra.amenity_id) AS amenity_ids,
	r.created_at, r.updated_at`

type roomRow struct {
	ID          string         `db:"id"`
	Number      string         `db:"room_number"`
	RateCents   int64          `db:"rate_cents"`
	Type        string         `db:"type"`
	Available   bool           `db:"available"`
	Description string         `db:"description"`
	AmenityIDs  pq.StringArray `db:"amenity_ids"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r *roomRow) toEntity() *room.Room {
	ids := make([]string, len(r.AmenityIDs))
	copy(ids, r.AmenityIDs)
	return &room.Room{
		ID: r.ID, Number: r.Number, Rate: money.FromCents(r.RateCents),
		Type: room.Type(r.Type), Available: r.Available, Description: r.Description,
		AmenityIDs: ids, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func toRooms(rows []roomRow) []*room.Room {
	rooms := make([]*room.Room, len(rows))
	for i := range rows {
		rooms[i] = rows[i].toEntity()
	}
	return rooms
}

type RoomRepository struct{ db *sqlx.DB }

func NewRoomRepository(db *sqlx.DB) *RoomRepository { return &RoomRepository{db: db} }

func (r *RoomRepository) Create(ctx context.Context, rm *room.Room) error {
	query := `INSERT INTO rooms (room_number, rate_cents, type, available, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, rm.Number, rm.Rate.Cents(), string(rm.Type), rm.Available,
		rm.Description, rm.CreatedAt, rm.UpdatedAt).Scan(&rm.ID)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return room.ErrRoomNumberExists
		}
		return fmt.Errorf("部屋作成に失敗: %w", err)
	}
	return nil
}

func (r *RoomRepository) CreateBulk(ctx context.Context, rooms []*room.Room) ([]*room.Room, error) {
	if len(rooms) == 0 {
		return nil, nil
	}

	created := make([]*room.Room, 0, len(rooms))
	const batchSize = 500
	for i := 0; i < len(rooms); i += batchSize {
		end := i + batchSize
		if end > len(rooms) {
			end = len(rooms)
		}
		batch, err := r.createBulkBatch(ctx, rooms[i:end])
		if err != nil {
			return nil, err
		}
		created = append(created, batch...)
	}
	return created, nil
}

// createBulkBatch はマルチバリューINSERTを実行し、既存の部屋番号はスキップする
func (r *RoomRepository) createBulkBatch(ctx context.Context, rooms []*room.Room) ([]*room.Room, error) {
	const cols = 7
	args := make([]interface{}, 0, len(rooms)*cols)
	placeholders := make([]string, 0, len(rooms))
	byNumber := make(map[string]*room.Room, len(rooms))

	for i, rm := range rooms {
		base := i * cols
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args, rm.Number, rm.Rate.Cents(), string(rm.Type), rm.Available, rm.Description, rm.CreatedAt, rm.UpdatedAt)
		byNumber[rm.Number] = rm
	}

	query := `INSERT INTO rooms (room_number, rate_cents, type, available, description, created_at, updated_at) VALUES ` +
		strings.Join(placeholders, ", ") +
		` ON CONFLICT (room_number) DO NOTHING RETURNING id, room_number`

	var inserted []struct {
		ID     string `db:"id"`
		Number string `db:"room_number"`
	}
	if err := r.db.SelectContext(ctx, &inserted, query, args...); err != nil {
		return nil, fmt.Errorf("部屋一括作成に失敗: %w", err)
	}

	created := make([]*room.Room, 0, len(inserted))
	for _, row := range inserted {
		if rm, ok := byNumber[row.Number]; ok {
			rm.ID = row.ID
			created = append(created, rm)
		}
	}
	return created, nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id string) (*room.Room, error) {
	return r.get(ctx, r.db, `SELECT `+roomColumns+` FROM rooms r WHERE r.id = $1`, id)
}

func (r *RoomRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*room.Room, error) {
	sqlTx := UnwrapTx(tx)
	if sqlTx == nil {
		return nil, fmt.Errorf("部屋のロック取得にはトランザクションが必要です")
	}
	return r.get(ctx, sqlTx, `SELECT `+roomColumns+` FROM rooms r WHERE r.id = $1 FOR UPDATE OF r`, id)
}

func (r *RoomRepository) get(ctx context.Context, q queryer, query, id string) (*room.Room, error) {
	if !validID(id) {
		return nil, room.ErrRoomNotFound
	}
	var row roomRow
	if err := q.GetContext(ctx, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, room.ErrRoomNotFound
		}
		return nil, fmt.Errorf("部屋取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *RoomRepository) List(ctx context.Context) ([]*room.Room, error) {
	var rows []roomRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+roomColumns+` FROM rooms r ORDER BY r.room_number`); err != nil {
		return nil, fmt.Errorf("部屋一覧取得に失敗: %w", err)
	}
	return toRooms(rows), nil
}

// ListByAmenityForUpdate はデッドロックを避けるため常にID順でロックを取得する
func (r *RoomRepository) ListByAmenityForUpdate(ctx context.Context, tx transaction.Tx, amenityID string) ([]*room.Room, error) {
	sqlTx := UnwrapTx(tx)
	if sqlTx == nil {
		return nil, fmt.Errorf("部屋のロック取得にはトランザクションが必要です")
	}
	query := `SELECT ` + roomColumns + ` FROM rooms r
		WHERE r.id IN (SELECT room_id FROM room_amenities WHERE amenity_id = $1)
		ORDER BY r.id FOR UPDATE OF r`
	var rows []roomRow
	if err := sqlTx.SelectContext(ctx, &rows, query, amenityID); err != nil {
		return nil, fmt.Errorf("アメニティ割り当て済み部屋の取得に失敗: %w", err)
	}
	return toRooms(rows), nil
}

func (r *RoomRepository) Update(ctx context.Context, tx transaction.Tx, rm *room.Room) error {
	query := `UPDATE rooms SET room_number = $1, rate_cents = $2, type = $3, available = $4, description = $5, updated_at = $6 WHERE id = $7`
	result, err := conn(r.db, tx).ExecContext(ctx, query, rm.Number, rm.Rate.Cents(), string(rm.Type), rm.Available, rm.Description, rm.UpdatedAt, rm.ID)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return room.ErrRoomNumberExists
		}
		return fmt.Errorf("部屋更新に失敗: %w", err)
	}
	return expectAffected(result, room.ErrRoomNotFound)
}

func (r *RoomRepository) UpdateRate(ctx context.Context, tx transaction.Tx, id string, rate money.Money) error {
	result, err := conn(r.db, tx).ExecContext(ctx,
		`UPDATE rooms SET rate_cents = $1, updated_at = NOW() WHERE id = $2`, rate.Cents(), id)
	if err != nil {
		if pgCode(err) == pgCheckViolation {
			return room.ErrInvalidRate
		}
		return fmt.Errorf("部屋料金更新に失敗: %w", err)
	}
	return expectAffected(result, room.ErrRoomNotFound)
}

func (r *RoomRepository) SetAvailable(ctx context.Context, tx transaction.Tx, id string, available bool) error {
	result, err := conn(r.db, tx).ExecContext(ctx,
		`UPDATE rooms SET available = $1, updated_at = NOW() WHERE id = $2`, available, id)
	if err != nil {
		return fmt.Errorf("空きフラグ更新に失敗: %w", err)
	}
	return expectAffected(result, room.ErrRoomNotFound)
}

// Delete は部屋を削除する。room_amenities は ON DELETE CASCADE で消える
func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return room.HasReservations(id)
		}
		return fmt.Errorf("部屋削除に失敗: %w", err)
	}
	return expectAffected(result, room.ErrRoomNotFound)
}

func (r *RoomRepository) Search(ctx context.Context, c room.SearchCriteria) (*room.Page, error) {
	where, args := searchConditions(c)

	var total int
	countQuery := `SELECT COUNT(*) FROM rooms r` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("部屋検索件数の取得に失敗: %w", err)
	}

	order := "ASC"
	if c.SortDesc {
		order = "DESC"
	}
	query := fmt.Sprintf(`SELECT %s FROM rooms r%s ORDER BY r.rate_cents %s, r.room_number ASC LIMIT $%d OFFSET $%d`,
		roomColumns, where, order, len(args)+1, len(args)+2)
	args = append(args, c.Size, c.Offset())

	var rows []roomRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("部屋検索に失敗: %w", err)
	}
	return &room.Page{Rooms: toRooms(rows), Page: c.Page, Size: c.Size, Total: total}, nil
}

// searchConditions は検索条件から WHERE 句を組み立てる
// 期間条件は予約の半開区間 [check_in, check_out) との重複で判定する
func searchConditions(c room.SearchCriteria) (string, []interface{}) {
	var conds []string
	var args []interface{}
	add := func(cond string, v interface{}) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if c.Type != nil {
		add("r.type = $%d", string(*c.Type))
	}
	if c.MinRate != nil {
		add("r.rate_cents >= $%d", c.MinRate.Cents())
	}
	if c.MaxRate != nil {
		add("r.rate_cents <= $%d", c.MaxRate.Cents())
	}
	if c.Available != nil {
		add("r.available = $%d", *c.Available)
	}
	if c.CheckIn != nil && c.CheckOut != nil {
		args = append(args, dateParam(*c.CheckIn), dateParam(*c.CheckOut))
		conds = append(conds, fmt.Sprintf(
			"NOT EXISTS (SELECT 1 FROM reservations res WHERE res.room_id = r.id AND res.check_in < $%d::date AND $%d::date < res.check_out)",
			len(args), len(args)-1))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// SyncAvailability は asOf 以降にチェックアウトする予約がある部屋を空きなしにする
func (r *RoomRepository) SyncAvailability(ctx context.Context, asOf time.Time) (int, error) {
	query := `UPDATE rooms r SET available = NOT EXISTS (
			SELECT 1 FROM reservations res WHERE res.room_id = r.id AND res.check_out > $1::date
		), updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, dateParam(asOf)); err != nil {
		return 0, fmt.Errorf("空きフラグ同期に失敗: %w", err)
	}
	var unavailable int
	if err := r.db.GetContext(ctx, &unavailable, `SELECT COUNT(*) FROM rooms WHERE available = FALSE`); err != nil {
		return 0, fmt.Errorf("空きなし部屋数の取得に失敗: %w", err)
	}
	return unavailable, nil
}

func expectAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新件数の取得に失敗: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

var _ room.Repository = (*RoomRepository)(nil)
