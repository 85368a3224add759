package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/amenity"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/money"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/room"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/transaction"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/logger"
)

const maxRoomNumber = 9999

type RoomService struct {
	txManager       transaction.Manager
	roomRepo        room.Repository
	amenityRepo     amenity.Repository
	reservationRepo reservation.Repository
	availability    *AvailabilityService
	defaultPageSize int
}

func NewRoomService(txm transaction.Manager, roomRepo room.Repository, ar amenity.Repository, rr reservation.Repository, availability *AvailabilityService, defaultPageSize int) *RoomService {
	return &RoomService{
		txManager:       txm,
		roomRepo:        roomRepo,
		amenityRepo:     ar,
		reservationRepo: rr,
		availability:    availability,
		defaultPageSize: defaultPageSize,
	}
}

type CreateRoomInput struct {
	Number      string
	Rate        money.Money
	Type        room.Type
	Description string
}

func (s *RoomService) CreateRoom(ctx context.Context, input CreateRoomInput) (*room.Room, error) {
	rm := room.NewRoom(input.Number, input.Rate, input.Type, input.Description)
	if err := rm.Validate(); err != nil {
		return nil, err
	}
	if err := s.roomRepo.Create(ctx, rm); err != nil {
		return nil, err
	}
	logger.Info("部屋を作成しました", zap.String("room_id", rm.ID), zap.String("number", rm.Number))
	return rm, nil
}

type CreateRoomsInput struct {
	StartNumber int
	Count       int
	Rate        money.Money
	Type        room.Type
	Description string
}

// CreateRooms は StartNumber から連番で Count 件の部屋を作成する
// 既に存在する部屋番号はスキップし、実際に作成した部屋のみを返す
func (s *RoomService) CreateRooms(ctx context.Context, input CreateRoomsInput) ([]*room.Room, error) {
	if input.Count < 1 {
		return nil, room.ErrInvalidRoomCount
	}
	if input.StartNumber < 0 || input.StartNumber+input.Count-1 > maxRoomNumber {
		return nil, room.ErrInvalidRoomNumber
	}

	rooms := make([]*room.Room, 0, input.Count)
	for n := input.StartNumber; n < input.StartNumber+input.Count; n++ {
		rm := room.NewRoom(fmt.Sprintf("%d", n), input.Rate, input.Type, input.Description)
		if err := rm.Validate(); err != nil {
			return nil, err
		}
		rooms = append(rooms, rm)
	}

	created, err := s.roomRepo.CreateBulk(ctx, rooms)
	if err != nil {
		return nil, err
	}
	logger.Info("部屋を一括作成しました",
		zap.Int("requested", input.Count),
		zap.Int("created", len(created)),
	)
	return created, nil
}

func (s *RoomService) GetRoom(ctx context.Context, id string) (*room.Room, error) {
	return s.roomRepo.GetByID(ctx, id)
}

func (s *RoomService) ListRooms(ctx context.Context) ([]*room.Room, error) {
	return s.roomRepo.List(ctx)
}

type UpdateRoomInput struct {
	Number      string
	Rate        money.Money
	Type        room.Type
	Available   *bool
	Description string
}

// UpdateRoom は部屋の属性を置き換える。Rate は割り当て済みアメニティの追加料金込みの値として扱う
// 予約や料金の反映と同じく部屋の行ロックを取ってから書き込む
func (s *RoomService) UpdateRoom(ctx context.Context, id string, input UpdateRoomInput) (*room.Room, error) {
	var updated *room.Room
	err := transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		rm, err := s.roomRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		rm.Number = input.Number
		rm.Rate = input.Rate
		rm.Type = input.Type
		rm.Description = input.Description
		if input.Available != nil {
			rm.Available = *input.Available
		}
		rm.UpdatedAt = time.Now()
		if err := rm.Validate(); err != nil {
			return err
		}
		if err := s.roomRepo.Update(ctx, tx, rm); err != nil {
			return err
		}
		updated = rm
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteRoom は予約が1件もない部屋のみ削除する
func (s *RoomService) DeleteRoom(ctx context.Context, id string) error {
	if _, err := s.roomRepo.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.reservationRepo.CountByRoomID(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return room.HasReservations(id)
	}
	if err := s.roomRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.availability.Invalidate(ctx, id)
	logger.Info("部屋を削除しました", zap.String("room_id", id))
	return nil
}

// DeleteAllRooms は予約のない部屋を全て削除し、削除件数を返す
func (s *RoomService) DeleteAllRooms(ctx context.Context) (int, error) {
	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, rm := range rooms {
		n, err := s.reservationRepo.CountByRoomID(ctx, rm.ID)
		if err != nil {
			return deleted, err
		}
		if n > 0 {
			continue
		}
		if err := s.roomRepo.Delete(ctx, rm.ID); err != nil {
			return deleted, err
		}
		s.availability.Invalidate(ctx, rm.ID)
		deleted++
	}
	logger.Info("部屋を一括削除しました", zap.Int("deleted", deleted), zap.Int("skipped", len(rooms)-deleted))
	return deleted, nil
}

// SearchRooms は条件に一致する部屋をページ単位で返す
// 期間を指定する場合はチェックイン・チェックアウトの両方が必要
func (s *RoomService) SearchRooms(ctx context.Context, criteria room.SearchCriteria) (*room.Page, error) {
	if criteria.Type != nil && !criteria.Type.IsValid() {
		return nil, room.ErrInvalidRoomType
	}
	if criteria.HasStay() {
		var in, out time.Time
		if criteria.CheckIn != nil {
			in = *criteria.CheckIn
		}
		if criteria.CheckOut != nil {
			out = *criteria.CheckOut
		}
		if err := reservation.ValidateStay(in, out); err != nil {
			return nil, err
		}
		in, out = reservation.Day(in), reservation.Day(out)
		criteria.CheckIn, criteria.CheckOut = &in, &out
	}
	criteria.Normalize(s.defaultPageSize)
	return s.roomRepo.Search(ctx, criteria)
}

// ListRoomAmenities は部屋に割り当てられたアメニティを返す
func (s *RoomService) ListRoomAmenities(ctx context.Context, roomID string) ([]*amenity.Amenity, error) {
	if _, err := s.roomRepo.GetByID(ctx, roomID); err != nil {
		return nil, err
	}
	return s.amenityRepo.ListByRoomID(ctx, roomID)
}
