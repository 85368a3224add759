package application

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/client"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/money"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/room"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-hotel-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/metrics"
)

// ReservationService は予約の作成・変更・削除を部屋単位で直列化して実行する
type ReservationService struct {
	txManager       transaction.Manager
	reservationRepo reservation.Repository
	roomRepo        room.Repository
	clientRepo      client.Repository
	availability    *AvailabilityService
	locker          roomLocker
	notifier        notifier
	metrics         *metrics.Metrics
}

// NewReservationService は lm, pub, m が nil の場合それぞれの機能を使わずに動作する
func NewReservationService(
	txm transaction.Manager,
	rr reservation.Repository,
	roomRepo room.Repository,
	cr client.Repository,
	availability *AvailabilityService,
	lm redisinfra.LockManagerInterface,
	pub EventPublisher,
	m *metrics.Metrics,
) *ReservationService {
	return &ReservationService{
		txManager:       txm,
		reservationRepo: rr,
		roomRepo:        roomRepo,
		clientRepo:      cr,
		availability:    availability,
		locker:          roomLocker{manager: lm, metrics: m},
		notifier:        notifier{publisher: pub, metrics: m},
		metrics:         m,
	}
}

type CreateReservationInput struct {
	ClientID string
	RoomID   string
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
}

// CreateReservation は部屋の行ロックを取った上で重複・定員・日付を検証し、未確定の予約を作成する
func (s *ReservationService) CreateReservation(ctx context.Context, input CreateReservationInput) (*reservation.Reservation, error) {
	if input.ClientID == "" {
		return nil, reservation.ErrClientIDRequired
	}
	if input.RoomID == "" {
		return nil, reservation.ErrRoomIDRequired
	}

	unlock, err := s.locker.lock(ctx, input.RoomID)
	if err != nil {
		s.metrics.ObserveReservation("lock_failed")
		return nil, err
	}
	defer unlock()

	var res *reservation.Reservation
	err = transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		if _, err := s.clientRepo.GetByID(ctx, input.ClientID); err != nil {
			return err
		}
		rm, err := s.roomRepo.GetByIDForUpdate(ctx, tx, input.RoomID)
		if err != nil {
			return err
		}
		total, err := s.checkStay(ctx, tx, rm, input.CheckIn, input.CheckOut, input.Guests, "")
		if err != nil {
			return err
		}

		res = reservation.NewReservation(input.ClientID, rm.ID, input.CheckIn, input.CheckOut, input.Guests, total)
		if err := s.reservationRepo.Create(ctx, tx, res); err != nil {
			return err
		}
		return s.roomRepo.SetAvailable(ctx, tx, rm.ID, false)
	})
	if err != nil {
		s.metrics.ObserveReservation(reservationResult(err))
		return nil, err
	}

	s.metrics.ObserveReservation("created")
	s.availability.Invalidate(ctx, res.RoomID)
	s.notifier.notify(ctx, reservation.EventCreated, res)
	logger.Info("予約を作成しました",
		zap.String("reservation_id", res.ID),
		zap.String("room_id", res.RoomID),
		zap.String("total_price", res.TotalPrice.String()),
	)
	return res, nil
}

type UpdateReservationInput struct {
	ClientID string
	RoomID   string
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
	// Status が空の場合は現在の状態を維持する
	Status reservation.Status
}

// UpdateReservation は予約を作成時と同じ順序で再検証し、料金を再計算する
// 重複判定から自分自身は除く。部屋を変更した場合は旧部屋を空きに戻し、新部屋を埋める
func (s *ReservationService) UpdateReservation(ctx context.Context, id string, input UpdateReservationInput) (*reservation.Reservation, error) {
	if input.ClientID == "" {
		return nil, reservation.ErrClientIDRequired
	}
	if input.RoomID == "" {
		return nil, reservation.ErrRoomIDRequired
	}
	if input.Status != "" && !input.Status.IsValid() {
		return nil, reservation.ErrInvalidStatus
	}

	unlock, err := s.locker.lock(ctx, input.RoomID)
	if err != nil {
		s.metrics.ObserveReservation("lock_failed")
		return nil, err
	}
	defer unlock()

	var res *reservation.Reservation
	var previousRoomID string
	err = transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		cur, err := s.reservationRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		previousRoomID = cur.RoomID

		if _, err := s.clientRepo.GetByID(ctx, input.ClientID); err != nil {
			return err
		}
		rm, err := s.lockRooms(ctx, tx, input.RoomID, cur.RoomID)
		if err != nil {
			return err
		}
		total, err := s.checkStay(ctx, tx, rm, input.CheckIn, input.CheckOut, input.Guests, cur.ID)
		if err != nil {
			return err
		}

		cur.ClientID = input.ClientID
		cur.RoomID = rm.ID
		cur.CheckIn = reservation.Day(input.CheckIn)
		cur.CheckOut = reservation.Day(input.CheckOut)
		cur.Guests = input.Guests
		cur.TotalPrice = total
		if input.Status != "" {
			cur.Status = input.Status
		}
		cur.UpdatedAt = time.Now()
		if err := s.reservationRepo.Update(ctx, tx, cur); err != nil {
			return err
		}

		if previousRoomID != rm.ID {
			if err := s.roomRepo.SetAvailable(ctx, tx, previousRoomID, true); err != nil {
				return err
			}
			if err := s.roomRepo.SetAvailable(ctx, tx, rm.ID, false); err != nil {
				return err
			}
		}
		res = cur
		return nil
	})
	if err != nil {
		s.metrics.ObserveReservation(reservationResult(err))
		return nil, err
	}

	s.metrics.ObserveReservation("updated")
	s.availability.Invalidate(ctx, uniqueIDs(previousRoomID, res.RoomID)...)
	s.notifier.notify(ctx, reservation.EventUpdated, res)
	logger.Info("予約を更新しました", zap.String("reservation_id", res.ID), zap.String("room_id", res.RoomID))
	return res, nil
}

// DeleteReservation は予約を削除し、部屋の空きフラグを戻す
func (s *ReservationService) DeleteReservation(ctx context.Context, id string) error {
	current, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	unlock, err := s.locker.lock(ctx, current.RoomID)
	if err != nil {
		return err
	}
	defer unlock()

	var deleted *reservation.Reservation
	err = transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		res, err := s.reservationRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := s.roomRepo.GetByIDForUpdate(ctx, tx, res.RoomID); err != nil {
			return err
		}
		if err := s.reservationRepo.Delete(ctx, tx, res.ID); err != nil {
			return err
		}
		if err := s.roomRepo.SetAvailable(ctx, tx, res.RoomID, true); err != nil {
			return err
		}
		deleted = res
		return nil
	})
	if err != nil {
		s.metrics.ObserveReservation(reservationResult(err))
		return err
	}

	s.metrics.ObserveReservation("deleted")
	s.availability.Invalidate(ctx, deleted.RoomID)
	s.notifier.notify(ctx, reservation.EventDeleted, deleted)
	logger.Info("予約を削除しました", zap.String("reservation_id", deleted.ID), zap.String("room_id", deleted.RoomID))
	return nil
}

func (s *ReservationService) GetReservation(ctx context.Context, id string) (*reservation.Reservation, error) {
	return s.reservationRepo.GetByID(ctx, id)
}

func (s *ReservationService) ListReservations(ctx context.Context) ([]*reservation.Reservation, error) {
	return s.reservationRepo.List(ctx)
}

// ListClientReservations は顧客の予約一覧を返す。顧客が存在しない場合は ErrClientNotFound
func (s *ReservationService) ListClientReservations(ctx context.Context, clientID string) ([]*reservation.Reservation, error) {
	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		return nil, err
	}
	return s.reservationRepo.ListByClientID(ctx, clientID)
}

func (s *ReservationService) UnavailableDates(ctx context.Context, roomID string) ([]time.Time, error) {
	return s.availability.UnavailableDates(ctx, roomID)
}

// checkStay は重複・定員・日付の順に検証し、宿泊料金を返す
func (s *ReservationService) checkStay(ctx context.Context, tx transaction.Tx, rm *room.Room, checkIn, checkOut time.Time, guests int, excludeID string) (money.Money, error) {
	existing, err := s.reservationRepo.ListByRoomID(ctx, tx, rm.ID)
	if err != nil {
		return 0, err
	}
	if len(reservation.Conflicting(existing, checkIn, checkOut, excludeID)) > 0 {
		return 0, reservation.ErrRoomAlreadyBooked
	}
	if err := room.ValidateGuests(rm.Type, guests); err != nil {
		return 0, err
	}
	if err := reservation.ValidateStay(checkIn, checkOut); err != nil {
		return 0, err
	}
	return reservation.TotalPrice(rm.Rate, checkIn, checkOut)
}

// lockRooms は対象の部屋（変更前と異なる場合は変更前の部屋も）を ID 順に行ロックし、対象の部屋を返す
func (s *ReservationService) lockRooms(ctx context.Context, tx transaction.Tx, targetID, previousID string) (*room.Room, error) {
	ids := uniqueIDs(targetID, previousID)
	sort.Strings(ids)

	var target *room.Room
	for _, id := range ids {
		rm, err := s.roomRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if id == targetID {
			target = rm
		}
	}
	return target, nil
}

func uniqueIDs(ids ...string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// reservationResult は予約操作のエラーをメトリクスの分類に変換する
func reservationResult(err error) string {
	switch {
	case errors.Is(err, reservation.ErrRoomAlreadyBooked):
		return "conflict"
	case errors.Is(err, client.ErrClientNotFound),
		errors.Is(err, room.ErrRoomNotFound),
		errors.Is(err, reservation.ErrReservationNotFound):
		return "not_found"
	case isValidationError(err):
		return "invalid"
	default:
		return "error"
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		room.ErrNoGuests, room.ErrSingleRoomCapacity, room.ErrDoubleRoomCapacity,
		room.ErrTwinRoomCapacity, room.ErrDeluxeRoomCapacity, room.ErrInvalidRoomType,
		reservation.ErrDatesRequired, reservation.ErrCheckInNotBeforeCheckOut, reservation.ErrInvalidStatus,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
