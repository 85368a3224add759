package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/room"
	redisinfra "github.com/sanosuguru/go-hotel-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/metrics"
)

const calendarCacheTTL = 60 * time.Second

// AvailabilityService は部屋ごとの予約期間の重複判定と予約済み日付の提供を行う
type AvailabilityService struct {
	roomRepo        room.Repository
	reservationRepo reservation.Repository
	cache           redisinfra.CalendarCacheInterface
	metrics         *metrics.Metrics
}

// NewAvailabilityService は cache が nil の場合キャッシュなしで動作する
func NewAvailabilityService(roomRepo room.Repository, rr reservation.Repository, cache redisinfra.CalendarCacheInterface, m *metrics.Metrics) *AvailabilityService {
	return &AvailabilityService{roomRepo: roomRepo, reservationRepo: rr, cache: cache, metrics: m}
}

// IsOverlapping は部屋に指定期間と重なる予約があるかを返す
func (s *AvailabilityService) IsOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	conflicts, err := s.ConflictingReservations(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return false, err
	}
	return len(conflicts) > 0, nil
}

// ConflictingReservations は部屋の予約のうち指定期間と重なるものを返す
func (s *AvailabilityService) ConflictingReservations(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*reservation.Reservation, error) {
	if err := reservation.ValidateStay(checkIn, checkOut); err != nil {
		return nil, err
	}
	if _, err := s.roomRepo.GetByID(ctx, roomID); err != nil {
		return nil, err
	}
	rs, err := s.reservationRepo.ListByRoomID(ctx, nil, roomID)
	if err != nil {
		return nil, err
	}
	return reservation.Conflicting(rs, checkIn, checkOut, ""), nil
}

// UnavailableDates は部屋の予約済み日付を昇順で返す
func (s *AvailabilityService) UnavailableDates(ctx context.Context, roomID string) ([]time.Time, error) {
	if s.cache != nil {
		dates, err := s.cache.Get(ctx, roomID)
		switch {
		case err == nil:
			s.metrics.ObserveCache("hit")
			return dates, nil
		case errors.Is(err, redisinfra.ErrCacheMiss):
			s.metrics.ObserveCache("miss")
		default:
			s.metrics.ObserveCache("error")
			logger.Warn("予約カレンダーキャッシュの取得に失敗", zap.String("room_id", roomID), zap.Error(err))
		}
	}

	if _, err := s.roomRepo.GetByID(ctx, roomID); err != nil {
		return nil, err
	}
	rs, err := s.reservationRepo.ListByRoomID(ctx, nil, roomID)
	if err != nil {
		return nil, err
	}
	dates := reservation.UnavailableDates(rs)

	if s.cache != nil {
		if err := s.cache.Set(ctx, roomID, dates, calendarCacheTTL); err != nil {
			logger.Warn("予約カレンダーキャッシュの保存に失敗", zap.String("room_id", roomID), zap.Error(err))
		}
	}
	return dates, nil
}

// Invalidate は部屋の予約カレンダーキャッシュを破棄する
func (s *AvailabilityService) Invalidate(ctx context.Context, roomIDs ...string) {
	if s == nil || s.cache == nil {
		return
	}
	for _, id := range roomIDs {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			logger.Warn("予約カレンダーキャッシュの無効化に失敗", zap.String("room_id", id), zap.Error(err))
		}
	}
}

// SyncFlags は asOf 時点で今後の予約が残っているかで全部屋の空きフラグを再計算する
func (s *AvailabilityService) SyncFlags(ctx context.Context, asOf time.Time) (int, error) {
	unavailable, err := s.roomRepo.SyncAvailability(ctx, reservation.Day(asOf))
	if err != nil {
		return 0, err
	}
	s.metrics.SetRoomsUnavailable(unavailable)
	return unavailable, nil
}
