package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/amenity"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/money"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/room"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/transaction"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/metrics"
)

// AmenityService はアメニティの管理と、部屋の1泊料金への追加料金の反映を行う
// 料金は常に差分で更新し、部屋とアメニティの書き込みは1トランザクションで行う
// ロック順序はアメニティ → 部屋（ID順）で統一する
type AmenityService struct {
	txManager   transaction.Manager
	amenityRepo amenity.Repository
	roomRepo    room.Repository
	metrics     *metrics.Metrics
}

func NewAmenityService(txm transaction.Manager, ar amenity.Repository, roomRepo room.Repository, m *metrics.Metrics) *AmenityService {
	return &AmenityService{txManager: txm, amenityRepo: ar, roomRepo: roomRepo, metrics: m}
}

type AmenityInput struct {
	Name        string
	Description string
	Surcharge   money.Money
}

func (s *AmenityService) CreateAmenity(ctx context.Context, input AmenityInput) (*amenity.Amenity, error) {
	a := amenity.NewAmenity(input.Name, input.Description, input.Surcharge)
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := s.amenityRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AmenityService) GetAmenity(ctx context.Context, id string) (*amenity.Amenity, error) {
	return s.amenityRepo.GetByID(ctx, id)
}

func (s *AmenityService) ListAmenities(ctx context.Context) ([]*amenity.Amenity, error) {
	return s.amenityRepo.List(ctx)
}

// UpdateAmenity はアメニティを更新し、割り当て済みの全部屋に 新料金 − 旧料金 を反映する
// いずれかの部屋の更新に失敗した場合は全てロールバックされる
func (s *AmenityService) UpdateAmenity(ctx context.Context, id string, input AmenityInput) (*amenity.Amenity, error) {
	var updated *amenity.Amenity
	var adjusted int
	err := transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		a, err := s.amenityRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		candidate := amenity.NewAmenity(input.Name, input.Description, input.Surcharge)
		if err := candidate.Validate(); err != nil {
			return err
		}
		a.Name = candidate.Name
		a.Description = candidate.Description
		delta := a.Reprice(input.Surcharge)

		if delta != 0 {
			rooms, err := s.roomRepo.ListByAmenityForUpdate(ctx, tx, a.ID)
			if err != nil {
				return err
			}
			for _, rm := range rooms {
				if err := s.applyRate(ctx, tx, rm, delta); err != nil {
					return err
				}
			}
			adjusted = len(rooms)
		}
		if err := s.amenityRepo.Update(ctx, tx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveRateAdjustment("amenity_update", adjusted)
	logger.Info("アメニティを更新しました",
		zap.String("amenity_id", updated.ID),
		zap.String("surcharge", updated.Surcharge.String()),
		zap.Int("rooms_adjusted", adjusted),
	)
	return updated, nil
}

// DeleteAmenity は全部屋から割り当てを外して追加料金を差し引き、アメニティを削除する
func (s *AmenityService) DeleteAmenity(ctx context.Context, id string) error {
	var adjusted int
	err := transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		a, err := s.amenityRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		rooms, err := s.roomRepo.ListByAmenityForUpdate(ctx, tx, a.ID)
		if err != nil {
			return err
		}
		for _, rm := range rooms {
			if err := rm.RemoveAmenity(a.ID, a.Surcharge); err != nil {
				return err
			}
			if err := s.saveRate(ctx, tx, rm); err != nil {
				return err
			}
		}
		adjusted = len(rooms)
		return s.amenityRepo.Delete(ctx, tx, a.ID)
	})
	if err != nil {
		return err
	}

	s.metrics.ObserveRateAdjustment("amenity_delete", adjusted)
	logger.Info("アメニティを削除しました", zap.String("amenity_id", id), zap.Int("rooms_adjusted", adjusted))
	return nil
}

// AssignAmenity は部屋にアメニティを割り当て、1泊料金に追加料金を加算する
func (s *AmenityService) AssignAmenity(ctx context.Context, roomID, amenityID string) (*room.Room, error) {
	var result *room.Room
	err := transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		a, err := s.amenityRepo.GetByIDForUpdate(ctx, tx, amenityID)
		if err != nil {
			return err
		}
		rm, err := s.roomRepo.GetByIDForUpdate(ctx, tx, roomID)
		if err != nil {
			return err
		}
		if err := rm.AddAmenity(a.ID, a.Surcharge); err != nil {
			return err
		}
		if err := s.amenityRepo.Assign(ctx, tx, rm.ID, a.ID); err != nil {
			return err
		}
		if err := s.roomRepo.UpdateRate(ctx, tx, rm.ID, rm.Rate); err != nil {
			return err
		}
		result = rm
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveRateAdjustment("assign", 1)
	return result, nil
}

// UnassignAmenity は部屋からアメニティの割り当てを外し、1泊料金から追加料金を差し引く
func (s *AmenityService) UnassignAmenity(ctx context.Context, roomID, amenityID string) (*room.Room, error) {
	var result *room.Room
	err := transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		a, err := s.amenityRepo.GetByIDForUpdate(ctx, tx, amenityID)
		if err != nil {
			return err
		}
		rm, err := s.roomRepo.GetByIDForUpdate(ctx, tx, roomID)
		if err != nil {
			return err
		}
		if err := rm.RemoveAmenity(a.ID, a.Surcharge); err != nil {
			return err
		}
		if !rm.Rate.IsPositive() {
			return room.ErrInvalidRate
		}
		if err := s.amenityRepo.Unassign(ctx, tx, rm.ID, a.ID); err != nil {
			return err
		}
		if err := s.roomRepo.UpdateRate(ctx, tx, rm.ID, rm.Rate); err != nil {
			return err
		}
		result = rm
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveRateAdjustment("unassign", 1)
	return result, nil
}

// applyRate は差分を適用する。結果の1泊料金が0以下になる場合は ErrInvalidRate
func (s *AmenityService) applyRate(ctx context.Context, tx transaction.Tx, rm *room.Room, delta money.Money) error {
	rm.AdjustRate(delta)
	return s.saveRate(ctx, tx, rm)
}

func (s *AmenityService) saveRate(ctx context.Context, tx transaction.Tx, rm *room.Room) error {
	if !rm.Rate.IsPositive() {
		return room.ErrInvalidRate
	}
	return s.roomRepo.UpdateRate(ctx, tx, rm.ID, rm.Rate)
}
