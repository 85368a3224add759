package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/client"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/payment"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/transaction"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/metrics"
)

// PaymentService は支払いの登録と、それに伴う予約の確定・確定取り消しを行う
type PaymentService struct {
	txManager       transaction.Manager
	paymentRepo     payment.Repository
	reservationRepo reservation.Repository
	clientRepo      client.Repository
	availability    *AvailabilityService
	notifier        notifier
	now             func() time.Time
}

func NewPaymentService(
	txm transaction.Manager,
	pr payment.Repository,
	rr reservation.Repository,
	cr client.Repository,
	availability *AvailabilityService,
	pub EventPublisher,
	m *metrics.Metrics,
) *PaymentService {
	return &PaymentService{
		txManager:       txm,
		paymentRepo:     pr,
		reservationRepo: rr,
		clientRepo:      cr,
		availability:    availability,
		notifier:        notifier{publisher: pub, metrics: m},
		now:             time.Now,
	}
}

type CreatePaymentInput struct {
	ClientID      string
	ReservationID string
	CardNumber    string
	PaidOn        time.Time
	// Status が空の場合は COMPLETED
	Status payment.Status
}

// CreatePayment は予約の合計金額で支払いを登録し、予約を CONFIRMED にする
func (s *PaymentService) CreatePayment(ctx context.Context, input CreatePaymentInput) (*payment.Payment, error) {
	if input.ClientID == "" {
		return nil, payment.ErrClientIDRequired
	}
	if input.ReservationID == "" {
		return nil, payment.ErrReservationIDRequired
	}
	status := input.Status
	if status == "" {
		status = payment.StatusCompleted
	}

	var p *payment.Payment
	var confirmed *reservation.Reservation
	err := transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		if _, err := s.clientRepo.GetByID(ctx, input.ClientID); err != nil {
			return err
		}
		res, err := s.reservationRepo.GetByIDForUpdate(ctx, tx, input.ReservationID)
		if err != nil {
			return err
		}

		p, err = payment.NewPayment(input.ClientID, res.ID, input.CardNumber, input.PaidOn, res.TotalPrice, status)
		if err != nil {
			return err
		}
		if err := p.Validate(s.now()); err != nil {
			return err
		}
		if err := s.paymentRepo.Create(ctx, tx, p); err != nil {
			return err
		}

		res.Confirm()
		if err := s.reservationRepo.UpdateStatus(ctx, tx, res.ID, res.Status); err != nil {
			return err
		}
		confirmed = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.availability.Invalidate(ctx, confirmed.RoomID)
	s.notifier.notify(ctx, reservation.EventConfirmed, confirmed)
	logger.Info("支払いを登録しました",
		zap.String("payment_id", p.ID),
		zap.String("reservation_id", confirmed.ID),
		zap.String("amount", p.Amount.String()),
	)
	return p, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id string) (*payment.Payment, error) {
	return s.paymentRepo.GetByID(ctx, id)
}

func (s *PaymentService) ListPayments(ctx context.Context) ([]*payment.Payment, error) {
	return s.paymentRepo.List(ctx)
}

// UpdatePaymentInput は nil の項目を変更しない
type UpdatePaymentInput struct {
	CardNumber *string
	PaidOn     *time.Time
	Status     *payment.Status
}

func (s *PaymentService) UpdatePayment(ctx context.Context, id string, input UpdatePaymentInput) (*payment.Payment, error) {
	p, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.CardNumber != nil {
		masked, err := payment.MaskCardNumber(*input.CardNumber)
		if err != nil {
			return nil, err
		}
		p.CardNumber = masked
	}
	if input.PaidOn != nil {
		if input.PaidOn.IsZero() {
			return nil, payment.ErrPaymentDateRequired
		}
		if input.PaidOn.After(s.now()) {
			return nil, payment.ErrFuturePaymentDate
		}
		p.PaidOn = *input.PaidOn
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, payment.ErrInvalidStatus
		}
		p.Status = *input.Status
	}
	p.UpdatedAt = s.now()
	if err := s.paymentRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePayment は支払いを削除し、紐づく予約が残っていれば UNCONFIRMED に戻す
func (s *PaymentService) DeletePayment(ctx context.Context, id string) error {
	var unconfirmed *reservation.Reservation
	err := transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		p, err := s.paymentRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.ReservationID != "" {
			res, err := s.reservationRepo.GetByIDForUpdate(ctx, tx, p.ReservationID)
			if err != nil {
				return err
			}
			res.Unconfirm()
			if err := s.reservationRepo.UpdateStatus(ctx, tx, res.ID, res.Status); err != nil {
				return err
			}
			unconfirmed = res
		}
		return s.paymentRepo.Delete(ctx, tx, p.ID)
	})
	if err != nil {
		return err
	}

	if unconfirmed != nil {
		s.availability.Invalidate(ctx, unconfirmed.RoomID)
		s.notifier.notify(ctx, reservation.EventUnconfirmed, unconfirmed)
	}
	logger.Info("支払いを削除しました", zap.String("payment_id", id))
	return nil
}
