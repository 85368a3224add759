package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/metrics"
)

// EventPublisher は予約ライフサイクルイベントの送信先
type EventPublisher interface {
	Publish(ctx context.Context, ev reservation.Event) error
}

// notifier はコミット後にイベントを送信する。送信失敗は記録のみで呼び出し元には返さない
type notifier struct {
	publisher EventPublisher
	metrics   *metrics.Metrics
}

func (n notifier) notify(ctx context.Context, t reservation.EventType, r *reservation.Reservation) {
	if n.publisher == nil || r == nil {
		return
	}
	err := n.publisher.Publish(ctx, reservation.NewEvent(t, r))
	n.metrics.ObservePublish(string(t), err)
	if err != nil {
		logger.Warn("予約イベントの送信に失敗",
			zap.String("type", string(t)),
			zap.String("reservation_id", r.ID),
			zap.Error(err),
		)
	}
}
