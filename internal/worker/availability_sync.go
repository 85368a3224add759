package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/logger"
)

// AvailabilitySyncer は部屋の空きフラグを再計算するインターフェース
type AvailabilitySyncer interface {
	SyncFlags(ctx context.Context, asOf time.Time) (int, error)
}

// AvailabilitySyncWorker は一定間隔で空きフラグを予約状況に合わせるワーカー
// チェックアウト日を過ぎた予約だけが残る部屋は、このワーカーで空きに戻る
type AvailabilitySyncWorker struct {
	syncer   AvailabilitySyncer
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewAvailabilitySyncWorker は新しいワーカーを作成
func NewAvailabilitySyncWorker(s AvailabilitySyncer, interval time.Duration) *AvailabilitySyncWorker {
	return &AvailabilitySyncWorker{
		syncer:   s,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start は起動直後に1回同期し、以降 interval ごとに同期する
func (w *AvailabilitySyncWorker) Start(ctx context.Context) {
	logger.Info("空きフラグ同期ワーカー開始", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneCh)

	w.sync(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info("空きフラグ同期ワーカー停止（コンテキストキャンセル）")
			return
		case <-w.stopCh:
			logger.Info("空きフラグ同期ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			w.sync(ctx)
		}
	}
}

// Stop はワーカーを停止し、実行中の同期の完了を待つ
func (w *AvailabilitySyncWorker) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

func (w *AvailabilitySyncWorker) sync(ctx context.Context) {
	unavailable, err := w.syncer.SyncFlags(ctx, w.now())
	if err != nil {
		logger.Error("空きフラグの同期失敗", zap.Error(err))
		return
	}
	logger.Debug("空きフラグを同期", zap.Int("rooms_unavailable", unavailable))
}
