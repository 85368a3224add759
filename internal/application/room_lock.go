package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	redisinfra "github.com/sanosuguru/go-hotel-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/metrics"
)

const (
	roomLockTTL        = 10 * time.Second
	roomLockRetries    = 3
	roomLockRetryDelay = 100 * time.Millisecond
)

// roomLocker は部屋単位の分散ロックを取得する
// 正しさは行ロックと排他制約で担保されるため、Redis 障害時はロックなしで続行する
type roomLocker struct {
	manager redisinfra.LockManagerInterface
	metrics *metrics.Metrics
}

func (l roomLocker) lock(ctx context.Context, roomID string) (func(), error) {
	if l.manager == nil {
		return func() {}, nil
	}

	start := time.Now()
	lock, err := l.manager.AcquireLockWithRetry(ctx, redisinfra.RoomLockKey(roomID), roomLockTTL, roomLockRetries, roomLockRetryDelay)
	l.metrics.ObserveLock("acquire", start, err)
	if err != nil {
		if errors.Is(err, redisinfra.ErrLockNotAcquired) {
			return nil, ErrRoomLocked
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("ロック取得に失敗したためロックなしで続行", zap.String("room_id", roomID), zap.Error(err))
		return func() {}, nil
	}

	return func() {
		start := time.Now()
		err := lock.Release(context.WithoutCancel(ctx))
		l.metrics.ObserveLock("release", start, err)
		if err != nil {
			logger.Warn("ロック解放に失敗", zap.String("room_id", roomID), zap.Error(err))
		}
	}, nil
}
