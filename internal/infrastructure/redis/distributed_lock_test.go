package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockLockManager() (*LockManager, redismock.ClientMock) {
	client, mock := redismock.NewClientMock()
	m := NewLockManager(client)
	m.newToken = func() string { return "token-1" }
	return m, mock
}

func TestLockManager_AcquireLock(t *testing.T) {
	ctx := context.Background()

	t.Run("ロックを取得できる", func(t *testing.T) {
		manager, mock := newMockLockManager()
		mock.ExpectSetNX("lock:room:1", "token-1", 5*time.Second).SetVal(true)

		lock, err := manager.AcquireLock(ctx, RoomLockKey("1"), 5*time.Second)

		require.NoError(t, err)
		require.NotNil(t, lock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("同じキーのロックは取得できない", func(t *testing.T) {
		manager, mock := newMockLockManager()
		mock.ExpectSetNX("lock:room:1", "token-1", 5*time.Second).SetVal(false)

		lock, err := manager.AcquireLock(ctx, RoomLockKey("1"), 5*time.Second)

		assert.ErrorIs(t, err, ErrLockNotAcquired)
		assert.Nil(t, lock)
	})

	t.Run("Redisエラー", func(t *testing.T) {
		manager, mock := newMockLockManager()
		mock.ExpectSetNX("lock:room:1", "token-1", 5*time.Second).SetErr(errors.New("connection refused"))

		_, err := manager.AcquireLock(ctx, RoomLockKey("1"), 5*time.Second)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrLockNotAcquired)
	})
}

func TestLockManager_AcquireLockWithRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("リトライで取得できる", func(t *testing.T) {
		manager, mock := newMockLockManager()
		mock.ExpectSetNX("lock:room:1", "token-1", 5*time.Second).SetVal(false)
		mock.ExpectSetNX("lock:room:1", "token-1", 5*time.Second).SetVal(true)

		lock, err := manager.AcquireLockWithRetry(ctx, RoomLockKey("1"), 5*time.Second, 3, time.Millisecond)

		require.NoError(t, err)
		assert.NotNil(t, lock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("リトライ上限に達すると失敗する", func(t *testing.T) {
		manager, mock := newMockLockManager()
		mock.ExpectSetNX("lock:room:1", "token-1", 5*time.Second).SetVal(false)
		mock.ExpectSetNX("lock:room:1", "token-1", 5*time.Second).SetVal(false)

		_, err := manager.AcquireLockWithRetry(ctx, RoomLockKey("1"), 5*time.Second, 2, time.Millisecond)

		assert.ErrorIs(t, err, ErrLockNotAcquired)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("キャンセルされたコンテキスト", func(t *testing.T) {
		manager, mock := newMockLockManager()
		mock.ExpectSetNX("lock:room:1", "token-1", 5*time.Second).SetVal(false)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := manager.AcquireLockWithRetry(cctx, RoomLockKey("1"), 5*time.Second, 3, time.Second)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDistributedLock_Release(t *testing.T) {
	ctx := context.Background()

	t.Run("所有者は解放できる", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		lock := &DistributedLock{client: client, key: "lock:room:1", value: "token-1"}
		mock.ExpectEval(releaseScript, []string{"lock:room:1"}, "token-1").SetVal(int64(1))

		require.NoError(t, lock.Release(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("期限切れ後は解放できない", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		lock := &DistributedLock{client: client, key: "lock:room:1", value: "token-1"}
		mock.ExpectEval(releaseScript, []string{"lock:room:1"}, "token-1").SetVal(int64(0))

		assert.ErrorIs(t, lock.Release(ctx), ErrLockNotOwned)
	})
}

func TestDistributedLock_Extend(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	lock := &DistributedLock{client: client, key: "lock:room:1", value: "token-1", ttl: time.Second}
	mock.ExpectEval(extendScript, []string{"lock:room:1"}, "token-1", int64(5000)).SetVal(int64(1))

	require.NoError(t, lock.Extend(ctx, 5*time.Second))
	assert.Equal(t, 5*time.Second, lock.ttl)
	assert.NoError(t, mock.ExpectationsWereMet())
}
