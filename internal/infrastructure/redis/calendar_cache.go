package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("キャッシュが見つかりません")

const calendarDateLayout = "2006-01-02"

// CalendarCacheInterface は部屋の予約済み日付キャッシュの抽象
type CalendarCacheInterface interface {
	Get(ctx context.Context, roomID string) ([]time.Time, error)
	Set(ctx context.Context, roomID string, dates []time.Time, ttl time.Duration) error
	Invalidate(ctx context.Context, roomID string) error
}

// CalendarCache は部屋ごとの予約済み日付一覧を JSON で保持する
type CalendarCache struct {
	client redis.Cmdable
}

func NewCalendarCache(client redis.Cmdable) *CalendarCache {
	return &CalendarCache{client: client}
}

// Get は予約済み日付をキャッシュから取得する
func (c *CalendarCache) Get(ctx context.Context, roomID string) ([]time.Time, error) {
	raw, err := c.client.Get(ctx, calendarKey(roomID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}

	var days []string
	if err := json.Unmarshal([]byte(raw), &days); err != nil {
		return nil, fmt.Errorf("キャッシュの復元に失敗: %w", err)
	}
	dates := make([]time.Time, 0, len(days))
	for _, d := range days {
		t, err := time.Parse(calendarDateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("キャッシュの復元に失敗: %w", err)
		}
		dates = append(dates, t)
	}
	return dates, nil
}

// Set は予約済み日付をキャッシュに保存する
func (c *CalendarCache) Set(ctx context.Context, roomID string, dates []time.Time, ttl time.Duration) error {
	payload, err := encodeDates(dates)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, calendarKey(roomID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は部屋のキャッシュを無効化する
func (c *CalendarCache) Invalidate(ctx context.Context, roomID string) error {
	if err := c.client.Del(ctx, calendarKey(roomID)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func encodeDates(dates []time.Time) (string, error) {
	days := make([]string, len(dates))
	for i, d := range dates {
		days[i] = d.UTC().Format(calendarDateLayout)
	}
	b, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("キャッシュの変換に失敗: %w", err)
	}
	return string(b), nil
}

func calendarKey(roomID string) string {
	return fmt.Sprintf("calendar:room:%s", roomID)
}

var _ CalendarCacheInterface = (*CalendarCache)(nil)
