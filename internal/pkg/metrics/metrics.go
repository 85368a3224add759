package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
// nil の *Metrics に対する記録メソッドは何もしない
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 予約操作の総数（result: created, updated, deleted, conflict, invalid, error）
	ReservationsTotal *prometheus.CounterVec

	// 1泊料金の差分適用回数（reason: assign, unassign, amenity_update, amenity_delete）
	RoomRateAdjustmentsTotal *prometheus.CounterVec

	// 分散ロックの操作時間（operation: acquire/release, status: success/failed）
	DistributedLockDuration *prometheus.HistogramVec

	// 空きフラグが false の部屋数
	RoomsUnavailable prometheus.Gauge

	// 予約カレンダーキャッシュの参照結果（result: hit, miss, error）
	CalendarCacheRequests *prometheus.CounterVec

	// 予約イベントの送信結果（type, status: success/failed）
	EventsPublishedTotal *prometheus.CounterVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ReservationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservations_total",
				Help: "Total number of reservation operations by result",
			},
			[]string{"result"},
		),
		RoomRateAdjustmentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "room_rate_adjustments_total",
				Help: "Total number of nightly rate delta applications by reason",
			},
			[]string{"reason"},
		),
		DistributedLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "distributed_lock_duration_seconds",
				Help:    "Time spent on distributed lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		RoomsUnavailable: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "rooms_unavailable",
				Help: "Number of rooms whose availability flag is false",
			},
		),
		CalendarCacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calendar_cache_requests_total",
				Help: "Unavailable-dates cache lookups by result",
			},
			[]string{"result"},
		),
		EventsPublishedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservation_events_published_total",
				Help: "Reservation lifecycle events sent to the broker",
			},
			[]string{"type", "status"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ReservationsTotal,
		m.RoomRateAdjustmentsTotal,
		m.DistributedLockDuration,
		m.RoomsUnavailable,
		m.CalendarCacheRequests,
		m.EventsPublishedTotal,
	)

	return m
}

func (m *Metrics) ObserveReservation(result string) {
	if m == nil {
		return
	}
	m.ReservationsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRateAdjustment(reason string, rooms int) {
	if m == nil || rooms <= 0 {
		return
	}
	m.RoomRateAdjustmentsTotal.WithLabelValues(reason).Add(float64(rooms))
}

func (m *Metrics) ObserveLock(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failed"
	}
	m.DistributedLockDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
}

func (m *Metrics) SetRoomsUnavailable(n int) {
	if m == nil {
		return
	}
	m.RoomsUnavailable.Set(float64(n))
}

func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CalendarCacheRequests.WithLabelValues(result).Inc()
}

func (m *Metrics) ObservePublish(eventType string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failed"
	}
	m.EventsPublishedTotal.WithLabelValues(eventType, status).Inc()
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
