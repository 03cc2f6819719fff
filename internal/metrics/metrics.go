// Package metrics 는 Prometheus 메트릭 수집과 공개를 제공한다.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector 는 메트릭 수집 인터페이스.
// 서비스 계층과 워커에서 사용한다.
type MetricsCollector interface {
	RecordReservationCreated()
	RecordReservationCancelled()
	RecordSubscribersImported(count int)
	RecordImportFile(result string)
	RecordNotificationAttempt(success bool)
	RecordHTTPStatus(statusCode int)
	RecordImportLatency(duration time.Duration)
}

// Collector 는 Prometheus 메트릭을 수집하는 구현.
type Collector struct {
	reservationCreated   prometheus.Counter
	reservationCancelled prometheus.Counter
	subscribersImported  prometheus.Counter
	importFiles          *prometheus.CounterVec
	notificationAttempts *prometheus.CounterVec
	httpStatus           *prometheus.CounterVec
	importLatency        prometheus.Histogram
}

// NewCollector 는 Collector를 생성하고 지정한 레지스트리에 메트릭을 등록한다.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		reservationCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stayman_reservation_created_total",
			Help: "생성된 예약의 합계",
		}),
		reservationCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stayman_reservation_cancelled_total",
			Help: "취소된 예약의 합계",
		}),
		subscribersImported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stayman_subscribers_imported_total",
			Help: "스프레드시트 가져오기로 등록된 구독자의 합계",
		}),
		importFiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stayman_import_files_total",
			Help: "처리한 가져오기 파일 수 (결과별)",
		}, []string{"result"}),
		notificationAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stayman_notification_attempts_total",
			Help: "알림 전송 시도 수 (결과별)",
		}, []string{"result"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stayman_http_status_total",
			Help: "HTTP 상태 코드별 응답 수",
		}, []string{"status_code"}),
		importLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stayman_import_latency_seconds",
			Help:    "스프레드시트 가져오기의 처리 시간 (초)",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.reservationCreated,
		c.reservationCancelled,
		c.subscribersImported,
		c.importFiles,
		c.notificationAttempts,
		c.httpStatus,
		c.importLatency,
	)

	return c
}

// RecordReservationCreated 는 예약 생성을 기록한다.
func (c *Collector) RecordReservationCreated() {
	c.reservationCreated.Inc()
}

// RecordReservationCancelled 는 예약 취소를 기록한다.
func (c *Collector) RecordReservationCancelled() {
	c.reservationCancelled.Inc()
}

// RecordSubscribersImported 는 가져오기로 등록된 구독자 수를 기록한다.
func (c *Collector) RecordSubscribersImported(count int) {
	c.subscribersImported.Add(float64(count))
}

// RecordImportFile 은 가져오기 파일의 처리 결과를 기록한다.
// result는 "success", "unsupported", "no_phones", "error" 중 하나.
func (c *Collector) RecordImportFile(result string) {
	c.importFiles.WithLabelValues(result).Inc()
}

// RecordNotificationAttempt 는 알림 전송 시도를 기록한다.
func (c *Collector) RecordNotificationAttempt(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.notificationAttempts.WithLabelValues(result).Inc()
}

// RecordHTTPStatus 는 HTTP 상태 코드를 기록한다.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordImportLatency 는 가져오기 처리 시간을 기록한다.
func (c *Collector) RecordImportLatency(duration time.Duration) {
	c.importLatency.Observe(duration.Seconds())
}

// Handler 는 Prometheus 스크레이프용 HTTP 핸들러를 반환한다.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
