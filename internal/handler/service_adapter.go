package handler

import (
	"time"

	"github.com/minwoo/stayman/internal/auth"
	"github.com/minwoo/stayman/internal/importer"
	"github.com/minwoo/stayman/internal/metrics"
	"github.com/minwoo/stayman/internal/notification"
	"github.com/minwoo/stayman/internal/property"
	"github.com/minwoo/stayman/internal/reservation"
	"github.com/minwoo/stayman/internal/subscriber"
)

// SpreadsheetExtractor 는 importer 패키지를 PhoneExtractor에 적합시키는 어댑터.
type SpreadsheetExtractor struct{}

// NewSpreadsheetExtractor 는 SpreadsheetExtractor를 생성한다.
func NewSpreadsheetExtractor() *SpreadsheetExtractor {
	return &SpreadsheetExtractor{}
}

// ExtractPhones 는 업로드 파일에서 정규화된 전화번호 목록을 추출한다.
func (e *SpreadsheetExtractor) ExtractPhones(filename string, data []byte) ([]string, error) {
	return importer.ExtractPhonesFromFile(filename, data)
}

// noopMetrics 는 수집기가 주입되지 않았을 때 사용하는 무동작 구현.
type noopMetrics struct{}

func (noopMetrics) RecordReservationCreated()                  {}
func (noopMetrics) RecordReservationCancelled()                {}
func (noopMetrics) RecordSubscribersImported(count int)        {}
func (noopMetrics) RecordImportFile(result string)             {}
func (noopMetrics) RecordNotificationAttempt(success bool)     {}
func (noopMetrics) RecordHTTPStatus(statusCode int)            {}
func (noopMetrics) RecordImportLatency(duration time.Duration) {}

// --- compile-time interface checks ---

var _ AuthServiceInterface = (*auth.Service)(nil)
var _ PropertyServiceInterface = (*property.Service)(nil)
var _ PropertySelectorInterface = (*property.Selector)(nil)
var _ ReservationServiceInterface = (*reservation.Service)(nil)
var _ SubscriberServiceInterface = (*subscriber.Service)(nil)
var _ NotificationServiceInterface = (*notification.Service)(nil)
var _ PhoneExtractor = (*SpreadsheetExtractor)(nil)
var _ metrics.MetricsCollector = noopMetrics{}
