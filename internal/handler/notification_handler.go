package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/minwoo/stayman/internal/metrics"
	"github.com/minwoo/stayman/internal/middleware"
	"github.com/minwoo/stayman/internal/model"
	"github.com/minwoo/stayman/internal/notification"
)

// NotificationServiceInterface 는 알림 핸들러가 필요로 하는 서비스 인터페이스.
type NotificationServiceInterface interface {
	GetSettings(ctx context.Context, userID string, propertyID *string) (*model.NotificationSetting, error)
	UpdateSettings(ctx context.Context, userID string, propertyID *string, patch model.NotificationSettingPatch) (*model.NotificationSetting, error)
	ListLogs(ctx context.Context, userID string, limit int) ([]*model.NotificationLog, error)
	BroadcastFlashSale(ctx context.Context, userID, propertyID, message string) (*notification.BroadcastResult, error)
}

// NotificationHandler 는 알림 설정·이력의 HTTP 핸들러.
type NotificationHandler struct {
	service   NotificationServiceInterface
	collector metrics.MetricsCollector
}

// NewNotificationHandler 는 NotificationHandler를 생성한다.
func NewNotificationHandler(service NotificationServiceInterface, collector metrics.MetricsCollector) *NotificationHandler {
	if collector == nil {
		collector = noopMetrics{}
	}
	return &NotificationHandler{
		service:   service,
		collector: collector,
	}
}

// notificationSettingRequest 는 알림 설정 수정 요청의 보디.
type notificationSettingRequest struct {
	CheckinEnabled        *bool    `json:"checkin_enabled"`
	CheckoutEnabled       *bool    `json:"checkout_enabled"`
	ReviewRequestEnabled  *bool    `json:"review_request_enabled"`
	FlashSaleEnabled      *bool    `json:"flash_sale_enabled"`
	CheckinChannels       []string `json:"checkin_channels"`
	CheckoutChannels      []string `json:"checkout_channels"`
	ReviewRequestChannels []string `json:"review_request_channels"`
	FlashSaleChannels     []string `json:"flash_sale_channels"`
}

// notificationSettingResponse 는 알림 설정의 API 응답.
type notificationSettingResponse struct {
	ID                    string   `json:"id"`
	PropertyID            *string  `json:"property_id"`
	CheckinEnabled        bool     `json:"checkin_enabled"`
	CheckoutEnabled       bool     `json:"checkout_enabled"`
	ReviewRequestEnabled  bool     `json:"review_request_enabled"`
	FlashSaleEnabled      bool     `json:"flash_sale_enabled"`
	CheckinChannels       []string `json:"checkin_channels"`
	CheckoutChannels      []string `json:"checkout_channels"`
	ReviewRequestChannels []string `json:"review_request_channels"`
	FlashSaleChannels     []string `json:"flash_sale_channels"`
}

// notificationLogResponse 는 알림 이력의 API 응답.
type notificationLogResponse struct {
	ID            string     `json:"id"`
	PropertyID    *string    `json:"property_id"`
	ReservationID *string    `json:"reservation_id"`
	Type          string     `json:"type"`
	Channel       string     `json:"channel"`
	Recipient     string     `json:"recipient"`
	Status        string     `json:"status"`
	SentAt        *time.Time `json:"sent_at"`
	ErrorMessage  *string    `json:"error_message"`
	CreatedAt     time.Time  `json:"created_at"`
}

// flashSaleRequest 는 파격 할인 일괄 알림 요청의 보디.
type flashSaleRequest struct {
	PropertyID string `json:"property_id"`
	Message    string `json:"message"`
}

// flashSaleResponse 는 일괄 알림 결과의 API 응답.
type flashSaleResponse struct {
	Attempted int `json:"attempted"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}

// GetSettings 는 알림 설정을 반환한다. 저장된 설정이 없으면 기본값을 반환한다.
// GET /api/notifications/settings?property_id=xxx
func (h *NotificationHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	var propertyID *string
	if v := r.URL.Query().Get("property_id"); v != "" {
		propertyID = &v
	}

	setting, err := h.service.GetSettings(r.Context(), userID, propertyID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toNotificationSettingResponse(setting))
}

// UpdateSettings 는 알림 설정을 수정한다.
// PUT /api/notifications/settings?property_id=xxx
func (h *NotificationHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	var propertyID *string
	if v := r.URL.Query().Get("property_id"); v != "" {
		propertyID = &v
	}

	var req notificationSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestError(w)
		return
	}

	setting, err := h.service.UpdateSettings(r.Context(), userID, propertyID, model.NotificationSettingPatch{
		CheckinEnabled:        req.CheckinEnabled,
		CheckoutEnabled:       req.CheckoutEnabled,
		ReviewRequestEnabled:  req.ReviewRequestEnabled,
		FlashSaleEnabled:      req.FlashSaleEnabled,
		CheckinChannels:       toChannels(req.CheckinChannels),
		CheckoutChannels:      toChannels(req.CheckoutChannels),
		ReviewRequestChannels: toChannels(req.ReviewRequestChannels),
		FlashSaleChannels:     toChannels(req.FlashSaleChannels),
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toNotificationSettingResponse(setting))
}

// ListLogs 는 알림 발송 이력을 최신순으로 반환한다.
// GET /api/notifications/logs?limit=50
func (h *NotificationHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	logs, err := h.service.ListLogs(r.Context(), userID, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]notificationLogResponse, len(logs))
	for i, log := range logs {
		results[i] = toNotificationLogResponse(log)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// BroadcastFlashSale 은 숙소의 활성 구독자 전원에게 파격 할인 알림을 시도한다.
// 발송 자체는 스텁이므로 모든 시도가 실패 이력으로 남는다.
// POST /api/notifications/flash-sale
func (h *NotificationHandler) BroadcastFlashSale(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	var req flashSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestError(w)
		return
	}

	result, err := h.service.BroadcastFlashSale(r.Context(), userID, req.PropertyID, req.Message)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	for i := 0; i < result.Sent; i++ {
		h.collector.RecordNotificationAttempt(true)
	}
	for i := 0; i < result.Failed; i++ {
		h.collector.RecordNotificationAttempt(false)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(flashSaleResponse{
		Attempted: result.Attempted,
		Sent:      result.Sent,
		Failed:    result.Failed,
	})
}

// --- 헬퍼 함수 ---

func toNotificationSettingResponse(setting *model.NotificationSetting) notificationSettingResponse {
	return notificationSettingResponse{
		ID:                    setting.ID,
		PropertyID:            setting.PropertyID,
		CheckinEnabled:        setting.CheckinEnabled,
		CheckoutEnabled:       setting.CheckoutEnabled,
		ReviewRequestEnabled:  setting.ReviewRequestEnabled,
		FlashSaleEnabled:      setting.FlashSaleEnabled,
		CheckinChannels:       fromChannels(setting.CheckinChannels),
		CheckoutChannels:      fromChannels(setting.CheckoutChannels),
		ReviewRequestChannels: fromChannels(setting.ReviewRequestChannels),
		FlashSaleChannels:     fromChannels(setting.FlashSaleChannels),
	}
}

func toNotificationLogResponse(log *model.NotificationLog) notificationLogResponse {
	return notificationLogResponse{
		ID:            log.ID,
		PropertyID:    log.PropertyID,
		ReservationID: log.ReservationID,
		Type:          string(log.Type),
		Channel:       string(log.Channel),
		Recipient:     log.Recipient,
		Status:        string(log.Status),
		SentAt:        log.SentAt,
		ErrorMessage:  log.ErrorMessage,
		CreatedAt:     log.CreatedAt,
	}
}

// toChannels 는 문자열 슬라이스를 채널 슬라이스로 변환한다. nil은 nil을 유지한다.
func toChannels(values []string) []model.NotificationChannel {
	if values == nil {
		return nil
	}
	channels := make([]model.NotificationChannel, len(values))
	for i, v := range values {
		channels[i] = model.NotificationChannel(v)
	}
	return channels
}

func fromChannels(channels []model.NotificationChannel) []string {
	values := make([]string, len(channels))
	for i, c := range channels {
		values[i] = string(c)
	}
	return values
}
