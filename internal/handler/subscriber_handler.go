package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/minwoo/stayman/internal/metrics"
	"github.com/minwoo/stayman/internal/middleware"
	"github.com/minwoo/stayman/internal/model"
)

// SubscriberServiceInterface 는 구독자 핸들러가 필요로 하는 서비스 인터페이스.
type SubscriberServiceInterface interface {
	List(ctx context.Context, userID, propertyID string) ([]*model.Subscriber, error)
	Create(ctx context.Context, userID, propertyID string, input model.SubscriberInput) (*model.Subscriber, error)
	BulkCreate(ctx context.Context, userID, propertyID string, phones []string) (int, error)
	Update(ctx context.Context, userID, propertyID, subscriberID string, patch model.SubscriberPatch) (*model.Subscriber, error)
	Delete(ctx context.Context, userID, propertyID, subscriberID string) error
}

// PhoneExtractor 는 업로드 파일에서 전화번호 목록을 추출하는 인터페이스.
type PhoneExtractor interface {
	ExtractPhones(filename string, data []byte) ([]string, error)
}

// SubscriberHandler 는 구독자 관리의 HTTP 핸들러.
type SubscriberHandler struct {
	service   SubscriberServiceInterface
	extractor PhoneExtractor
	collector metrics.MetricsCollector

	// maxFileSize 는 가져오기 파일의 최대 크기 (바이트).
	maxFileSize int64
}

// NewSubscriberHandler 는 SubscriberHandler를 생성한다.
func NewSubscriberHandler(service SubscriberServiceInterface, extractor PhoneExtractor, collector metrics.MetricsCollector, maxFileSize int64) *SubscriberHandler {
	if collector == nil {
		collector = noopMetrics{}
	}
	if maxFileSize <= 0 {
		maxFileSize = 5 << 20 // 5MB
	}
	return &SubscriberHandler{
		service:     service,
		extractor:   extractor,
		collector:   collector,
		maxFileSize: maxFileSize,
	}
}

// subscriberRequest 는 구독자 등록 요청의 보디.
type subscriberRequest struct {
	Phone string  `json:"phone"`
	Name  *string `json:"name"`
}

// subscriberPatchRequest 는 구독자 수정 요청의 보디. nil 필드는 변경하지 않는다.
type subscriberPatchRequest struct {
	Phone    *string `json:"phone"`
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

// subscriberResponse 는 구독자 정보의 API 응답.
type subscriberResponse struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	Phone      string    `json:"phone"`
	Name       *string   `json:"name"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// importResultResponse 는 스프레드시트 가져오기 결과의 API 응답.
type importResultResponse struct {
	ExtractedCount int `json:"extracted_count"`
	InsertedCount  int `json:"inserted_count"`
	DuplicateCount int `json:"duplicate_count"`
}

// ListSubscribers 는 숙소의 구독자 목록을 반환한다.
// GET /api/subscribers?property_id=xxx
func (h *SubscriberHandler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	propertyID := r.URL.Query().Get("property_id")
	if propertyID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewPropertyRequiredError())
		return
	}

	subscribers, err := h.service.List(r.Context(), userID, propertyID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]subscriberResponse, len(subscribers))
	for i, sub := range subscribers {
		results[i] = toSubscriberResponse(sub)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// CreateSubscriber 는 구독자를 한 명 등록한다.
// POST /api/subscribers?property_id=xxx
func (h *SubscriberHandler) CreateSubscriber(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	propertyID := r.URL.Query().Get("property_id")

	var req subscriberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestError(w)
		return
	}

	subscriber, err := h.service.Create(r.Context(), userID, propertyID, model.SubscriberInput{
		Phone: req.Phone,
		Name:  req.Name,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toSubscriberResponse(subscriber))
}

// UpdateSubscriber 는 구독자 정보를 수정한다.
// PATCH /api/subscribers/{id}?property_id=xxx
func (h *SubscriberHandler) UpdateSubscriber(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	propertyID := r.URL.Query().Get("property_id")
	subscriberID := chi.URLParam(r, "id")

	var req subscriberPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestError(w)
		return
	}

	subscriber, err := h.service.Update(r.Context(), userID, propertyID, subscriberID, model.SubscriberPatch{
		Phone:    req.Phone,
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toSubscriberResponse(subscriber))
}

// DeleteSubscriber 는 구독자를 삭제한다.
// DELETE /api/subscribers/{id}?property_id=xxx
func (h *SubscriberHandler) DeleteSubscriber(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	propertyID := r.URL.Query().Get("property_id")
	subscriberID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, propertyID, subscriberID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ImportSubscribers 는 스프레드시트 파일에서 전화번호를 추출해 구독자를 일괄 등록한다.
// multipart/form-data의 "file" 필드로 .xlsx/.xls/.csv 파일을 받는다.
// POST /api/subscribers/import?property_id=xxx
func (h *SubscriberHandler) ImportSubscribers(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	propertyID := r.URL.Query().Get("property_id")
	if propertyID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewPropertyRequiredError())
		return
	}

	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		writeAPIErrorResponse(w, http.StatusRequestEntityTooLarge, &model.APIError{
			Code:     "FILE_TOO_LARGE",
			Message:  "파일이 너무 큽니다.",
			Category: "import",
			Action:   "더 작은 파일로 다시 시도해주세요.",
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldsError("file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.collector.RecordImportFile("error")
		handleServiceError(w, err)
		return
	}

	phones, err := h.extractor.ExtractPhones(header.Filename, data)
	if err != nil {
		h.collector.RecordImportFile(importResultLabel(err))
		handleServiceError(w, err)
		return
	}

	inserted, err := h.service.BulkCreate(r.Context(), userID, propertyID, phones)
	if err != nil {
		h.collector.RecordImportFile("error")
		handleServiceError(w, err)
		return
	}

	h.collector.RecordImportFile("success")
	h.collector.RecordSubscribersImported(inserted)
	h.collector.RecordImportLatency(time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(importResultResponse{
		ExtractedCount: len(phones),
		InsertedCount:  inserted,
		DuplicateCount: len(phones) - inserted,
	})
}

// --- 헬퍼 함수 ---

// toSubscriberResponse 는 model.Subscriber를 API 응답으로 변환한다.
func toSubscriberResponse(sub *model.Subscriber) subscriberResponse {
	return subscriberResponse{
		ID:         sub.ID,
		PropertyID: sub.PropertyID,
		Phone:      sub.Phone,
		Name:       sub.Name,
		IsActive:   sub.IsActive,
		CreatedAt:  sub.CreatedAt,
		UpdatedAt:  sub.UpdatedAt,
	}
}

// importResultLabel 은 가져오기 실패 에러를 메트릭 라벨로 변환한다.
func importResultLabel(err error) string {
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		return "error"
	}
	switch apiErr.Code {
	case model.ErrCodeUnsupportedFile:
		return "unsupported"
	case model.ErrCodeImportNoPhones:
		return "no_phones"
	default:
		return "error"
	}
}
