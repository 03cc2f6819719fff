package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/minwoo/stayman/internal/middleware"
	"github.com/minwoo/stayman/internal/model"
)

// PropertyServiceInterface 는 숙소 핸들러가 필요로 하는 서비스 인터페이스.
type PropertyServiceInterface interface {
	List(ctx context.Context, userID string) ([]*model.Property, error)
	Get(ctx context.Context, userID, propertyID string) (*model.Property, error)
	Create(ctx context.Context, userID string, input model.PropertyInput) (*model.Property, error)
	Update(ctx context.Context, userID, propertyID string, patch model.PropertyPatch) (*model.Property, error)
	Delete(ctx context.Context, userID, propertyID string) error
	SetDefault(ctx context.Context, userID, propertyID string) (*model.Property, error)
}

// PropertySelectorInterface 는 현재 선택 숙소 조작의 인터페이스.
type PropertySelectorInterface interface {
	Resolve(ctx context.Context, userID string) (*model.Property, error)
	SetCurrent(ctx context.Context, userID, propertyID string) (*model.Property, error)
	ClearCurrent(ctx context.Context, userID string) error
}

// PropertyHandler 는 숙소 관리의 HTTP 핸들러.
type PropertyHandler struct {
	service  PropertyServiceInterface
	selector PropertySelectorInterface
}

// NewPropertyHandler 는 PropertyHandler를 생성한다.
func NewPropertyHandler(service PropertyServiceInterface, selector PropertySelectorInterface) *PropertyHandler {
	return &PropertyHandler{
		service:  service,
		selector: selector,
	}
}

// propertyRequest 는 숙소 생성 요청의 보디.
type propertyRequest struct {
	Name        string  `json:"name"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone"`
	Description *string `json:"description"`
}

// propertyPatchRequest 는 숙소 수정 요청의 보디. nil 필드는 변경하지 않는다.
type propertyPatchRequest struct {
	Name        *string `json:"name"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone"`
	Description *string `json:"description"`
}

// propertyResponse 는 숙소 정보의 API 응답.
type propertyResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     *string   `json:"address"`
	Phone       *string   `json:"phone"`
	Description *string   `json:"description"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// apiErrorResponse 는 통일 에러 포맷의 응답.
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// ListProperties 는 사용자의 숙소 목록을 반환한다.
// GET /api/properties
func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	properties, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]propertyResponse, len(properties))
	for i, p := range properties {
		results[i] = toPropertyResponse(p)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// GetProperty 는 숙소 상세를 반환한다.
// GET /api/properties/{id}
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	propertyID := chi.URLParam(r, "id")

	property, err := h.service.Get(r.Context(), userID, propertyID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPropertyResponse(property))
}

// CreateProperty 는 숙소를 등록한다.
// POST /api/properties
func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	var req propertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestError(w)
		return
	}

	if req.Name == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldsError("name"))
		return
	}

	property, err := h.service.Create(r.Context(), userID, model.PropertyInput{
		Name:        req.Name,
		Address:     req.Address,
		Phone:       req.Phone,
		Description: req.Description,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toPropertyResponse(property))
}

// UpdateProperty 는 숙소 정보를 수정한다.
// PATCH /api/properties/{id}
func (h *PropertyHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	propertyID := chi.URLParam(r, "id")

	var req propertyPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestError(w)
		return
	}

	property, err := h.service.Update(r.Context(), userID, propertyID, model.PropertyPatch{
		Name:        req.Name,
		Address:     req.Address,
		Phone:       req.Phone,
		Description: req.Description,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPropertyResponse(property))
}

// DeleteProperty 는 숙소를 삭제한다.
// DELETE /api/properties/{id}
func (h *PropertyHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	propertyID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, propertyID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetDefaultProperty 는 숙소를 기본 숙소로 지정한다.
// PUT /api/properties/{id}/default
func (h *PropertyHandler) SetDefaultProperty(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	propertyID := chi.URLParam(r, "id")

	property, err := h.service.SetDefault(r.Context(), userID, propertyID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPropertyResponse(property))
}

// GetCurrentProperty 는 현재 작업 대상 숙소를 반환한다.
// 선택 이력이 없으면 기본 숙소 또는 첫 번째 숙소로 해소한다.
// GET /api/properties/current
func (h *PropertyHandler) GetCurrentProperty(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	property, err := h.selector.Resolve(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if property == nil {
		// 등록된 숙소가 없는 상태. 프런트엔드는 null로 받는다
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("null"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPropertyResponse(property))
}

// setCurrentPropertyRequest 는 현재 숙소 변경 요청의 보디.
type setCurrentPropertyRequest struct {
	PropertyID string `json:"property_id"`
}

// SetCurrentProperty 는 현재 작업 대상 숙소를 변경한다.
// PUT /api/properties/current
func (h *PropertyHandler) SetCurrentProperty(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	var req setCurrentPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestError(w)
		return
	}

	if req.PropertyID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldsError("property_id"))
		return
	}

	property, err := h.selector.SetCurrent(r.Context(), userID, req.PropertyID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPropertyResponse(property))
}

// ClearCurrentProperty 는 현재 숙소 선택을 해제한다.
// DELETE /api/properties/current
func (h *PropertyHandler) ClearCurrentProperty(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	if err := h.selector.ClearCurrent(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- 헬퍼 함수 ---

// toPropertyResponse 는 model.Property를 API 응답으로 변환한다.
func toPropertyResponse(p *model.Property) propertyResponse {
	return propertyResponse{
		ID:          p.ID,
		Name:        p.Name,
		Address:     p.Address,
		Phone:       p.Phone,
		Description: p.Description,
		IsDefault:   p.IsDefault,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// writeAPIErrorResponse 는 통일 에러 포맷으로 에러 응답을 기록한다.
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// writeInvalidRequestError 는 JSON 파싱 실패 응답을 기록한다.
func writeInvalidRequestError(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  "요청 본문을 해석할 수 없습니다.",
		Category: "validation",
		Action:   "올바른 JSON 형식으로 요청해주세요.",
	})
}

// handleServiceError 는 서비스 계층의 에러를 적절한 HTTP 상태 코드로 변환한다.
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError가 아닌 에러는 내부 서버 에러로 취급한다
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "내부 오류가 발생했습니다.",
		Category: "system",
		Action:   "잠시 후 다시 시도해주세요.",
	})
}

// mapAPIErrorToHTTPStatus 는 APIError 코드를 HTTP 상태 코드로 매핑한다.
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodePropertyNotFound,
		model.ErrCodeReservationNotFound,
		model.ErrCodeSubscriberNotFound,
		model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodePropertyLimit:
		return http.StatusConflict
	case model.ErrCodePropertyRequired,
		model.ErrCodeInvalidDateRange,
		model.ErrCodeInvalidPhone,
		model.ErrCodeMissingFields:
		return http.StatusBadRequest
	case model.ErrCodeUnsupportedFile:
		return http.StatusUnsupportedMediaType
	case model.ErrCodeImportNoPhones:
		return http.StatusUnprocessableEntity
	case model.ErrCodeNotificationStub:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
