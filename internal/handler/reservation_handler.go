package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/minwoo/stayman/internal/metrics"
	"github.com/minwoo/stayman/internal/middleware"
	"github.com/minwoo/stayman/internal/model"
)

// dateLayout 는 날짜 필드의 JSON 포맷.
const dateLayout = "2006-01-02"

// ReservationServiceInterface 는 예약 핸들러가 필요로 하는 서비스 인터페이스.
type ReservationServiceInterface interface {
	ListConfirmed(ctx context.Context, userID string, propertyID *string) ([]*model.Reservation, error)
	ListTodayOrTomorrow(ctx context.Context, userID string, propertyID *string) ([]*model.Reservation, error)
	Create(ctx context.Context, userID string, propertyID *string, input model.ReservationInput) (*model.Reservation, error)
	Update(ctx context.Context, userID, reservationID string, patch model.ReservationPatch) (*model.Reservation, error)
	Cancel(ctx context.Context, userID, reservationID string) (*model.Reservation, error)
	Delete(ctx context.Context, userID, reservationID string) error
}

// ReservationHandler 는 예약 관리의 HTTP 핸들러.
type ReservationHandler struct {
	service   ReservationServiceInterface
	collector metrics.MetricsCollector
}

// NewReservationHandler 는 ReservationHandler를 생성한다.
func NewReservationHandler(service ReservationServiceInterface, collector metrics.MetricsCollector) *ReservationHandler {
	if collector == nil {
		collector = noopMetrics{}
	}
	return &ReservationHandler{
		service:   service,
		collector: collector,
	}
}

// reservationRequest 는 예약 생성 요청의 보디. 날짜는 YYYY-MM-DD 형식.
type reservationRequest struct {
	PropertyID    *string `json:"property_id"`
	GuestName     string  `json:"guest_name"`
	GuestPhone    string  `json:"guest_phone"`
	CheckInDate   string  `json:"check_in_date"`
	CheckOutDate  string  `json:"check_out_date"`
	BookingSource *string `json:"booking_source"`
}

// reservationPatchRequest 는 예약 수정 요청의 보디. nil 필드는 변경하지 않는다.
type reservationPatchRequest struct {
	GuestName     *string `json:"guest_name"`
	GuestPhone    *string `json:"guest_phone"`
	CheckInDate   *string `json:"check_in_date"`
	CheckOutDate  *string `json:"check_out_date"`
	Status        *string `json:"status"`
	BookingSource *string `json:"booking_source"`
}

// reservationResponse 는 예약 정보의 API 응답.
type reservationResponse struct {
	ID            string    `json:"id"`
	PropertyID    *string   `json:"property_id"`
	GuestName     string    `json:"guest_name"`
	GuestPhone    string    `json:"guest_phone"`
	CheckInDate   string    `json:"check_in_date"`
	CheckOutDate  string    `json:"check_out_date"`
	Status        string    `json:"status"`
	BookingSource *string   `json:"booking_source"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ListReservations 는 확정 상태의 예약 목록을 반환한다.
// ?property_id= 로 숙소를 한정하고, ?view=today-tomorrow 로 오늘·내일 체크인만 추린다.
// GET /api/reservations
func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	var propertyID *string
	if v := r.URL.Query().Get("property_id"); v != "" {
		propertyID = &v
	}

	var reservations []*model.Reservation
	if r.URL.Query().Get("view") == "today-tomorrow" {
		reservations, err = h.service.ListTodayOrTomorrow(r.Context(), userID, propertyID)
	} else {
		reservations, err = h.service.ListConfirmed(r.Context(), userID, propertyID)
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]reservationResponse, len(reservations))
	for i, res := range reservations {
		results[i] = toReservationResponse(res)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// CreateReservation 은 예약을 등록한다.
// POST /api/reservations
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	var req reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestError(w)
		return
	}

	if req.GuestName == "" || req.GuestPhone == "" || req.CheckInDate == "" || req.CheckOutDate == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewMissingFieldsError("guest_name, guest_phone, check_in_date, check_out_date"))
		return
	}

	checkIn, err := time.Parse(dateLayout, req.CheckInDate)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidDateRangeError())
		return
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOutDate)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidDateRangeError())
		return
	}

	reservation, err := h.service.Create(r.Context(), userID, req.PropertyID, model.ReservationInput{
		GuestName:     req.GuestName,
		GuestPhone:    req.GuestPhone,
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		BookingSource: toBookingSource(req.BookingSource),
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.collector.RecordReservationCreated()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toReservationResponse(reservation))
}

// UpdateReservation 은 예약을 수정한다.
// PATCH /api/reservations/{id}
func (h *ReservationHandler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	reservationID := chi.URLParam(r, "id")

	var req reservationPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestError(w)
		return
	}

	patch := model.ReservationPatch{
		GuestName:     req.GuestName,
		GuestPhone:    req.GuestPhone,
		BookingSource: toBookingSource(req.BookingSource),
	}
	if req.CheckInDate != nil {
		d, err := time.Parse(dateLayout, *req.CheckInDate)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidDateRangeError())
			return
		}
		patch.CheckInDate = &d
	}
	if req.CheckOutDate != nil {
		d, err := time.Parse(dateLayout, *req.CheckOutDate)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidDateRangeError())
			return
		}
		patch.CheckOutDate = &d
	}
	if req.Status != nil {
		status := model.ReservationStatus(*req.Status)
		patch.Status = &status
	}

	reservation, err := h.service.Update(r.Context(), userID, reservationID, patch)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toReservationResponse(reservation))
}

// CancelReservation 은 예약을 취소 상태로 전환한다. 이미 취소된 예약이면 그대로 반환한다.
// POST /api/reservations/{id}/cancel
func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	reservationID := chi.URLParam(r, "id")

	reservation, err := h.service.Cancel(r.Context(), userID, reservationID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.collector.RecordReservationCancelled()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toReservationResponse(reservation))
}

// DeleteReservation 은 예약을 완전히 삭제한다.
// DELETE /api/reservations/{id}
func (h *ReservationHandler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	reservationID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, reservationID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- 헬퍼 함수 ---

// toReservationResponse 는 model.Reservation을 API 응답으로 변환한다.
func toReservationResponse(res *model.Reservation) reservationResponse {
	var source *string
	if res.BookingSource != nil {
		s := string(*res.BookingSource)
		source = &s
	}
	return reservationResponse{
		ID:            res.ID,
		PropertyID:    res.PropertyID,
		GuestName:     res.GuestName,
		GuestPhone:    res.GuestPhone,
		CheckInDate:   res.CheckInDate.Format(dateLayout),
		CheckOutDate:  res.CheckOutDate.Format(dateLayout),
		Status:        string(res.Status),
		BookingSource: source,
		CreatedAt:     res.CreatedAt,
		UpdatedAt:     res.UpdatedAt,
	}
}

// toBookingSource 는 문자열 포인터를 BookingSource 포인터로 변환한다.
func toBookingSource(s *string) *model.BookingSource {
	if s == nil {
		return nil
	}
	source := model.BookingSource(*s)
	return &source
}
