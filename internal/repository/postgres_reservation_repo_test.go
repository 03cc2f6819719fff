package repository

import (
	"testing"
	"time"

	"github.com/minwoo/stayman/internal/model"
)

// PostgresReservationRepo가 ReservationRepository 인터페이스를 만족하는지 검증
func TestPostgresReservationRepo_ImplementsInterface(t *testing.T) {
	var _ ReservationRepository = (*PostgresReservationRepo)(nil)
}

// NewPostgresReservationRepo가 올바르게 초기화되는지 검증
func TestNewPostgresReservationRepo_Initializes(t *testing.T) {
	repo := NewPostgresReservationRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// Reservation 모델의 필드가 올바르게 구성되는지 검증
func TestPostgresReservationRepo_ReservationModel_Fields(t *testing.T) {
	now := time.Now()
	propertyID := "property-id-1"
	source := model.BookingSourceNaver
	reservation := &model.Reservation{
		ID:            "reservation-id-1",
		UserID:        "user-id-1",
		PropertyID:    &propertyID,
		GuestName:     "홍길동",
		GuestPhone:    "010-1234-5678",
		CheckInDate:   now,
		CheckOutDate:  now.AddDate(0, 0, 2),
		Status:        model.ReservationStatusConfirmed,
		BookingSource: &source,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if reservation.GuestName != "홍길동" {
		t.Errorf("reservation.GuestName = %q, want %q", reservation.GuestName, "홍길동")
	}
	if reservation.Status != model.ReservationStatusConfirmed {
		t.Errorf("reservation.Status = %q, want %q", reservation.Status, model.ReservationStatusConfirmed)
	}
	if !reservation.CheckOutDate.After(reservation.CheckInDate) {
		t.Error("check_out_date should be after check_in_date")
	}
}

// 숙소 삭제 후 예약의 property_id가 nil 허용인지 검증
func TestPostgresReservationRepo_ReservationModel_NilPropertyID(t *testing.T) {
	reservation := &model.Reservation{
		ID:         "reservation-id-2",
		UserID:     "user-id-1",
		GuestName:  "김철수",
		GuestPhone: "010-3333-4444",
		Status:     model.ReservationStatusCancelled,
	}

	if reservation.PropertyID != nil {
		t.Error("property_id should be nil by default")
	}
	if reservation.BookingSource != nil {
		t.Error("booking_source should be nil by default")
	}
}
