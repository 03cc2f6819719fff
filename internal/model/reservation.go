package model

import "time"

// ReservationStatus 는 예약의 상태를 나타낸다.
type ReservationStatus string

const (
	// ReservationStatusConfirmed 는 확정된 예약을 나타낸다.
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	// ReservationStatusCancelled 는 취소된 예약을 나타낸다.
	// 목록 조회는 confirmed만 반환하므로 취소된 예약은 다시 조회되지 않는다.
	ReservationStatusCancelled ReservationStatus = "cancelled"
	// ReservationStatusCompleted 는 체크아웃이 끝난 예약을 나타낸다.
	ReservationStatusCompleted ReservationStatus = "completed"
)

// BookingSource 는 예약이 들어온 경로를 나타낸다.
type BookingSource string

const (
	BookingSourceSMS   BookingSource = "sms"
	BookingSourceNaver BookingSource = "naver"
	BookingSourcePhone BookingSource = "phone"
	BookingSourceOther BookingSource = "other"
)

// Reservation 은 게스트의 숙박 예약을 나타낸다.
// CheckInDate, CheckOutDate는 달력상의 날짜이며 시각 정보를 갖지 않는다.
// CheckOutDate > CheckInDate 불변식은 입력 시점(핸들러)과 DB CHECK 제약 양쪽에서 검증된다.
type Reservation struct {
	ID            string
	UserID        string
	PropertyID    *string
	GuestName     string
	GuestPhone    string
	CheckInDate   time.Time
	CheckOutDate  time.Time
	Status        ReservationStatus
	BookingSource *BookingSource
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReservationInput 은 예약 생성 시의 입력값을 나타낸다.
type ReservationInput struct {
	GuestName     string
	GuestPhone    string
	CheckInDate   time.Time
	CheckOutDate  time.Time
	BookingSource *BookingSource
}

// ReservationPatch 는 예약 부분 수정의 입력값을 나타낸다.
// nil 필드는 변경하지 않는다.
type ReservationPatch struct {
	GuestName     *string
	GuestPhone    *string
	CheckInDate   *time.Time
	CheckOutDate  *time.Time
	Status        *ReservationStatus
	BookingSource *BookingSource
}
