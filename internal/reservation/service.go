// Package reservation 은 예약 관리의 도메인 로직을 제공한다.
package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minwoo/stayman/internal/model"
	"github.com/minwoo/stayman/internal/repository"
	"github.com/minwoo/stayman/internal/security"
)

// ServiceConfig 는 예약 서비스의 설정.
type ServiceConfig struct {
	Location *time.Location // 오늘/내일 판정에 사용하는 타임존
}

// Service 는 예약 관리의 서비스 층.
// 확정 예약 목록, 오늘/내일 체크인 조회, 등록, 수정, 취소, 삭제를 제공한다.
type Service struct {
	rsvRepo   repository.ReservationRepository
	propRepo  repository.PropertyRepository
	sanitizer security.TextSanitizerService
	config    ServiceConfig
}

// NewService 는 Service의 새 인스턴스를 생성한다.
func NewService(
	rsvRepo repository.ReservationRepository,
	propRepo repository.PropertyRepository,
	sanitizer security.TextSanitizerService,
	config ServiceConfig,
) *Service {
	if config.Location == nil {
		config.Location = time.UTC
	}
	return &Service{
		rsvRepo:   rsvRepo,
		propRepo:  propRepo,
		sanitizer: sanitizer,
		config:    config,
	}
}

// verifyOwnedProperty 는 숙소가 호출자 소유인지 확인한다.
// 존재하지 않거나 타인 소유이면 not found로 처리한다.
func (s *Service) verifyOwnedProperty(ctx context.Context, userID, propertyID string) error {
	property, err := s.propRepo.FindByID(ctx, propertyID)
	if err != nil {
		return fmt.Errorf("숙소 조회에 실패했습니다: %w", err)
	}
	if property == nil || property.UserID != userID {
		return model.NewPropertyNotFoundError(propertyID)
	}
	return nil
}

// ListConfirmed 는 확정 상태의 예약을 체크인 날짜 순으로 반환한다.
// propertyID가 nil이 아니면 해당 숙소의 예약으로 한정한다.
// 미인증이면 에러 없이 빈 목록을 반환한다.
func (s *Service) ListConfirmed(ctx context.Context, userID string, propertyID *string) ([]*model.Reservation, error) {
	if userID == "" {
		return []*model.Reservation{}, nil
	}

	reservations, err := s.rsvRepo.ListConfirmed(ctx, userID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("예약 목록 조회에 실패했습니다: %w", err)
	}

	return reservations, nil
}

// ListTodayOrTomorrow 는 확정 예약 중 체크인이 오늘 또는 내일인 건만 반환한다.
// 날짜 비교는 설정된 타임존의 달력상 날짜로 수행한다.
func (s *Service) ListTodayOrTomorrow(ctx context.Context, userID string, propertyID *string) ([]*model.Reservation, error) {
	reservations, err := s.ListConfirmed(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}

	today := calendarDate(time.Now().In(s.config.Location))
	tomorrow := today.AddDate(0, 0, 1)

	upcoming := []*model.Reservation{}
	for _, r := range reservations {
		checkIn := calendarDate(r.CheckInDate.In(s.config.Location))
		if checkIn.Equal(today) || checkIn.Equal(tomorrow) {
			upcoming = append(upcoming, r)
		}
	}

	return upcoming, nil
}

// Create 는 예약을 등록한다. 새 예약은 항상 확정 상태로 시작한다.
func (s *Service) Create(ctx context.Context, userID string, propertyID *string, input model.ReservationInput) (*model.Reservation, error) {
	if userID == "" {
		return nil, model.NewAuthRequiredError()
	}

	guestName := s.sanitizer.Sanitize(input.GuestName)
	if guestName == "" || input.GuestPhone == "" {
		return nil, model.NewMissingFieldsError("guest_name, guest_phone")
	}
	if input.CheckInDate.IsZero() || input.CheckOutDate.IsZero() {
		return nil, model.NewMissingFieldsError("check_in_date, check_out_date")
	}
	if !input.CheckOutDate.After(input.CheckInDate) {
		return nil, model.NewInvalidDateRangeError()
	}
	if propertyID != nil {
		if err := s.verifyOwnedProperty(ctx, userID, *propertyID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	reservation := &model.Reservation{
		ID:            uuid.New().String(),
		UserID:        userID,
		PropertyID:    propertyID,
		GuestName:     guestName,
		GuestPhone:    input.GuestPhone,
		CheckInDate:   input.CheckInDate,
		CheckOutDate:  input.CheckOutDate,
		Status:        model.ReservationStatusConfirmed,
		BookingSource: input.BookingSource,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.rsvRepo.Create(ctx, reservation); err != nil {
		return nil, fmt.Errorf("예약 등록에 실패했습니다: %w", err)
	}

	return reservation, nil
}

// Update 는 예약을 부분 수정한다. nil 필드는 변경하지 않는다.
// 수정 후의 날짜 조합도 체크아웃 > 체크인을 만족해야 한다.
func (s *Service) Update(ctx context.Context, userID, reservationID string, patch model.ReservationPatch) (*model.Reservation, error) {
	reservation, err := s.findOwned(ctx, userID, reservationID)
	if err != nil {
		return nil, err
	}

	if patch.GuestName != nil {
		guestName := s.sanitizer.Sanitize(*patch.GuestName)
		if guestName == "" {
			return nil, model.NewMissingFieldsError("guest_name")
		}
		reservation.GuestName = guestName
	}
	if patch.GuestPhone != nil {
		if *patch.GuestPhone == "" {
			return nil, model.NewMissingFieldsError("guest_phone")
		}
		reservation.GuestPhone = *patch.GuestPhone
	}
	if patch.CheckInDate != nil {
		reservation.CheckInDate = *patch.CheckInDate
	}
	if patch.CheckOutDate != nil {
		reservation.CheckOutDate = *patch.CheckOutDate
	}
	if patch.Status != nil {
		reservation.Status = *patch.Status
	}
	if patch.BookingSource != nil {
		reservation.BookingSource = patch.BookingSource
	}

	if !reservation.CheckOutDate.After(reservation.CheckInDate) {
		return nil, model.NewInvalidDateRangeError()
	}

	reservation.UpdatedAt = time.Now()

	if err := s.rsvRepo.Update(ctx, reservation); err != nil {
		return nil, fmt.Errorf("예약 수정에 실패했습니다: %w", err)
	}

	return reservation, nil
}

// Cancel 은 예약을 취소 상태로 전환한다.
// 레코드는 삭제하지 않고 상태만 바꾸므로 확정 목록에서 사라진다.
// 이미 취소된 예약의 재취소는 그대로 성공 처리한다(멱등).
func (s *Service) Cancel(ctx context.Context, userID, reservationID string) (*model.Reservation, error) {
	reservation, err := s.findOwned(ctx, userID, reservationID)
	if err != nil {
		return nil, err
	}

	if reservation.Status == model.ReservationStatusCancelled {
		return reservation, nil
	}

	reservation.Status = model.ReservationStatusCancelled
	reservation.UpdatedAt = time.Now()

	if err := s.rsvRepo.Update(ctx, reservation); err != nil {
		return nil, fmt.Errorf("예약 취소에 실패했습니다: %w", err)
	}

	return reservation, nil
}

// Delete 는 예약 레코드를 완전히 삭제한다.
func (s *Service) Delete(ctx context.Context, userID, reservationID string) error {
	if _, err := s.findOwned(ctx, userID, reservationID); err != nil {
		return err
	}

	if err := s.rsvRepo.Delete(ctx, reservationID); err != nil {
		return fmt.Errorf("예약 삭제에 실패했습니다: %w", err)
	}

	return nil
}

// findOwned 는 소유권을 확인한 후 예약을 반환한다.
// 다른 사용자의 예약은 not found로 처리한다.
func (s *Service) findOwned(ctx context.Context, userID, reservationID string) (*model.Reservation, error) {
	reservation, err := s.rsvRepo.FindByID(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("예약 조회에 실패했습니다: %w", err)
	}
	if reservation == nil || reservation.UserID != userID {
		return nil, model.NewReservationNotFoundError(reservationID)
	}
	return reservation, nil
}

// calendarDate 는 시각 정보를 버린 달력상의 날짜를 반환한다.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
