// Package subscriber 는 빈방 알림 구독자 관리의 도메인 로직을 제공한다.
// 모든 조작은 사용자와 현재 선택 숙소 범위로 한정된다.
package subscriber

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minwoo/stayman/internal/importer"
	"github.com/minwoo/stayman/internal/model"
	"github.com/minwoo/stayman/internal/repository"
	"github.com/minwoo/stayman/internal/security"
)

// Service 는 구독자 관리의 서비스 층.
type Service struct {
	subRepo   repository.SubscriberRepository
	propRepo  repository.PropertyRepository
	sanitizer security.TextSanitizerService
}

// NewService 는 Service의 새 인스턴스를 생성한다.
func NewService(
	subRepo repository.SubscriberRepository,
	propRepo repository.PropertyRepository,
	sanitizer security.TextSanitizerService,
) *Service {
	return &Service{
		subRepo:   subRepo,
		propRepo:  propRepo,
		sanitizer: sanitizer,
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

// List 는 현재 숙소의 구독자 목록을 최신순으로 반환한다.
// 사용자나 숙소가 없으면 에러 없이 빈 목록을 반환한다.
func (s *Service) List(ctx context.Context, userID, propertyID string) ([]*model.Subscriber, error) {
	if userID == "" || propertyID == "" {
		return []*model.Subscriber{}, nil
	}

	subscribers, err := s.subRepo.ListByUserAndProperty(ctx, userID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("구독자 목록 조회에 실패했습니다: %w", err)
	}

	return subscribers, nil
}

// Create 는 구독자를 개별 등록한다. 숙소가 선택되어 있어야 한다.
func (s *Service) Create(ctx context.Context, userID, propertyID string, input model.SubscriberInput) (*model.Subscriber, error) {
	if userID == "" || propertyID == "" {
		return nil, model.NewPropertyRequiredError()
	}
	if input.Phone == "" {
		return nil, model.NewMissingFieldsError("phone")
	}
	if err := s.verifyOwnedProperty(ctx, userID, propertyID); err != nil {
		return nil, err
	}

	// 입력 경로와 무관하게 저장 형식을 통일해야
	// (property_id, phone) 유니크 제약이 중복을 잡아낼 수 있다
	phone, ok := importer.NormalizePhone(input.Phone)
	if !ok {
		return nil, model.NewInvalidPhoneError(input.Phone)
	}

	now := time.Now()
	subscriber := &model.Subscriber{
		ID:         uuid.New().String(),
		UserID:     userID,
		PropertyID: propertyID,
		Phone:      phone,
		Name:       s.sanitizer.SanitizePtr(input.Name),
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.subRepo.Create(ctx, subscriber); err != nil {
		return nil, fmt.Errorf("구독자 등록에 실패했습니다: %w", err)
	}

	return subscriber, nil
}

// BulkCreate 는 스프레드시트에서 추출한 전화번호들을 일괄 등록하고
// 실제로 추가된 건수를 반환한다. 번호는 표준 형식으로 정규화한 뒤 저장하며
// 형식이 유효하지 않은 번호와 이미 등록된 번호는 건너뛴다.
// 일괄 등록된 구독자는 이름 없이 활성 상태로 저장된다.
func (s *Service) BulkCreate(ctx context.Context, userID, propertyID string, phones []string) (int, error) {
	if userID == "" || propertyID == "" {
		return 0, model.NewPropertyRequiredError()
	}
	if len(phones) == 0 {
		return 0, nil
	}
	if err := s.verifyOwnedProperty(ctx, userID, propertyID); err != nil {
		return 0, err
	}

	now := time.Now()
	subscribers := make([]*model.Subscriber, 0, len(phones))
	for _, raw := range phones {
		phone, ok := importer.NormalizePhone(raw)
		if !ok {
			continue
		}
		subscribers = append(subscribers, &model.Subscriber{
			ID:         uuid.New().String(),
			UserID:     userID,
			PropertyID: propertyID,
			Phone:      phone,
			IsActive:   true,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	if len(subscribers) == 0 {
		return 0, nil
	}

	inserted, err := s.subRepo.BulkInsert(ctx, subscribers)
	if err != nil {
		return 0, fmt.Errorf("구독자 일괄 등록에 실패했습니다: %w", err)
	}

	return inserted, nil
}

// Update 는 구독자를 부분 수정한다. nil 필드는 변경하지 않는다.
func (s *Service) Update(ctx context.Context, userID, propertyID, subscriberID string, patch model.SubscriberPatch) (*model.Subscriber, error) {
	subscriber, err := s.findOwned(ctx, userID, propertyID, subscriberID)
	if err != nil {
		return nil, err
	}

	if patch.Phone != nil {
		if *patch.Phone == "" {
			return nil, model.NewMissingFieldsError("phone")
		}
		phone, ok := importer.NormalizePhone(*patch.Phone)
		if !ok {
			return nil, model.NewInvalidPhoneError(*patch.Phone)
		}
		subscriber.Phone = phone
	}
	if patch.Name != nil {
		subscriber.Name = s.sanitizer.SanitizePtr(patch.Name)
	}
	if patch.IsActive != nil {
		subscriber.IsActive = *patch.IsActive
	}
	subscriber.UpdatedAt = time.Now()

	if err := s.subRepo.Update(ctx, subscriber); err != nil {
		return nil, fmt.Errorf("구독자 수정에 실패했습니다: %w", err)
	}

	return subscriber, nil
}

// Delete 는 구독자를 삭제한다.
func (s *Service) Delete(ctx context.Context, userID, propertyID, subscriberID string) error {
	if _, err := s.findOwned(ctx, userID, propertyID, subscriberID); err != nil {
		return err
	}

	if err := s.subRepo.Delete(ctx, subscriberID); err != nil {
		return fmt.Errorf("구독자 삭제에 실패했습니다: %w", err)
	}

	return nil
}

// findOwned 는 사용자와 현재 숙소 범위를 확인한 후 구독자를 반환한다.
// 범위 밖의 구독자는 not found로 처리한다.
func (s *Service) findOwned(ctx context.Context, userID, propertyID, subscriberID string) (*model.Subscriber, error) {
	if userID == "" || propertyID == "" {
		return nil, model.NewPropertyRequiredError()
	}

	subscriber, err := s.subRepo.FindByID(ctx, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("구독자 조회에 실패했습니다: %w", err)
	}
	if subscriber == nil || subscriber.UserID != userID || subscriber.PropertyID != propertyID {
		return nil, model.NewSubscriberNotFoundError(subscriberID)
	}
	return subscriber, nil
}
