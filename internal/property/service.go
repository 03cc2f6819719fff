// Package property 는 숙소 관리와 현재 선택 숙소 해석의 도메인 로직을 제공한다.
package property

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minwoo/stayman/internal/model"
	"github.com/minwoo/stayman/internal/repository"
	"github.com/minwoo/stayman/internal/security"
)

// ServiceConfig 는 숙소 서비스의 설정.
type ServiceConfig struct {
	MaxProperties int // 사용자당 숙소 등록 상한
}

// Service 는 숙소 관리의 서비스 층.
// 목록 조회, 등록, 수정, 삭제, 기본 숙소 전환의 비즈니스 로직을 제공한다.
type Service struct {
	propRepo  repository.PropertyRepository
	sanitizer security.TextSanitizerService
	config    ServiceConfig
}

// NewService 는 Service의 새 인스턴스를 생성한다.
func NewService(
	propRepo repository.PropertyRepository,
	sanitizer security.TextSanitizerService,
	config ServiceConfig,
) *Service {
	return &Service{
		propRepo:  propRepo,
		sanitizer: sanitizer,
		config:    config,
	}
}

// List 는 사용자의 숙소 목록을 반환한다.
// 미인증(userID가 빈 문자열)이면 에러 없이 빈 목록을 반환한다.
func (s *Service) List(ctx context.Context, userID string) ([]*model.Property, error) {
	if userID == "" {
		return []*model.Property{}, nil
	}

	properties, err := s.propRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("숙소 목록 조회에 실패했습니다: %w", err)
	}

	return properties, nil
}

// Get 은 소유권을 확인한 후 숙소를 반환한다.
// 다른 사용자 소유의 숙소는 존재 여부를 숨기기 위해 not found로 처리한다.
func (s *Service) Get(ctx context.Context, userID, propertyID string) (*model.Property, error) {
	property, err := s.propRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("숙소 조회에 실패했습니다: %w", err)
	}
	if property == nil || property.UserID != userID {
		return nil, model.NewPropertyNotFoundError(propertyID)
	}

	return property, nil
}

// Create 는 숙소를 등록한다.
// 사용자의 첫 숙소는 기본 숙소가 되며, 상한 초과 시 에러를 반환한다.
func (s *Service) Create(ctx context.Context, userID string, input model.PropertyInput) (*model.Property, error) {
	if userID == "" {
		return nil, model.NewAuthRequiredError()
	}

	name := s.sanitizer.Sanitize(input.Name)
	if name == "" {
		return nil, model.NewMissingFieldsError("name")
	}

	count, err := s.propRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("숙소 수 조회에 실패했습니다: %w", err)
	}
	if count >= s.config.MaxProperties {
		return nil, model.NewPropertyLimitError(s.config.MaxProperties)
	}

	now := time.Now()
	property := &model.Property{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		Address:     s.sanitizer.SanitizePtr(input.Address),
		Phone:       s.sanitizer.SanitizePtr(input.Phone),
		Description: s.sanitizer.SanitizePtr(input.Description),
		IsDefault:   count == 0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.propRepo.Create(ctx, property); err != nil {
		return nil, fmt.Errorf("숙소 등록에 실패했습니다: %w", err)
	}

	return property, nil
}

// Update 는 숙소를 부분 수정한다. nil 필드는 변경하지 않는다.
func (s *Service) Update(ctx context.Context, userID, propertyID string, patch model.PropertyPatch) (*model.Property, error) {
	property, err := s.propRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("숙소 조회에 실패했습니다: %w", err)
	}
	if property == nil || property.UserID != userID {
		return nil, model.NewPropertyNotFoundError(propertyID)
	}

	if patch.Name != nil {
		name := s.sanitizer.Sanitize(*patch.Name)
		if name == "" {
			return nil, model.NewMissingFieldsError("name")
		}
		property.Name = name
	}
	if patch.Address != nil {
		property.Address = s.sanitizer.SanitizePtr(patch.Address)
	}
	if patch.Phone != nil {
		property.Phone = s.sanitizer.SanitizePtr(patch.Phone)
	}
	if patch.Description != nil {
		property.Description = s.sanitizer.SanitizePtr(patch.Description)
	}
	property.UpdatedAt = time.Now()

	if err := s.propRepo.Update(ctx, property); err != nil {
		return nil, fmt.Errorf("숙소 수정에 실패했습니다: %w", err)
	}

	return property, nil
}

// Delete 는 숙소를 삭제한다.
// 연결된 예약의 property_id는 DB의 외래키 규칙으로 NULL이 되고,
// 구독자는 함께 삭제된다. 기본 숙소 삭제 시 자동 재지정은 하지 않는다.
func (s *Service) Delete(ctx context.Context, userID, propertyID string) error {
	property, err := s.propRepo.FindByID(ctx, propertyID)
	if err != nil {
		return fmt.Errorf("숙소 조회에 실패했습니다: %w", err)
	}
	if property == nil || property.UserID != userID {
		return model.NewPropertyNotFoundError(propertyID)
	}

	if err := s.propRepo.Delete(ctx, propertyID); err != nil {
		return fmt.Errorf("숙소 삭제에 실패했습니다: %w", err)
	}

	return nil
}

// SetDefault 는 지정한 숙소를 기본 숙소로 전환한다.
// 전환은 한 UPDATE 문으로 처리되어 기본 숙소가 2개가 되는 중간 상태가 없다.
func (s *Service) SetDefault(ctx context.Context, userID, propertyID string) (*model.Property, error) {
	property, err := s.propRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("숙소 조회에 실패했습니다: %w", err)
	}
	if property == nil || property.UserID != userID {
		return nil, model.NewPropertyNotFoundError(propertyID)
	}

	if err := s.propRepo.SetDefault(ctx, userID, propertyID); err != nil {
		return nil, fmt.Errorf("기본 숙소 전환에 실패했습니다: %w", err)
	}

	updated, err := s.propRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("숙소 재조회에 실패했습니다: %w", err)
	}
	if updated == nil {
		return nil, model.NewPropertyNotFoundError(propertyID)
	}

	return updated, nil
}
