package property

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/minwoo/stayman/internal/model"
	"github.com/minwoo/stayman/internal/repository"
)

// Selector 는 현재 선택 숙소의 해석과 영속화를 담당한다.
// 선택 기록은 사용자별 키로 KV 저장소에 보관되며 세션이 바뀌어도 유지된다.
type Selector struct {
	propRepo       repository.PropertyRepository
	selectionStore repository.PropertySelectionStore
}

// NewSelector 는 Selector를 생성한다.
func NewSelector(
	propRepo repository.PropertyRepository,
	selectionStore repository.PropertySelectionStore,
) *Selector {
	return &Selector{
		propRepo:       propRepo,
		selectionStore: selectionStore,
	}
}

// Resolve 는 현재 선택 숙소를 결정한다.
//
// 해석 규칙:
//  1. 저장된 선택이 사용자의 숙소 목록에 있으면 그 숙소.
//  2. 없거나 무효하면 기본 숙소, 기본이 없으면 목록의 첫 숙소로 대체하고 저장.
//  3. 숙소가 하나도 없으면 nil을 반환하고 저장된 선택을 정리한다.
func (s *Selector) Resolve(ctx context.Context, userID string) (*model.Property, error) {
	if userID == "" {
		return nil, nil
	}

	properties, err := s.propRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("숙소 목록 조회에 실패했습니다: %w", err)
	}

	if len(properties) == 0 {
		// 남아 있는 선택 기록은 무효이므로 정리
		if err := s.selectionStore.DeleteByUserID(ctx, userID); err != nil {
			slog.Warn("failed to clear stale property selection",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
		return nil, nil
	}

	storedID, err := s.selectionStore.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("선택 숙소 조회에 실패했습니다: %w", err)
	}

	if storedID != "" {
		for _, p := range properties {
			if p.ID == storedID {
				return p, nil
			}
		}
	}

	// 저장된 선택이 없거나 무효: 기본 숙소 우선, 없으면 첫 숙소
	selected := properties[0]
	for _, p := range properties {
		if p.IsDefault {
			selected = p
			break
		}
	}

	if err := s.selectionStore.Save(ctx, userID, selected.ID); err != nil {
		return nil, fmt.Errorf("선택 숙소 저장에 실패했습니다: %w", err)
	}

	return selected, nil
}

// SetCurrent 는 선택 숙소를 명시적으로 변경해 저장한다.
// 소유하지 않은 숙소는 not found로 처리한다.
func (s *Selector) SetCurrent(ctx context.Context, userID, propertyID string) (*model.Property, error) {
	if userID == "" {
		return nil, model.NewAuthRequiredError()
	}

	property, err := s.propRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("숙소 조회에 실패했습니다: %w", err)
	}
	if property == nil || property.UserID != userID {
		return nil, model.NewPropertyNotFoundError(propertyID)
	}

	if err := s.selectionStore.Save(ctx, userID, propertyID); err != nil {
		return nil, fmt.Errorf("선택 숙소 저장에 실패했습니다: %w", err)
	}

	return property, nil
}

// ClearCurrent 는 사용자의 선택 숙소 기록을 삭제한다.
func (s *Selector) ClearCurrent(ctx context.Context, userID string) error {
	if userID == "" {
		return model.NewAuthRequiredError()
	}

	if err := s.selectionStore.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("선택 숙소 삭제에 실패했습니다: %w", err)
	}

	return nil
}
