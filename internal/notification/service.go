package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/minwoo/stayman/internal/model"
	"github.com/minwoo/stayman/internal/repository"
)

// BroadcastResult 는 빈방 알림 브로드캐스트 1회의 결과.
type BroadcastResult struct {
	Attempted int // 발송을 시도한 구독자 수
	Sent      int // 발송에 성공한 건수
	Failed    int // 발송에 실패한 건수
}

// Service 는 알림 설정 관리, 발송 이력 조회, 브로드캐스트를 제공한다.
type Service struct {
	settingRepo repository.NotificationSettingRepository
	logRepo     repository.NotificationLogRepository
	subRepo     repository.SubscriberRepository
	sender      Sender
}

// NewService 는 Service의 새 인스턴스를 생성한다.
func NewService(
	settingRepo repository.NotificationSettingRepository,
	logRepo repository.NotificationLogRepository,
	subRepo repository.SubscriberRepository,
	sender Sender,
) *Service {
	return &Service{
		settingRepo: settingRepo,
		logRepo:     logRepo,
		subRepo:     subRepo,
		sender:      sender,
	}
}

// defaultSetting 은 저장된 설정이 없을 때 적용되는 기본값.
func defaultSetting(userID string, propertyID *string) *model.NotificationSetting {
	now := time.Now()
	return &model.NotificationSetting{
		ID:                    uuid.New().String(),
		UserID:                userID,
		PropertyID:            propertyID,
		CheckinEnabled:        true,
		CheckoutEnabled:       true,
		ReviewRequestEnabled:  false,
		FlashSaleEnabled:      true,
		CheckinChannels:       []model.NotificationChannel{model.NotificationChannelSMS},
		CheckoutChannels:      []model.NotificationChannel{model.NotificationChannelSMS},
		ReviewRequestChannels: []model.NotificationChannel{model.NotificationChannelSMS},
		FlashSaleChannels:     []model.NotificationChannel{model.NotificationChannelSMS},
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// GetSettings 는 사용자(선택적으로 숙소) 범위의 알림 설정을 반환한다.
// 저장된 설정이 없으면 기본값을 반환하며, 이때 DB에는 저장하지 않는다.
func (s *Service) GetSettings(ctx context.Context, userID string, propertyID *string) (*model.NotificationSetting, error) {
	if userID == "" {
		return nil, model.NewAuthRequiredError()
	}

	setting, err := s.settingRepo.FindByScope(ctx, userID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("알림 설정 조회에 실패했습니다: %w", err)
	}
	if setting == nil {
		return defaultSetting(userID, propertyID), nil
	}

	return setting, nil
}

// UpdateSettings 는 알림 설정을 부분 수정한다. nil 필드는 변경하지 않는다.
// 저장된 설정이 없으면 기본값에 패치를 적용해 새로 저장한다.
func (s *Service) UpdateSettings(ctx context.Context, userID string, propertyID *string, patch model.NotificationSettingPatch) (*model.NotificationSetting, error) {
	if userID == "" {
		return nil, model.NewAuthRequiredError()
	}

	setting, err := s.settingRepo.FindByScope(ctx, userID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("알림 설정 조회에 실패했습니다: %w", err)
	}

	isNew := setting == nil
	if isNew {
		setting = defaultSetting(userID, propertyID)
	}

	if patch.CheckinEnabled != nil {
		setting.CheckinEnabled = *patch.CheckinEnabled
	}
	if patch.CheckoutEnabled != nil {
		setting.CheckoutEnabled = *patch.CheckoutEnabled
	}
	if patch.ReviewRequestEnabled != nil {
		setting.ReviewRequestEnabled = *patch.ReviewRequestEnabled
	}
	if patch.FlashSaleEnabled != nil {
		setting.FlashSaleEnabled = *patch.FlashSaleEnabled
	}
	if patch.CheckinChannels != nil {
		setting.CheckinChannels = patch.CheckinChannels
	}
	if patch.CheckoutChannels != nil {
		setting.CheckoutChannels = patch.CheckoutChannels
	}
	if patch.ReviewRequestChannels != nil {
		setting.ReviewRequestChannels = patch.ReviewRequestChannels
	}
	if patch.FlashSaleChannels != nil {
		setting.FlashSaleChannels = patch.FlashSaleChannels
	}
	setting.UpdatedAt = time.Now()

	if isNew {
		if err := s.settingRepo.Create(ctx, setting); err != nil {
			return nil, fmt.Errorf("알림 설정 저장에 실패했습니다: %w", err)
		}
	} else {
		if err := s.settingRepo.Update(ctx, setting); err != nil {
			return nil, fmt.Errorf("알림 설정 수정에 실패했습니다: %w", err)
		}
	}

	return setting, nil
}

// ListLogs 는 사용자의 알림 발송 이력을 최신순으로 반환한다.
func (s *Service) ListLogs(ctx context.Context, userID string, limit int) ([]*model.NotificationLog, error) {
	if userID == "" {
		return nil, model.NewAuthRequiredError()
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	logs, err := s.logRepo.ListByUserID(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("알림 이력 조회에 실패했습니다: %w", err)
	}

	return logs, nil
}

// BroadcastFlashSale 은 현재 숙소의 활성 구독자 전원에게 빈방 알림을 발송한다.
// 발송 시도 1건마다 이력을 남기며, 발송 스텁이 실패해도 브로드캐스트
// 자체는 계속 진행한다.
func (s *Service) BroadcastFlashSale(ctx context.Context, userID, propertyID, message string) (*BroadcastResult, error) {
	if userID == "" || propertyID == "" {
		return nil, model.NewPropertyRequiredError()
	}
	if message == "" {
		return nil, model.NewMissingFieldsError("message")
	}

	setting, err := s.GetSettings(ctx, userID, &propertyID)
	if err != nil {
		return nil, err
	}
	if !setting.FlashSaleEnabled {
		return &BroadcastResult{}, nil
	}

	subscribers, err := s.subRepo.ListByUserAndProperty(ctx, userID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("구독자 목록 조회에 실패했습니다: %w", err)
	}

	channel := model.NotificationChannelSMS
	if len(setting.FlashSaleChannels) > 0 {
		channel = setting.FlashSaleChannels[0]
	}

	result := &BroadcastResult{}
	for _, sub := range subscribers {
		if !sub.IsActive {
			continue
		}
		result.Attempted++

		sendErr := s.sender.Send(ctx, channel, sub.Phone, message)

		log := &model.NotificationLog{
			ID:         uuid.New().String(),
			UserID:     userID,
			PropertyID: &propertyID,
			Type:       model.NotificationTypeFlashSale,
			Channel:    channel,
			Recipient:  sub.Phone,
			CreatedAt:  time.Now(),
		}
		if sendErr != nil {
			result.Failed++
			log.Status = model.NotificationStatusFailed
			errMsg := sendErr.Error()
			log.ErrorMessage = &errMsg
		} else {
			result.Sent++
			log.Status = model.NotificationStatusSent
			sentAt := time.Now()
			log.SentAt = &sentAt
		}

		if err := s.logRepo.Create(ctx, log); err != nil {
			slog.Warn("failed to record notification log",
				slog.String("user_id", userID),
				slog.String("recipient", sub.Phone),
				slog.String("error", err.Error()),
			)
		}
	}

	slog.Info("flash sale broadcast finished",
		slog.String("user_id", userID),
		slog.String("property_id", propertyID),
		slog.Int("attempted", result.Attempted),
		slog.Int("failed", result.Failed),
	)

	return result, nil
}
