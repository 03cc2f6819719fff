package model

import "time"

// NotificationChannel 은 알림 발송 채널을 나타낸다.
type NotificationChannel string

const (
	NotificationChannelSMS   NotificationChannel = "sms"
	NotificationChannelKakao NotificationChannel = "kakao"
	NotificationChannelEmail NotificationChannel = "email"
)

// NotificationType 은 알림의 종류를 나타낸다.
type NotificationType string

const (
	NotificationTypeCheckin       NotificationType = "checkin"
	NotificationTypeCheckout      NotificationType = "checkout"
	NotificationTypeReviewRequest NotificationType = "review_request"
	NotificationTypeFlashSale     NotificationType = "flash_sale"
)

// NotificationStatus 는 알림 발송 시도의 결과 상태를 나타낸다.
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// NotificationLog 는 알림 발송 시도 1건의 기록을 나타낸다.
type NotificationLog struct {
	ID            string
	UserID        string
	PropertyID    *string
	ReservationID *string
	Type          NotificationType
	Channel       NotificationChannel
	Recipient     string
	Status        NotificationStatus
	SentAt        *time.Time
	ErrorMessage  *string
	CreatedAt     time.Time
}

// NotificationSetting 은 사용자(선택적으로 숙소)별 알림 활성화 설정을 나타낸다.
// 타입별 on/off와 발송 채널 목록을 갖는다.
type NotificationSetting struct {
	ID                    string
	UserID                string
	PropertyID            *string
	CheckinEnabled        bool
	CheckoutEnabled       bool
	ReviewRequestEnabled  bool
	FlashSaleEnabled      bool
	CheckinChannels       []NotificationChannel
	CheckoutChannels      []NotificationChannel
	ReviewRequestChannels []NotificationChannel
	FlashSaleChannels     []NotificationChannel
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NotificationSettingPatch 는 알림 설정 부분 수정의 입력값을 나타낸다.
// nil 필드는 변경하지 않는다.
type NotificationSettingPatch struct {
	CheckinEnabled        *bool
	CheckoutEnabled       *bool
	ReviewRequestEnabled  *bool
	FlashSaleEnabled      *bool
	CheckinChannels       []NotificationChannel
	CheckoutChannels      []NotificationChannel
	ReviewRequestChannels []NotificationChannel
	FlashSaleChannels     []NotificationChannel
}
