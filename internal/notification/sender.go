// Package notification 은 알림 설정, 발송 이력, 빈방 알림 브로드캐스트를 제공한다.
//
// 실제 발송(SMS, 카카오 알림톡 등)은 외부 연동이 아직 없어
// Sender 인터페이스 뒤의 스텁으로 격리되어 있다. 스텁은 항상 실패를
// 반환하고, 호출 측은 실패를 이력으로 남긴다. 연동이 준비되면
// Sender 구현만 교체하면 된다.
package notification

import (
	"context"

	"github.com/minwoo/stayman/internal/model"
)

// Sender 는 알림 1건 발송의 인터페이스.
type Sender interface {
	// Send 는 지정한 채널로 수신자에게 메시지를 발송한다.
	Send(ctx context.Context, channel model.NotificationChannel, recipient, message string) error
}

// StubSender 는 외부 연동 전까지 사용하는 발송 스텁.
// 모든 호출에 NOTIFICATION_NOT_IMPLEMENTED 에러를 반환한다.
type StubSender struct{}

// NewStubSender 는 StubSender를 생성한다.
func NewStubSender() *StubSender {
	return &StubSender{}
}

// Send 는 항상 미구현 에러를 반환한다.
func (s *StubSender) Send(_ context.Context, _ model.NotificationChannel, _, _ string) error {
	return model.NewNotificationStubError()
}

// compile-time interface check
var _ Sender = (*StubSender)(nil)
