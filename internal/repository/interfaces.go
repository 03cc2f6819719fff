// Package repository 는 데이터 영속화 인터페이스를 정의한다.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/minwoo/stayman/internal/model"
)

// UserRepository 는 사용자 데이터의 영속화 인터페이스.
type UserRepository interface {
	// FindByID 는 지정 ID의 사용자를 조회한다. 없으면 nil을 반환한다.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// CreateWithIdentity 는 사용자와 identity를 동일 트랜잭션에서 생성한다.
	CreateWithIdentity(ctx context.Context, user *model.User, identity *model.Identity) error

	// DeleteByID 는 지정 ID의 사용자를 삭제한다.
	// 연관된 identities, sessions, properties 등은 CASCADE 삭제된다.
	DeleteByID(ctx context.Context, id string) error
}

// IdentityRepository 는 외부 IdP 연결 정보의 영속화 인터페이스.
type IdentityRepository interface {
	// FindByProviderAndProviderUserID 는 provider와 provider_user_id로 identity를 검색한다.
	// 없으면 nil을 반환한다.
	FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Identity, error)
}

// SessionRepository 는 세션 데이터의 영속화 인터페이스.
type SessionRepository interface {
	// Create 는 세션을 생성한다.
	Create(ctx context.Context, session *model.Session) error
	// FindByID 는 지정 ID의 세션을 조회한다. 만료된 경우 nil을 반환한다.
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID 는 지정 ID의 세션을 삭제한다.
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID 는 지정 사용자의 전체 세션을 삭제한다.
	DeleteByUserID(ctx context.Context, userID string) error
}

// PropertyRepository 는 숙소 데이터의 영속화 인터페이스.
type PropertyRepository interface {
	// FindByID 는 지정 ID의 숙소를 조회한다. 없으면 nil을 반환한다.
	FindByID(ctx context.Context, id string) (*model.Property, error)

	// ListByUserID 는 사용자의 숙소 목록을 기본 숙소 우선, 그다음 생성일 오름차순으로 반환한다.
	ListByUserID(ctx context.Context, userID string) ([]*model.Property, error)

	// CountByUserID 는 사용자가 소유한 숙소 수를 반환한다.
	CountByUserID(ctx context.Context, userID string) (int, error)

	// Create 는 숙소를 생성한다.
	Create(ctx context.Context, property *model.Property) error

	// Update 는 숙소 정보를 갱신한다.
	Update(ctx context.Context, property *model.Property) error

	// Delete 는 지정 ID의 숙소를 삭제한다.
	Delete(ctx context.Context, id string) error

	// SetDefault 는 사용자의 기본 숙소를 전환한다.
	// 기존 기본의 해제와 새 기본의 지정이 하나의 원자적 단위로 실행되어
	// 기본 숙소가 0개 또는 2개인 상태가 외부에 관측되지 않는다.
	SetDefault(ctx context.Context, userID, propertyID string) error
}

// ReservationRepository 는 예약 데이터의 영속화 인터페이스.
type ReservationRepository interface {
	// FindByID 는 지정 ID의 예약을 조회한다. 없으면 nil을 반환한다.
	FindByID(ctx context.Context, id string) (*model.Reservation, error)

	// ListConfirmed 는 status가 confirmed인 예약을 체크인 날짜 오름차순으로 반환한다.
	// propertyID가 nil이 아니면 해당 숙소의 예약으로 한정한다.
	ListConfirmed(ctx context.Context, userID string, propertyID *string) ([]*model.Reservation, error)

	// Create 는 예약을 생성한다.
	Create(ctx context.Context, reservation *model.Reservation) error

	// Update 는 예약 정보를 갱신한다.
	Update(ctx context.Context, reservation *model.Reservation) error

	// Delete 는 지정 ID의 예약을 삭제한다.
	Delete(ctx context.Context, id string) error
}

// SubscriberRepository 는 구독자 데이터의 영속화 인터페이스.
type SubscriberRepository interface {
	// FindByID 는 지정 ID의 구독자를 조회한다. 없으면 nil을 반환한다.
	FindByID(ctx context.Context, id string) (*model.Subscriber, error)

	// ListByUserAndProperty 는 사용자+숙소 범위의 구독자를 최신순으로 반환한다.
	ListByUserAndProperty(ctx context.Context, userID, propertyID string) ([]*model.Subscriber, error)

	// Create 는 구독자를 생성한다.
	Create(ctx context.Context, subscriber *model.Subscriber) error

	// Update 는 구독자 정보를 갱신한다.
	Update(ctx context.Context, subscriber *model.Subscriber) error

	// Delete 는 지정 ID의 구독자를 삭제한다.
	Delete(ctx context.Context, id string) error

	// BulkInsert 는 구독자를 단일 배치 INSERT로 생성한다.
	// (property_id, phone) 중복 행은 ON CONFLICT DO NOTHING으로 건너뛰며,
	// 실제로 삽입된 행 수를 반환한다.
	BulkInsert(ctx context.Context, subscribers []*model.Subscriber) (int, error)
}

// PropertySelectionStore 는 사용자별 현재 선택 숙소의 키-값 저장 인터페이스.
// 키 형식은 current_property_<user_id>.
type PropertySelectionStore interface {
	// FindByUserID 는 저장된 숙소 ID를 반환한다. 없으면 빈 문자열을 반환한다.
	FindByUserID(ctx context.Context, userID string) (string, error)
	// Save 는 사용자의 선택 숙소 ID를 저장한다.
	Save(ctx context.Context, userID, propertyID string) error
	// DeleteByUserID 는 사용자의 선택 숙소 기록을 제거한다.
	DeleteByUserID(ctx context.Context, userID string) error
}

// NotificationLogRepository 는 알림 발송 기록의 영속화 인터페이스.
type NotificationLogRepository interface {
	// Create 는 발송 기록을 생성한다.
	Create(ctx context.Context, log *model.NotificationLog) error

	// ListByUserID 는 사용자의 발송 기록을 최신순으로 최대 limit건 반환한다.
	ListByUserID(ctx context.Context, userID string, limit int) ([]*model.NotificationLog, error)

	// DeleteOlderThan 은 기준 시각 이전의 발송 기록을 삭제하고 삭제 건수를 반환한다.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// NotificationSettingRepository 는 알림 설정의 영속화 인터페이스.
type NotificationSettingRepository interface {
	// FindByScope 는 사용자(+선택적 숙소) 범위의 설정을 조회한다. 없으면 nil을 반환한다.
	FindByScope(ctx context.Context, userID string, propertyID *string) (*model.NotificationSetting, error)

	// Create 는 설정을 생성한다.
	Create(ctx context.Context, setting *model.NotificationSetting) error

	// Update 는 설정을 갱신한다.
	Update(ctx context.Context, setting *model.NotificationSetting) error
}

// TxBeginner 는 트랜잭션 시작용 인터페이스.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}
