package model

import "time"

// Subscriber 는 빈방 알림을 수신하는 전화번호 연락처를 나타낸다.
// 숙소 단위로 관리되며 (property_id, phone) 조합은 유일하다.
type Subscriber struct {
	ID         string
	UserID     string
	PropertyID string
	Phone      string
	Name       *string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SubscriberInput 은 구독자 개별 등록 시의 입력값을 나타낸다.
type SubscriberInput struct {
	Phone string
	Name  *string
}

// SubscriberPatch 는 구독자 부분 수정의 입력값을 나타낸다.
// nil 필드는 변경하지 않는다.
type SubscriberPatch struct {
	Phone    *string
	Name     *string
	IsActive *bool
}
