package model

import "time"

// Property 는 호스트가 관리하는 숙소 하나를 나타낸다.
// 사용자당 기본 숙소(IsDefault)는 최대 1개이며, DB의 부분 유니크 인덱스로 보장된다.
type Property struct {
	ID          string
	UserID      string
	Name        string
	Address     *string
	Phone       *string
	Description *string
	IsDefault   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PropertyInput 은 숙소 생성 시의 입력값을 나타낸다.
type PropertyInput struct {
	Name        string
	Address     *string
	Phone       *string
	Description *string
}

// PropertyPatch 는 숙소 부분 수정의 입력값을 나타낸다.
// nil 필드는 변경하지 않는다.
type PropertyPatch struct {
	Name        *string
	Address     *string
	Phone       *string
	Description *string
}
