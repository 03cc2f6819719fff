// Package model 은 도메인 모델을 정의한다.
package model

import "time"

// User 는 서비스를 이용하는 호스트 사용자를 나타낸다.
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity 는 외부 IdP(카카오, 네이버)와의 연결 정보를 나타낸다.
// 한 사용자가 복수의 IdP를 연결할 수 있는 구조.
type Identity struct {
	ID             string
	UserID         string
	Provider       string
	ProviderUserID string
	CreatedAt      time.Time
}

// Session 은 사용자의 로그인 세션을 나타낸다.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
