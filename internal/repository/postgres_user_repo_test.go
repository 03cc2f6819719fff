package repository

import (
	"testing"
	"time"

	"github.com/minwoo/stayman/internal/model"
)

// PostgresUserRepo가 UserRepository 인터페이스를 만족하는지 검증
func TestPostgresUserRepo_ImplementsInterface(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
}

// PostgresIdentityRepo가 IdentityRepository 인터페이스를 만족하는지 검증
func TestPostgresIdentityRepo_ImplementsInterface(t *testing.T) {
	var _ IdentityRepository = (*PostgresIdentityRepo)(nil)
}

// PostgresSessionRepo가 SessionRepository 인터페이스를 만족하는지 검증
func TestPostgresSessionRepo_ImplementsInterface(t *testing.T) {
	var _ SessionRepository = (*PostgresSessionRepo)(nil)
}

// NewPostgresUserRepo가 올바르게 초기화되는지 검증
func TestNewPostgresUserRepo_Initializes(t *testing.T) {
	repo := NewPostgresUserRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresIdentityRepo가 올바르게 초기화되는지 검증
func TestNewPostgresIdentityRepo_Initializes(t *testing.T) {
	repo := NewPostgresIdentityRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresSessionRepo가 올바르게 초기화되는지 검증
func TestNewPostgresSessionRepo_Initializes(t *testing.T) {
	repo := NewPostgresSessionRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// CreateWithIdentity 입력에서 identity의 UserID가 user의 ID와 일치하는지 검증
func TestPostgresUserRepo_CreateWithIdentity_IdentityLinksUser(t *testing.T) {
	user := &model.User{
		ID:    "user-id-1",
		Email: "owner@example.com",
		Name:  "민우",
	}
	identity := &model.Identity{
		ID:             "identity-id-1",
		UserID:         "user-id-1",
		Provider:       "kakao",
		ProviderUserID: "kakao-123",
	}

	if identity.UserID != user.ID {
		t.Errorf("identity.UserID = %q, want %q", identity.UserID, user.ID)
	}
}

// 만료 시각이 과거인 세션은 만료로 취급되는지 검증
func TestPostgresSessionRepo_ExpiredSession_Concept(t *testing.T) {
	session := &model.Session{
		ID:        "expired-session",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(-1 * time.Hour),
	}

	if session.ExpiresAt.After(time.Now()) {
		t.Error("expected session to be expired")
	}
}
