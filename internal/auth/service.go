// Package auth 는 OAuth 인증 흐름과 세션 관리를 제공한다.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/minwoo/stayman/internal/model"
	"github.com/minwoo/stayman/internal/repository"
)

// OAuthUserInfo 는 OAuth 제공자에게서 받은 사용자 정보를 나타낸다.
type OAuthUserInfo struct {
	ProviderUserID string
	Email          string
	Name           string
	Provider       string // "kakao", "naver"
}

// OAuthProvider 는 OAuth 인증 제공자의 인터페이스.
type OAuthProvider interface {
	// GetLoginURL 은 OAuth 인증 URL을 생성한다.
	GetLoginURL(state string) string
	// ExchangeCode 는 인가 코드를 토큰으로 교환하고 사용자 정보를 가져온다.
	ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error)
}

// ServiceConfig 는 인증 서비스의 설정.
type ServiceConfig struct {
	SessionMaxAge int // 세션 유효 기간(초)
}

// Service 는 인증 비즈니스 로직을 제공한다.
// 카카오와 네이버 등 여러 제공자를 이름으로 구분해 다룬다.
type Service struct {
	providers   map[string]OAuthProvider
	userRepo    repository.UserRepository
	identRepo   repository.IdentityRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService 는 Service를 생성한다.
func NewService(
	providers map[string]OAuthProvider,
	userRepo repository.UserRepository,
	identRepo repository.IdentityRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		providers:   providers,
		userRepo:    userRepo,
		identRepo:   identRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// GetLoginURL 은 지정한 제공자의 OAuth 인증 URL을 생성한다.
func (s *Service) GetLoginURL(provider, state string) (string, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", fmt.Errorf("unknown oauth provider: %s", provider)
	}
	return p.GetLoginURL(state), nil
}

// HandleCallback 은 OAuth 콜백을 처리하고 세션을 발급한다.
// 미등록 사용자는 users 레코드와 identities 레코드를 한 트랜잭션으로 생성하고,
// 기존 사용자는 identities 테이블에서 찾아 로그인 처리한다.
func (s *Service) HandleCallback(ctx context.Context, provider, code string) (*model.Session, error) {
	p, ok := s.providers[provider]
	if !ok {
		return nil, fmt.Errorf("unknown oauth provider: %s", provider)
	}

	userInfo, err := p.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	identity, err := s.identRepo.FindByProviderAndProviderUserID(ctx, userInfo.Provider, userInfo.ProviderUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}

	var userID string

	if identity != nil {
		userID = identity.UserID
		slog.Info("existing user logged in",
			slog.String("user_id", userID),
			slog.String("provider", userInfo.Provider),
		)
	} else {
		newUserID := uuid.New().String()
		now := time.Now()

		newUser := &model.User{
			ID:        newUserID,
			Email:     userInfo.Email,
			Name:      userInfo.Name,
			CreatedAt: now,
			UpdatedAt: now,
		}

		newIdentity := &model.Identity{
			ID:             uuid.New().String(),
			UserID:         newUserID,
			Provider:       userInfo.Provider,
			ProviderUserID: userInfo.ProviderUserID,
			CreatedAt:      now,
		}

		if err := s.userRepo.CreateWithIdentity(ctx, newUser, newIdentity); err != nil {
			return nil, fmt.Errorf("failed to create user and identity: %w", err)
		}

		userID = newUserID
		slog.Info("new user created",
			slog.String("user_id", userID),
			slog.String("provider", userInfo.Provider),
		)
	}

	session, err := s.createSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// Logout 은 세션을 파기한다.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// GetCurrentUser 는 세션에서 현재 사용자를 조회한다.
func (s *Service) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session not found or expired")
	}
	if session.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("session not found or expired")
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	return user, nil
}

// createSession 은 세션을 생성하고 영속화한다.
func (s *Service) createSession(ctx context.Context, userID string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID 는 암호학적으로 안전한 세션 ID를 생성한다.
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
