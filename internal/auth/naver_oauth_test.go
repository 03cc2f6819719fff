package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNaverOAuthProvider_GetLoginURL_ContainsRequiredParams(t *testing.T) {
	provider := NewNaverOAuthProvider(NaverOAuthConfig{
		ClientID:    "test-client-id",
		RedirectURL: "http://localhost:8080/auth/naver/callback",
	})

	url := provider.GetLoginURL("test-state-value")

	for _, want := range []string{
		"client_id=test-client-id",
		"state=test-state-value",
		"response_type=code",
	} {
		if !strings.Contains(url, want) {
			t.Errorf("URL should contain %q, got %q", want, url)
		}
	}
}

func TestNaverOAuthProvider_ExchangeCode_Success(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "test-access-token",
			"token_type":    "bearer",
			"expires_in":    "3600",
			"refresh_token": "test-refresh-token",
		})
	}))
	defer tokenServer.Close()

	userInfoServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader != "Bearer test-access-token" {
			t.Errorf("unexpected Authorization header: %q", authHeader)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"resultcode": "00",
			"message":    "success",
			"response": map[string]interface{}{
				"id":    "naver-id-987",
				"email": "host@naver.com",
				"name":  "민우",
			},
		})
	}))
	defer userInfoServer.Close()

	provider := NewNaverOAuthProvider(NaverOAuthConfig{
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		RedirectURL:  "http://localhost:8080/auth/naver/callback",
		TokenURL:     tokenServer.URL,
		UserInfoURL:  userInfoServer.URL,
	})

	userInfo, err := provider.ExchangeCode(context.Background(), "test-auth-code")
	if err != nil {
		t.Fatalf("ExchangeCode() error = %v", err)
	}

	if userInfo.Provider != "naver" {
		t.Errorf("provider = %q, want %q", userInfo.Provider, "naver")
	}
	if userInfo.ProviderUserID != "naver-id-987" {
		t.Errorf("providerUserID = %q, want %q", userInfo.ProviderUserID, "naver-id-987")
	}
	if userInfo.Email != "host@naver.com" {
		t.Errorf("email = %q, want %q", userInfo.Email, "host@naver.com")
	}
}

func TestNaverOAuthProvider_ExchangeCode_TokenError(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer tokenServer.Close()

	provider := NewNaverOAuthProvider(NaverOAuthConfig{
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		RedirectURL:  "http://localhost:8080/auth/naver/callback",
		TokenURL:     tokenServer.URL,
	})

	_, err := provider.ExchangeCode(context.Background(), "invalid-code")
	if err == nil {
		t.Fatal("expected error from ExchangeCode with invalid code")
	}
}
