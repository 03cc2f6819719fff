package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultNaverAuthURL     = "https://nid.naver.com/oauth2.0/authorize"
	defaultNaverTokenURL    = "https://nid.naver.com/oauth2.0/token"
	defaultNaverUserInfoURL = "https://openapi.naver.com/v1/nid/me"
)

// NaverOAuthConfig 는 네이버 OAuth 제공자의 설정.
type NaverOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// 테스트에서 교체 가능한 URL
	AuthURL     string
	TokenURL    string
	UserInfoURL string
}

// NaverOAuthProvider 는 네이버 OAuth 2.0 인증을 제공한다.
type NaverOAuthProvider struct {
	config NaverOAuthConfig
}

// NewNaverOAuthProvider 는 NaverOAuthProvider를 생성한다.
func NewNaverOAuthProvider(config NaverOAuthConfig) *NaverOAuthProvider {
	if config.AuthURL == "" {
		config.AuthURL = defaultNaverAuthURL
	}
	if config.TokenURL == "" {
		config.TokenURL = defaultNaverTokenURL
	}
	if config.UserInfoURL == "" {
		config.UserInfoURL = defaultNaverUserInfoURL
	}
	return &NaverOAuthProvider{config: config}
}

// GetLoginURL 은 네이버 OAuth 인증 URL을 생성한다.
func (p *NaverOAuthProvider) GetLoginURL(state string) string {
	params := url.Values{
		"client_id":     {p.config.ClientID},
		"redirect_uri":  {p.config.RedirectURL},
		"response_type": {"code"},
		"state":         {state},
	}
	return p.config.AuthURL + "?" + params.Encode()
}

// naverTokenResponse 는 네이버 토큰 엔드포인트의 응답.
type naverTokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    string `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// naverUserInfo 는 네이버 사용자 정보 엔드포인트의 응답.
type naverUserInfo struct {
	ResultCode string `json:"resultcode"`
	Message    string `json:"message"`
	Response   struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"response"`
}

// ExchangeCode 는 인가 코드를 액세스 토큰으로 교환하고 사용자 정보를 가져온다.
func (p *NaverOAuthProvider) ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error) {
	tokenResp, err := p.exchangeToken(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	userInfo, err := p.fetchUserInfo(ctx, tokenResp.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}

	return &OAuthUserInfo{
		ProviderUserID: userInfo.Response.ID,
		Email:          userInfo.Response.Email,
		Name:           userInfo.Response.Name,
		Provider:       "naver",
	}, nil
}

// exchangeToken 은 인가 코드를 액세스 토큰으로 교환한다.
func (p *NaverOAuthProvider) exchangeToken(ctx context.Context, code string) (*naverTokenResponse, error) {
	data := url.Values{
		"code":          {code},
		"client_id":     {p.config.ClientID},
		"client_secret": {p.config.ClientSecret},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token exchange failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp naverTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("empty access token in response")
	}

	return &tokenResp, nil
}

// fetchUserInfo 는 액세스 토큰으로 네이버 사용자 정보를 가져온다.
func (p *NaverOAuthProvider) fetchUserInfo(ctx context.Context, accessToken string) (*naverUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user info request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user info request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read user info response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info fetch failed with status %d: %s", resp.StatusCode, string(body))
	}

	var userInfo naverUserInfo
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, fmt.Errorf("failed to parse user info response: %w", err)
	}

	if userInfo.Response.ID == "" {
		return nil, fmt.Errorf("empty id in user info response")
	}

	return &userInfo, nil
}

// compile-time interface check
var _ OAuthProvider = (*NaverOAuthProvider)(nil)
