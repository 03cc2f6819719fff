package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config 는 애플리케이션 전체 설정을 보관한다.
// 환경변수에서 기동 시 1회 읽어들이며 이뮤터블로 취급한다.
type Config struct {
	// Database
	DatabaseURL string

	// Redis (현재 선택 숙소 캐시)
	RedisURL string

	// OAuth
	KakaoClientID     string
	KakaoClientSecret string
	KakaoRedirectURL  string
	NaverClientID     string
	NaverClientSecret string
	NaverRedirectURL  string

	// Session
	SessionSecret string
	SessionMaxAge int

	// Booking
	MaxProperties int
	Timezone      string
	Location      *time.Location

	// Import
	ImportMaxFileSize int64

	// Rate Limit
	RateLimitGeneral int
	RateLimitImport  int

	// Logging
	LogRetentionDays int

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// Load 는 환경변수에서 Config를 읽어들인다.
// 필수 환경변수가 없으면 에러를 반환한다.
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.KakaoClientID = os.Getenv("KAKAO_CLIENT_ID")
	if cfg.KakaoClientID == "" {
		missing = append(missing, "KAKAO_CLIENT_ID")
	}

	cfg.KakaoClientSecret = os.Getenv("KAKAO_CLIENT_SECRET")
	if cfg.KakaoClientSecret == "" {
		missing = append(missing, "KAKAO_CLIENT_SECRET")
	}

	cfg.KakaoRedirectURL = os.Getenv("KAKAO_REDIRECT_URL")
	if cfg.KakaoRedirectURL == "" {
		missing = append(missing, "KAKAO_REDIRECT_URL")
	}

	cfg.NaverClientID = os.Getenv("NAVER_CLIENT_ID")
	if cfg.NaverClientID == "" {
		missing = append(missing, "NAVER_CLIENT_ID")
	}

	cfg.NaverClientSecret = os.Getenv("NAVER_CLIENT_SECRET")
	if cfg.NaverClientSecret == "" {
		missing = append(missing, "NAVER_CLIENT_SECRET")
	}

	cfg.NaverRedirectURL = os.Getenv("NAVER_REDIRECT_URL")
	if cfg.NaverRedirectURL == "" {
		missing = append(missing, "NAVER_REDIRECT_URL")
	}

	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	if cfg.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.RedisURL = getEnvString("REDIS_URL", "localhost:6379")
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400)
	cfg.MaxProperties = getEnvInt("MAX_PROPERTIES", 5)
	cfg.Timezone = getEnvString("TIMEZONE", "Asia/Seoul")
	cfg.ImportMaxFileSize = getEnvInt64("IMPORT_MAX_FILE_SIZE", 5242880)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitImport = getEnvInt("RATE_LIMIT_IMPORT", 10)
	cfg.LogRetentionDays = getEnvInt("LOG_RETENTION_DAYS", 90)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}
