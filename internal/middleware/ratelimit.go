package middleware

import (
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/minwoo/stayman/internal/model"
)

// RateLimiterConfig 는 레이트 리밋 미들웨어의 설정.
type RateLimiterConfig struct {
	// GeneralRate 는 일반 API에 대한 사용자당 초당 허용 요청 수.
	GeneralRate rate.Limit
	// GeneralBurst 는 일반 API의 버스트 허용량.
	GeneralBurst int
	// ImportRate 는 파일 가져오기 API에 대한 사용자당 초당 허용 요청 수.
	ImportRate rate.Limit
	// ImportBurst 는 파일 가져오기 API의 버스트 허용량.
	ImportBurst int
	// CleanupInterval 은 오래된 리미터를 정리하는 주기.
	CleanupInterval time.Duration
}

// DefaultRateLimiterConfig 는 기본 레이트 리밋 설정을 반환한다.
// 일반 API: 분당 120회, 파일 가져오기: 분당 10회.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(2), // 120/min
		GeneralBurst:    120,
		ImportRate:      rate.Limit(10.0 / 60.0), // 10/min
		ImportBurst:     10,
		CleanupInterval: 10 * time.Minute,
	}
}

// userLimiter 는 사용자별 리미터와 마지막 접근 시각을 보관한다.
type userLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter 는 사용자별 토큰 버킷 레이트 리밋을 제공한다.
// 일반 API와 비용이 큰 파일 가져오기 API의 리밋을 독립적으로 관리한다.
type RateLimiter struct {
	config          RateLimiterConfig
	mu              sync.RWMutex
	generalLimiters map[string]*userLimiter
	importLimiters  map[string]*userLimiter
	stopCh          chan struct{}
	stopOnce        sync.Once
}

// NewRateLimiter 는 RateLimiter를 생성하고 백그라운드 정리 루프를 시작한다.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:          config,
		generalLimiters: make(map[string]*userLimiter),
		importLimiters:  make(map[string]*userLimiter),
		stopCh:          make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Stop 은 정리 루프를 종료한다.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCh)
	})
}

// GeneralMiddleware 는 일반 API용 레이트 리밋 미들웨어를 반환한다.
// 세션 미들웨어 뒤에 배치해야 하며, 컨텍스트에 사용자 ID가 없으면 401을 반환한다.
func (rl *RateLimiter) GeneralMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := UserIDFromContext(r.Context())
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
				return
			}

			limiter := rl.getOrCreate(rl.generalLimiters, userID, rl.config.GeneralRate, rl.config.GeneralBurst)
			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.GeneralRate)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ImportMiddleware 는 파일 가져오기 API용 레이트 리밋 미들웨어를 반환한다.
// 스프레드시트 파싱은 비용이 크므로 일반 API보다 엄격하게 제한한다.
func (rl *RateLimiter) ImportMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := UserIDFromContext(r.Context())
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
				return
			}

			limiter := rl.getOrCreate(rl.importLimiters, userID, rl.config.ImportRate, rl.config.ImportBurst)
			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.ImportRate)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GeneralLimiterCount 는 일반 리미터의 수를 반환한다 (테스트용).
func (rl *RateLimiter) GeneralLimiterCount() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.generalLimiters)
}

// ImportLimiterCount 는 가져오기 리미터의 수를 반환한다 (테스트용).
func (rl *RateLimiter) ImportLimiterCount() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.importLimiters)
}

func (rl *RateLimiter) getOrCreate(limiters map[string]*userLimiter, userID string, r rate.Limit, burst int) *rate.Limiter {
	rl.mu.RLock()
	ul, ok := limiters[userID]
	rl.mu.RUnlock()
	if ok {
		rl.mu.Lock()
		ul.lastAccess = time.Now()
		rl.mu.Unlock()
		return ul.limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// 락을 다시 잡는 사이 다른 고루틴이 만들었을 수 있다
	if ul, ok := limiters[userID]; ok {
		ul.lastAccess = time.Now()
		return ul.limiter
	}

	ul = &userLimiter{
		limiter:    rate.NewLimiter(r, burst),
		lastAccess: time.Now(),
	}
	limiters[userID] = ul
	return ul.limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup 은 정리 주기의 2배 동안 접근이 없던 리미터를 제거한다.
func (rl *RateLimiter) cleanup() {
	ttl := 2 * rl.config.CleanupInterval
	cutoff := time.Now().Add(-ttl)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for userID, ul := range rl.generalLimiters {
		if ul.lastAccess.Before(cutoff) {
			delete(rl.generalLimiters, userID)
		}
	}
	for userID, ul := range rl.importLimiters {
		if ul.lastAccess.Before(cutoff) {
			delete(rl.importLimiters, userID)
		}
	}
}

// writeRateLimitResponse 는 Retry-After 헤더를 포함한 429 응답을 기록한다.
func writeRateLimitResponse(w http.ResponseWriter, r rate.Limit) {
	retryAfter := 1
	if r > 0 {
		retryAfter = int(math.Ceil(1 / float64(r)))
	}

	w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
	WriteErrorResponse(w, http.StatusTooManyRequests, &model.APIError{
		Code:     "RATE_LIMITED",
		Message:  "요청이 너무 많습니다.",
		Category: "rate_limit",
		Action:   "잠시 후 다시 시도해주세요.",
	})
}
