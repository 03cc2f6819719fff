package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder 는 응답 상태 코드를 기록하기 위한 ResponseWriter 래퍼.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.written {
		r.statusCode = code
		r.written = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.written {
		r.statusCode = http.StatusOK
		r.written = true
	}
	return r.ResponseWriter.Write(b)
}

// NewLoggingMiddleware 는 요청 단위 구조화 로그를 남기는 미들웨어를 반환한다.
// 상태 코드가 500 이상이면 Error, 400 이상이면 Warn, 그 외에는 Info 레벨로 기록한다.
func NewLoggingMiddleware(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(recorder, r)

			duration := time.Since(start)

			level := slog.LevelInfo
			if recorder.statusCode >= 500 {
				level = slog.LevelError
			} else if recorder.statusCode >= 400 {
				level = slog.LevelWarn
			}

			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", recorder.statusCode),
				slog.Int64("duration_ms", duration.Milliseconds()),
			}
			if userID, err := UserIDFromContext(r.Context()); err == nil {
				attrs = append(attrs, slog.String("user_id", userID))
			}

			log.Log(r.Context(), level, "http_request", attrs...)
		})
	}
}
