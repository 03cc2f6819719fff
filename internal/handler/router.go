package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/minwoo/stayman/internal/metrics"
	"github.com/minwoo/stayman/internal/middleware"
)

// RouterDeps 는 NewRouter에 필요한 의존성을 모은 구조체.
type RouterDeps struct {
	// 미들웨어 의존
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig

	// 인증
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 숙소
	PropertyService  PropertyServiceInterface
	PropertySelector PropertySelectorInterface

	// 예약
	ReservationService ReservationServiceInterface

	// 구독자·가져오기
	SubscriberService SubscriberServiceInterface
	PhoneExtractor    PhoneExtractor
	ImportMaxFileSize int64

	// 알림
	NotificationService NotificationServiceInterface

	// 관측
	Metrics         metrics.MetricsCollector
	MetricsGatherer prometheus.Gatherer
}

// NewRouter 는 전체 API 엔드포인트의 라우팅과 미들웨어 체인을 구성한 chi.Router를 반환한다.
//
// 미들웨어 스택의 실행 순서:
//
//	CORS → SecurityHeaders → Recovery → CSRF → Session → RateLimit(General)
//
// 인증 라우트(/auth/*)와 /health, /metrics 는 인증 체인 밖에 배치한다.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 전 라우트 공통 미들웨어
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	propertyHandler := NewPropertyHandler(deps.PropertyService, deps.PropertySelector)
	reservationHandler := NewReservationHandler(deps.ReservationService, deps.Metrics)
	subscriberHandler := NewSubscriberHandler(deps.SubscriberService, deps.PhoneExtractor, deps.Metrics, deps.ImportMaxFileSize)
	notificationHandler := NewNotificationHandler(deps.NotificationService, deps.Metrics)

	// --- 인증이 필요 없는 라우트 ---

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	// 인증 라우트 (OAuth 플로우)
	r.Route("/auth", func(r chi.Router) {
		r.Get("/{provider}/login", authHandler.Login)
		r.Get("/{provider}/callback", authHandler.Callback)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// --- 인증이 필요한 라우트 ---
	// 미들웨어 스택: CSRF → Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 숙소 관리
		r.Route("/api/properties", func(r chi.Router) {
			r.Get("/", propertyHandler.ListProperties)
			r.Post("/", propertyHandler.CreateProperty)

			// 현재 선택 숙소 ({id} 라우트보다 먼저 등록)
			r.Get("/current", propertyHandler.GetCurrentProperty)
			r.Put("/current", propertyHandler.SetCurrentProperty)
			r.Delete("/current", propertyHandler.ClearCurrentProperty)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", propertyHandler.GetProperty)
				r.Patch("/", propertyHandler.UpdateProperty)
				r.Delete("/", propertyHandler.DeleteProperty)
				r.Put("/default", propertyHandler.SetDefaultProperty)
			})
		})

		// 예약 관리
		r.Route("/api/reservations", func(r chi.Router) {
			r.Get("/", reservationHandler.ListReservations)
			r.Post("/", reservationHandler.CreateReservation)

			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", reservationHandler.UpdateReservation)
				r.Post("/cancel", reservationHandler.CancelReservation)
				r.Delete("/", reservationHandler.DeleteReservation)
			})
		})

		// 구독자 관리
		r.Route("/api/subscribers", func(r chi.Router) {
			r.Get("/", subscriberHandler.ListSubscribers)
			r.Post("/", subscriberHandler.CreateSubscriber)

			// POST /api/subscribers/import - 파일 가져오기 (전용 레이트 리밋)
			r.With(deps.RateLimiter.ImportMiddleware()).Post("/import", subscriberHandler.ImportSubscribers)

			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", subscriberHandler.UpdateSubscriber)
				r.Delete("/", subscriberHandler.DeleteSubscriber)
			})
		})

		// 알림 설정·이력
		r.Route("/api/notifications", func(r chi.Router) {
			r.Get("/settings", notificationHandler.GetSettings)
			r.Put("/settings", notificationHandler.UpdateSettings)
			r.Get("/logs", notificationHandler.ListLogs)
			r.Post("/flash-sale", notificationHandler.BroadcastFlashSale)
		})
	})

	return r
}
