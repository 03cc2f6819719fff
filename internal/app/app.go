package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/minwoo/stayman/internal/auth"
	"github.com/minwoo/stayman/internal/config"
	"github.com/minwoo/stayman/internal/database"
	"github.com/minwoo/stayman/internal/handler"
	"github.com/minwoo/stayman/internal/logger"
	"github.com/minwoo/stayman/internal/metrics"
	"github.com/minwoo/stayman/internal/middleware"
	"github.com/minwoo/stayman/internal/notification"
	"github.com/minwoo/stayman/internal/property"
	"github.com/minwoo/stayman/internal/repository"
	"github.com/minwoo/stayman/internal/reservation"
	"github.com/minwoo/stayman/internal/security"
	"github.com/minwoo/stayman/internal/subscriber"
	"github.com/minwoo/stayman/internal/worker/cleanup"
)

// Init 은 애플리케이션의 초기화를 수행한다.
// .env 파일이 있으면 읽어들인 뒤 환경변수에서 Config를 로드하고
// JSON 구조화 로그를 셋업한다.
// writer가 지정된 경우 로그 출력처로 그 writer를 사용한다.
func Init(w io.Writer) (*config.Config, error) {
	// .env는 로컬 개발용. 없으면 무시한다.
	_ = godotenv.Load()

	// 설정 로드 전부터 로그를 쓸 수 있도록 먼저 초기화한다.
	logger.SetupDefault(w)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run 은 애플리케이션의 메인 엔트리포인트.
// 커맨드라인 인수에서 서브커맨드를 해석해 해당 모드로 기동한다.
// args에는 os.Args[1:]을 전달한다.
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck 는 경량 서브커맨드이므로 전체 초기화를 생략한다
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe 는 API 서버 모드로 기동한다.
// DB와 Redis 접속을 열고 전체 의존 관계를 와이어링한 뒤 HTTP 서버를 시작한다.
// SIGINT 또는 SIGTERM 시그널을 받으면 그레이스풀 셧다운을 수행한다.
func runServe(cfg *config.Config) error {
	// 1. DB 접속
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. Redis 접속 (현재 선택 숙소 캐시)
	redisClient, err := database.OpenRedis(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()

	slog.Info("redis connection established")

	// 3. 리포지토리 초기화
	userRepo := repository.NewPostgresUserRepo(db)
	identRepo := repository.NewPostgresIdentityRepo(db)
	sessionRepo := repository.NewPostgresSessionRepo(db)
	propRepo := repository.NewPostgresPropertyRepo(db)
	rsvRepo := repository.NewPostgresReservationRepo(db)
	subRepo := repository.NewPostgresSubscriberRepo(db)
	settingRepo := repository.NewPostgresNotificationSettingRepo(db)
	logRepo := repository.NewPostgresNotificationLogRepo(db)
	selectionStore := repository.NewRedisSelectionRepo(redisClient)

	// 4. 보안 서비스 초기화
	sanitizer := security.NewTextSanitizer()

	// 5. 도메인 서비스 초기화
	providers := map[string]auth.OAuthProvider{
		"kakao": auth.NewKakaoOAuthProvider(auth.KakaoOAuthConfig{
			ClientID:     cfg.KakaoClientID,
			ClientSecret: cfg.KakaoClientSecret,
			RedirectURL:  cfg.KakaoRedirectURL,
		}),
		"naver": auth.NewNaverOAuthProvider(auth.NaverOAuthConfig{
			ClientID:     cfg.NaverClientID,
			ClientSecret: cfg.NaverClientSecret,
			RedirectURL:  cfg.NaverRedirectURL,
		}),
	}
	authService := auth.NewService(
		providers, userRepo, identRepo, sessionRepo,
		auth.ServiceConfig{SessionMaxAge: cfg.SessionMaxAge},
	)

	propService := property.NewService(propRepo, sanitizer,
		property.ServiceConfig{MaxProperties: cfg.MaxProperties})
	propSelector := property.NewSelector(propRepo, selectionStore)

	rsvService := reservation.NewService(rsvRepo, propRepo, sanitizer,
		reservation.ServiceConfig{Location: cfg.Location})

	subService := subscriber.NewService(subRepo, propRepo, sanitizer)

	notifService := notification.NewService(
		settingRepo, logRepo, subRepo, notification.NewStubSender(),
	)

	// 6. 메트릭 초기화
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 7. 레이트 리미터 초기화
	// config의 RateLimit 값은 req/min 단위이므로 req/sec으로 변환한다
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	rateLimiterCfg.ImportRate = rate.Limit(float64(cfg.RateLimitImport) / 60.0)
	rateLimiterCfg.ImportBurst = cfg.RateLimitImport

	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	// 8. 라우터 구성
	deps := &handler.RouterDeps{
		SessionFinder:     sessionRepo,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		CSRFConfig: middleware.CSRFConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		},

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			BaseURL:       cfg.BaseURL,
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},

		PropertyService:  propService,
		PropertySelector: propSelector,

		ReservationService: rsvService,

		SubscriberService: subService,
		PhoneExtractor:    &handler.SpreadsheetExtractor{},
		ImportMaxFileSize: cfg.ImportMaxFileSize,

		NotificationService: notifService,

		Metrics:         collector,
		MetricsGatherer: registry,
	}

	router := handler.NewRouter(deps)

	// 9. HTTP 서버 기동
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 그레이스풀 셧다운을 위한 시그널 핸들링
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker 는 워커 모드로 기동한다.
// DB 접속을 열고 만료 세션과 오래된 알림 이력을 삭제하는
// 정리 잡을 일일 주기로 실행한다.
// SIGINT 또는 SIGTERM 시그널을 받으면 셧다운한다.
func runWorker(cfg *config.Config) error {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established (worker)")

	cleanupJob := cleanup.NewCleanupJob(db, slog.Default())
	cleanupJob.LogRetentionDays = cfg.LogRetentionDays

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Info("shutting down worker...")
		cancel()
	}()

	slog.Info("worker starting",
		slog.Int("log_retention_days", cfg.LogRetentionDays),
	)

	// 기동 직후 1회 실행
	if err := cleanupJob.Run(ctx); err != nil {
		slog.Error("cleanup job failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped gracefully")
			return nil
		case <-ticker.C:
			if err := cleanupJob.Run(ctx); err != nil {
				slog.Error("cleanup job failed", slog.String("error", err.Error()))
			}
		}
	}
}

// runMigrate 는 데이터베이스 마이그레이션을 실행한다.
// 미적용 마이그레이션을 모두 순서대로 적용한다.
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck 는 헬스체크를 실행한다.
// distroless 환경의 Docker 헬스체크용 서브커맨드.
// /health 엔드포인트에 HTTP 요청을 보내 결과를 반환한다.
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL 은 데이터베이스 URL의 인증 정보를 마스킹한다.
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
