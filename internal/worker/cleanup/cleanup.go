// Package cleanup 는 만료 데이터의 자동 삭제 잡을 제공한다.
// 만료된 세션과 보존 기간(기본 90일)을 넘긴 알림 발송 이력을
// 일일 배치로 삭제한다.
package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Executor 는 SQL의 ExecContext를 추상화하는 인터페이스.
// *sql.DB 나 *sql.Tx 를 받을 수 있다.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// CleanupJob 은 만료 세션과 오래된 알림 이력의 자동 삭제 잡.
// 일일 실행하는 배치 잡으로 설계되어 있으며 멱등한 삭제를 보장한다.
type CleanupJob struct {
	db               Executor
	logger           *slog.Logger
	LogRetentionDays int // 알림 이력의 보존 일수 (기본: 90)
}

// NewCleanupJob 은 새 CleanupJob을 생성한다.
// 기본 보존 일수는 90일.
func NewCleanupJob(db Executor, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		db:               db,
		logger:           logger,
		LogRetentionDays: 90,
	}
}

// Run 은 만료 세션과 보존 기간이 지난 알림 이력을 삭제한다.
// 멱등: 삭제 대상이 없어도 에러가 되지 않는다.
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	expiredSessions, err := j.deleteExpiredSessions(ctx)
	if err != nil {
		return err
	}

	oldLogs, err := j.deleteOldNotificationLogs(ctx)
	if err != nil {
		return err
	}

	duration := time.Since(start)
	j.logger.Info("정리 잡이 완료되었습니다",
		slog.Int64("expired_sessions", expiredSessions),
		slog.Int64("deleted_logs", oldLogs),
		slog.Int("log_retention_days", j.LogRetentionDays),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// deleteExpiredSessions 는 expires_at이 지난 세션을 삭제한다.
func (j *CleanupJob) deleteExpiredSessions(ctx context.Context) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at < now()`
	result, err := j.db.ExecContext(ctx, query)
	if err != nil {
		j.logger.Error("만료 세션 삭제에 실패했습니다",
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("만료 세션 삭제에 실패: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("삭제 건수 조회에 실패: %w", err)
	}
	return deleted, nil
}

// deleteOldNotificationLogs 는 created_at이 보존 기간(LogRetentionDays일)
// 이전인 알림 발송 이력을 삭제한다.
func (j *CleanupJob) deleteOldNotificationLogs(ctx context.Context) (int64, error) {
	interval := fmt.Sprintf("%d days", j.LogRetentionDays)

	query := `DELETE FROM notification_logs WHERE created_at < now() - $1::interval`
	result, err := j.db.ExecContext(ctx, query, interval)
	if err != nil {
		j.logger.Error("알림 이력 삭제에 실패했습니다",
			slog.String("error", err.Error()),
			slog.Int("log_retention_days", j.LogRetentionDays),
		)
		return 0, fmt.Errorf("알림 이력 삭제에 실패: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("삭제 건수 조회에 실패: %w", err)
	}
	return deleted, nil
}
