package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/minwoo/stayman/internal/model"
)

// PostgresNotificationLogRepo 는 PostgreSQL을 사용한 알림 발송 이력 리포지토리.
type PostgresNotificationLogRepo struct {
	db *sql.DB
}

// NewPostgresNotificationLogRepo 는 PostgresNotificationLogRepo를 생성한다.
func NewPostgresNotificationLogRepo(db *sql.DB) *PostgresNotificationLogRepo {
	return &PostgresNotificationLogRepo{db: db}
}

// Create 는 알림 발송 이력을 저장한다.
func (r *PostgresNotificationLogRepo) Create(ctx context.Context, log *model.NotificationLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notification_logs (id, user_id, property_id, reservation_id, type, channel,
		                                recipient, status, sent_at, error_message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		log.ID, log.UserID, log.PropertyID, log.ReservationID, log.Type, log.Channel,
		log.Recipient, log.Status, log.SentAt, log.ErrorMessage, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification log: %w", err)
	}
	return nil
}

// ListByUserID 는 사용자의 알림 발송 이력을 최신순으로 최대 limit건 반환한다.
func (r *PostgresNotificationLogRepo) ListByUserID(ctx context.Context, userID string, limit int) ([]*model.NotificationLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, property_id, reservation_id, type, channel, recipient,
		        status, sent_at, error_message, created_at
		 FROM notification_logs
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notification logs: %w", err)
	}
	defer rows.Close()

	logs := []*model.NotificationLog{}
	for rows.Next() {
		l := &model.NotificationLog{}
		err := rows.Scan(&l.ID, &l.UserID, &l.PropertyID, &l.ReservationID, &l.Type, &l.Channel,
			&l.Recipient, &l.Status, &l.SentAt, &l.ErrorMessage, &l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notification logs: %w", err)
	}

	return logs, nil
}

// DeleteOlderThan 는 cutoff 이전의 이력을 삭제하고 삭제된 행 수를 반환한다.
func (r *PostgresNotificationLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM notification_logs WHERE created_at < $1`, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old notification logs: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// PostgresNotificationSettingRepo 는 PostgreSQL을 사용한 알림 설정 리포지토리.
type PostgresNotificationSettingRepo struct {
	db *sql.DB
}

// NewPostgresNotificationSettingRepo 는 PostgresNotificationSettingRepo를 생성한다.
func NewPostgresNotificationSettingRepo(db *sql.DB) *PostgresNotificationSettingRepo {
	return &PostgresNotificationSettingRepo{db: db}
}

func channelsToStrings(channels []model.NotificationChannel) pq.StringArray {
	out := make(pq.StringArray, len(channels))
	for i, c := range channels {
		out[i] = string(c)
	}
	return out
}

func stringsToChannels(values pq.StringArray) []model.NotificationChannel {
	out := make([]model.NotificationChannel, len(values))
	for i, v := range values {
		out[i] = model.NotificationChannel(v)
	}
	return out
}

// FindByScope 는 사용자와 숙소(없으면 사용자 전역) 범위의 알림 설정을 검색한다.
// 없으면 nil을 반환한다.
func (r *PostgresNotificationSettingRepo) FindByScope(ctx context.Context, userID string, propertyID *string) (*model.NotificationSetting, error) {
	query := `SELECT id, user_id, property_id, checkin_enabled, checkout_enabled,
	                 review_request_enabled, flash_sale_enabled,
	                 checkin_channels, checkout_channels, review_request_channels, flash_sale_channels,
	                 created_at, updated_at
	          FROM notification_settings
	          WHERE user_id = $1 AND `
	args := []any{userID}
	if propertyID == nil {
		query += `property_id IS NULL`
	} else {
		query += `property_id = $2`
		args = append(args, *propertyID)
	}

	s := &model.NotificationSetting{}
	var checkin, checkout, review, flashSale pq.StringArray
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&s.ID, &s.UserID, &s.PropertyID, &s.CheckinEnabled, &s.CheckoutEnabled,
		&s.ReviewRequestEnabled, &s.FlashSaleEnabled,
		&checkin, &checkout, &review, &flashSale,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find notification setting: %w", err)
	}

	s.CheckinChannels = stringsToChannels(checkin)
	s.CheckoutChannels = stringsToChannels(checkout)
	s.ReviewRequestChannels = stringsToChannels(review)
	s.FlashSaleChannels = stringsToChannels(flashSale)
	return s, nil
}

// Create 는 알림 설정을 저장한다.
func (r *PostgresNotificationSettingRepo) Create(ctx context.Context, setting *model.NotificationSetting) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notification_settings (id, user_id, property_id, checkin_enabled,
		                                    checkout_enabled, review_request_enabled, flash_sale_enabled,
		                                    checkin_channels, checkout_channels,
		                                    review_request_channels, flash_sale_channels,
		                                    created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		setting.ID, setting.UserID, setting.PropertyID, setting.CheckinEnabled,
		setting.CheckoutEnabled, setting.ReviewRequestEnabled, setting.FlashSaleEnabled,
		channelsToStrings(setting.CheckinChannels), channelsToStrings(setting.CheckoutChannels),
		channelsToStrings(setting.ReviewRequestChannels), channelsToStrings(setting.FlashSaleChannels),
		setting.CreatedAt, setting.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification setting: %w", err)
	}
	return nil
}

// Update 는 알림 설정을 갱신한다.
func (r *PostgresNotificationSettingRepo) Update(ctx context.Context, setting *model.NotificationSetting) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notification_settings
		 SET checkin_enabled = $1, checkout_enabled = $2, review_request_enabled = $3,
		     flash_sale_enabled = $4, checkin_channels = $5, checkout_channels = $6,
		     review_request_channels = $7, flash_sale_channels = $8, updated_at = $9
		 WHERE id = $10`,
		setting.CheckinEnabled, setting.CheckoutEnabled, setting.ReviewRequestEnabled,
		setting.FlashSaleEnabled,
		channelsToStrings(setting.CheckinChannels), channelsToStrings(setting.CheckoutChannels),
		channelsToStrings(setting.ReviewRequestChannels), channelsToStrings(setting.FlashSaleChannels),
		setting.UpdatedAt, setting.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update notification setting: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("notification setting not found: %s", setting.ID)
	}
	return nil
}

// compile-time interface checks
var (
	_ NotificationLogRepository     = (*PostgresNotificationLogRepo)(nil)
	_ NotificationSettingRepository = (*PostgresNotificationSettingRepo)(nil)
)
