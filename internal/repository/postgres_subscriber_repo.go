package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/minwoo/stayman/internal/model"
)

// PostgresSubscriberRepo 는 PostgreSQL을 사용한 구독자 리포지토리.
type PostgresSubscriberRepo struct {
	db *sql.DB
}

// NewPostgresSubscriberRepo 는 PostgresSubscriberRepo를 생성한다.
func NewPostgresSubscriberRepo(db *sql.DB) *PostgresSubscriberRepo {
	return &PostgresSubscriberRepo{db: db}
}

func scanSubscriber(row interface{ Scan(...any) error }) (*model.Subscriber, error) {
	s := &model.Subscriber{}
	err := row.Scan(&s.ID, &s.UserID, &s.PropertyID, &s.Phone, &s.Name, &s.IsActive,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// FindByID 는 구독자 ID로 구독자를 검색한다. 없으면 nil을 반환한다.
func (r *PostgresSubscriberRepo) FindByID(ctx context.Context, id string) (*model.Subscriber, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, property_id, phone, name, is_active, created_at, updated_at
		 FROM subscribers
		 WHERE id = $1`,
		id,
	)
	s, err := scanSubscriber(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find subscriber: %w", err)
	}
	return s, nil
}

// ListByUserAndProperty 는 사용자와 숙소로 구독자 목록을 최신순으로 반환한다.
func (r *PostgresSubscriberRepo) ListByUserAndProperty(ctx context.Context, userID, propertyID string) ([]*model.Subscriber, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, property_id, phone, name, is_active, created_at, updated_at
		 FROM subscribers
		 WHERE user_id = $1 AND property_id = $2
		 ORDER BY created_at DESC`,
		userID, propertyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	subscribers := []*model.Subscriber{}
	for rows.Next() {
		s, err := scanSubscriber(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		subscribers = append(subscribers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscribers: %w", err)
	}

	return subscribers, nil
}

// Create 는 구독자를 저장한다.
func (r *PostgresSubscriberRepo) Create(ctx context.Context, subscriber *model.Subscriber) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subscribers (id, user_id, property_id, phone, name, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		subscriber.ID, subscriber.UserID, subscriber.PropertyID, subscriber.Phone,
		subscriber.Name, subscriber.IsActive, subscriber.CreatedAt, subscriber.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create subscriber: %w", err)
	}
	return nil
}

// Update 는 구독자를 갱신한다.
func (r *PostgresSubscriberRepo) Update(ctx context.Context, subscriber *model.Subscriber) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE subscribers
		 SET phone = $1, name = $2, is_active = $3, updated_at = $4
		 WHERE id = $5`,
		subscriber.Phone, subscriber.Name, subscriber.IsActive, subscriber.UpdatedAt, subscriber.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update subscriber: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("subscriber not found: %s", subscriber.ID)
	}
	return nil
}

// Delete 는 구독자를 삭제한다.
func (r *PostgresSubscriberRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM subscribers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subscriber: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("subscriber not found: %s", id)
	}
	return nil
}

// BulkInsert 는 여러 구독자를 한 문장으로 삽입하고 실제 삽입된 행 수를 반환한다.
// 같은 숙소에 이미 등록된 전화번호는 ON CONFLICT로 건너뛴다.
func (r *PostgresSubscriberRepo) BulkInsert(ctx context.Context, subscribers []*model.Subscriber) (int, error) {
	if len(subscribers) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO subscribers (id, user_id, property_id, phone, name, is_active, created_at, updated_at) VALUES `)
	args := make([]any, 0, len(subscribers)*8)
	for i, s := range subscribers {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 8
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8)
		args = append(args, s.ID, s.UserID, s.PropertyID, s.Phone, s.Name, s.IsActive, s.CreatedAt, s.UpdatedAt)
	}
	sb.WriteString(` ON CONFLICT (property_id, phone) DO NOTHING`)

	result, err := r.db.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk insert subscribers: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rowsAffected), nil
}

// compile-time interface check
var _ SubscriberRepository = (*PostgresSubscriberRepo)(nil)
