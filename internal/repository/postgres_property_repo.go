package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minwoo/stayman/internal/model"
)

// PostgresPropertyRepo 는 PostgreSQL을 사용한 숙소 리포지토리.
type PostgresPropertyRepo struct {
	db *sql.DB
}

// NewPostgresPropertyRepo 는 PostgresPropertyRepo를 생성한다.
func NewPostgresPropertyRepo(db *sql.DB) *PostgresPropertyRepo {
	return &PostgresPropertyRepo{db: db}
}

func scanProperty(row interface{ Scan(...any) error }) (*model.Property, error) {
	p := &model.Property{}
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Address, &p.Phone, &p.Description,
		&p.IsDefault, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindByID 는 숙소 ID로 숙소를 검색한다. 없으면 nil을 반환한다.
func (r *PostgresPropertyRepo) FindByID(ctx context.Context, id string) (*model.Property, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, address, phone, description, is_default, created_at, updated_at
		 FROM properties
		 WHERE id = $1`,
		id,
	)
	p, err := scanProperty(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find property: %w", err)
	}
	return p, nil
}

// ListByUserID 는 사용자의 숙소 목록을 반환한다.
// 기본 숙소가 먼저, 이후 등록 순으로 정렬된다.
func (r *PostgresPropertyRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Property, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, address, phone, description, is_default, created_at, updated_at
		 FROM properties
		 WHERE user_id = $1
		 ORDER BY is_default DESC, created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	properties := []*model.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate properties: %w", err)
	}

	return properties, nil
}

// CountByUserID 는 사용자의 숙소 수를 반환한다.
func (r *PostgresPropertyRepo) CountByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM properties WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}
	return count, nil
}

// Create 는 숙소를 저장한다.
func (r *PostgresPropertyRepo) Create(ctx context.Context, property *model.Property) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO properties (id, user_id, name, address, phone, description, is_default, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		property.ID, property.UserID, property.Name, property.Address, property.Phone,
		property.Description, property.IsDefault, property.CreatedAt, property.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

// Update 는 숙소를 갱신한다.
func (r *PostgresPropertyRepo) Update(ctx context.Context, property *model.Property) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE properties
		 SET name = $1, address = $2, phone = $3, description = $4, is_default = $5, updated_at = $6
		 WHERE id = $7`,
		property.Name, property.Address, property.Phone, property.Description,
		property.IsDefault, property.UpdatedAt, property.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("property not found: %s", property.ID)
	}
	return nil
}

// Delete 는 숙소를 삭제한다.
func (r *PostgresPropertyRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("property not found: %s", id)
	}
	return nil
}

// SetDefault 는 지정한 숙소를 기본 숙소로 전환한다.
// 한 트랜잭션 안에서 기존 기본을 먼저 해제한 뒤 대상을 기본으로 지정한다.
// 부분 유니크 인덱스(idx_properties_one_default_per_user)는 행 단위로
// 검사되므로, 해제와 지정을 한 UPDATE 문으로 합치면 행 처리 순서에 따라
// 새 기본이 먼저 갱신될 때 기존 기본의 인덱스 엔트리와 충돌한다.
// 두 문장을 트랜잭션으로 묶으면 충돌 없이 원자성이 유지된다.
func (r *PostgresPropertyRepo) SetDefault(ctx context.Context, userID, propertyID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE properties
		 SET is_default = FALSE, updated_at = now()
		 WHERE user_id = $1 AND is_default`,
		userID,
	); err != nil {
		return fmt.Errorf("failed to clear default property: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE properties
		 SET is_default = TRUE, updated_at = now()
		 WHERE id = $2 AND user_id = $1`,
		userID, propertyID,
	)
	if err != nil {
		return fmt.Errorf("failed to set default property: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("property not found: %s", propertyID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// compile-time interface check
var _ PropertyRepository = (*PostgresPropertyRepo)(nil)
