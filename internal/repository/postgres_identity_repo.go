package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minwoo/stayman/internal/model"
)

// PostgresIdentityRepo 는 PostgreSQL을 사용한 identity 리포지토리.
type PostgresIdentityRepo struct {
	db *sql.DB
}

// NewPostgresIdentityRepo 는 PostgresIdentityRepo를 생성한다.
func NewPostgresIdentityRepo(db *sql.DB) *PostgresIdentityRepo {
	return &PostgresIdentityRepo{db: db}
}

// FindByProviderAndProviderUserID 는 provider와 provider_user_id로 identity를 검색한다.
// 없으면 nil을 반환한다.
func (r *PostgresIdentityRepo) FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Identity, error) {
	identity := &model.Identity{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, provider, provider_user_id, created_at
		 FROM identities
		 WHERE provider = $1 AND provider_user_id = $2`,
		provider, providerUserID,
	).Scan(&identity.ID, &identity.UserID, &identity.Provider, &identity.ProviderUserID, &identity.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}

	return identity, nil
}

// compile-time interface check
var _ IdentityRepository = (*PostgresIdentityRepo)(nil)
