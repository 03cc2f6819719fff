package repository

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisSelectionRepo 는 Redis를 사용한 현재 선택 숙소 저장소.
// 키는 current_property_<user_id> 형식이며 TTL 없이 유지된다.
type RedisSelectionRepo struct {
	client *redis.Client
}

// NewRedisSelectionRepo 는 RedisSelectionRepo를 생성한다.
func NewRedisSelectionRepo(client *redis.Client) *RedisSelectionRepo {
	return &RedisSelectionRepo{client: client}
}

func selectionKey(userID string) string {
	return "current_property_" + userID
}

// FindByUserID 는 사용자가 마지막으로 선택한 숙소 ID를 반환한다.
// 저장된 값이 없으면 빈 문자열을 반환한다.
func (r *RedisSelectionRepo) FindByUserID(ctx context.Context, userID string) (string, error) {
	value, err := r.client.Get(ctx, selectionKey(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get property selection: %w", err)
	}
	return value, nil
}

// Save 는 사용자의 선택 숙소 ID를 저장한다.
func (r *RedisSelectionRepo) Save(ctx context.Context, userID, propertyID string) error {
	if err := r.client.Set(ctx, selectionKey(userID), propertyID, 0).Err(); err != nil {
		return fmt.Errorf("failed to save property selection: %w", err)
	}
	return nil
}

// DeleteByUserID 는 사용자의 선택 숙소 기록을 삭제한다.
func (r *RedisSelectionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, selectionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete property selection: %w", err)
	}
	return nil
}

// compile-time interface check
var _ PropertySelectionStore = (*RedisSelectionRepo)(nil)
