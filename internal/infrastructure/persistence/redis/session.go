package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/moraisLuismNet/recordstore/pkg/errors"
)

// SessionStore 会话存储
// 设计说明：
// 1. 用户按邮箱标识（与订单、购物车的隔离键一致）
// 2. JWT无状态，主动失效靠Token黑名单（登出、改密后强制下线）
// 3. Key设计：session:{email}、blacklist:{token}
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// SaveSession 保存登录会话（登录时间等信息，过期与Token一致）
func (s *SessionStore) SaveSession(ctx context.Context, email string, data map[string]interface{}, ttl time.Duration) error {
	key := fmt.Sprintf("session:%s", email)

	if err := s.client.HSet(ctx, key, data).Err(); err != nil {
		return apperrors.Wrap(err, "保存会话失败")
	}
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "设置会话过期时间失败")
	}
	return nil
}

// DeleteSession 删除登录会话（登出）
func (s *SessionStore) DeleteSession(ctx context.Context, email string) error {
	key := fmt.Sprintf("session:%s", email)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return apperrors.Wrap(err, "删除会话失败")
	}
	return nil
}

// AddToBlacklist 将Token加入黑名单（TTL与Token剩余有效期一致）
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	key := fmt.Sprintf("blacklist:%s", token)
	if err := s.client.Set(ctx, key, "revoked", ttl).Err(); err != nil {
		return apperrors.Wrap(err, "添加Token到黑名单失败")
	}
	return nil
}

// IsInBlacklist 检查Token是否已被主动失效
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	key := fmt.Sprintf("blacklist:%s", token)
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, apperrors.Wrap(err, "检查黑名单失败")
	}
	return exists > 0, nil
}
