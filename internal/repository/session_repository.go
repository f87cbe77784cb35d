package repository

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	sessionKeyPrefix     = "session:"
	otpCooldownKeyPrefix = "otp_cooldown:"
)

// SessionStore 服务端会话存储，登出时删除即失效
type SessionStore struct {
	Redis *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{Redis: rdb}
}

func (s *SessionStore) Save(ctx context.Context, sessionID, principalID string, ttl time.Duration) error {
	return s.Redis.Set(ctx, sessionKeyPrefix+sessionID, principalID, ttl).Err()
}

// Lookup returns the principal bound to sessionID, or "" when the session
// does not exist.
func (s *SessionStore) Lookup(ctx context.Context, sessionID string) (string, error) {
	val, err := s.Redis.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.Redis.Del(ctx, sessionKeyPrefix+sessionID).Err()
}

// AcquireOTPCooldown returns false when an OTP was sent to phone within ttl.
func (s *SessionStore) AcquireOTPCooldown(ctx context.Context, phone string, ttl time.Duration) (bool, error) {
	return s.Redis.SetNX(ctx, otpCooldownKeyPrefix+phone, 1, ttl).Result()
}
