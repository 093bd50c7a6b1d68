package repository

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hsh-clinic/clinic-backend/internal/config"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

// CacheRepository provides the Redis-backed short-lived state: password
// reset codes, super-admin session window mirrors and the audit channel.
type CacheRepository struct {
	rdb *redis.Client
}

// NewCacheRepository creates a new CacheRepository.
func NewCacheRepository(rdb *redis.Client) *CacheRepository {
	return &CacheRepository{rdb: rdb}
}

// MaxOTPAttempts is how many wrong guesses burn a reset code.
const MaxOTPAttempts = 5

// SaveOTP stores a password reset code for an email, replacing any earlier
// one and its miss counter.
func (r *CacheRepository) SaveOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, config.CacheKey.StudentOTPKey(email), code, ttl)
	pipe.Del(ctx, config.CacheKey.StudentOTPAttemptsKey(email))
	_, err := pipe.Exec(ctx)
	return err
}

// ConsumeOTP reports whether code matches the stored one and deletes it on a
// match. After MaxOTPAttempts misses the stored code is deleted as well.
func (r *CacheRepository) ConsumeOTP(ctx context.Context, email, code string) (bool, error) {
	key := config.CacheKey.StudentOTPKey(email)
	attemptsKey := config.CacheKey.StudentOTPAttemptsKey(email)

	pipe := r.rdb.Pipeline()
	getCmd := pipe.Get(ctx, key)
	ttlCmd := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("get otp: %w", err)
	}
	stored, err := getCmd.Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get otp: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) == 1 {
		if err := r.rdb.Del(ctx, key, attemptsKey).Err(); err != nil {
			return false, fmt.Errorf("delete otp: %w", err)
		}
		return true, nil
	}

	misses, err := r.rdb.Incr(ctx, attemptsKey).Result()
	if err != nil {
		return false, fmt.Errorf("count otp miss: %w", err)
	}
	if misses >= MaxOTPAttempts {
		if err := r.rdb.Del(ctx, key, attemptsKey).Err(); err != nil {
			return false, fmt.Errorf("burn otp: %w", err)
		}
		return false, nil
	}
	if misses == 1 {
		if ttl := ttlCmd.Val(); ttl > 0 {
			r.rdb.PExpire(ctx, attemptsKey, ttl)
		}
	}
	return false, nil
}

// PutWindow mirrors an open session window with the window's remaining lifetime.
func (r *CacheRepository) PutWindow(ctx context.Context, sessionID string, superAdminID int, ttl time.Duration) error {
	return r.rdb.Set(ctx, config.CacheKey.SuperAdminWindowKey(sessionID), superAdminID, ttl).Err()
}

// DeleteWindow removes a session window mirror.
func (r *CacheRepository) DeleteWindow(ctx context.Context, sessionID string) error {
	return r.rdb.Del(ctx, config.CacheKey.SuperAdminWindowKey(sessionID)).Err()
}

// ListWindows returns every mirrored window that still has time left.
func (r *CacheRepository) ListWindows(ctx context.Context) ([]model.SessionWindow, error) {
	prefix := strings.TrimSuffix(config.CacheKey.SuperAdminWindowPattern(), "*")

	var windows []model.SessionWindow
	iter := r.rdb.Scan(ctx, 0, config.CacheKey.SuperAdminWindowPattern(), 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		val, err := r.rdb.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get window: %w", err)
		}
		id, err := strconv.Atoi(val)
		if err != nil {
			continue
		}

		ttl, err := r.rdb.PTTL(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("ttl window: %w", err)
		}
		if ttl <= 0 {
			continue
		}

		windows = append(windows, model.SessionWindow{
			SessionID:    strings.TrimPrefix(key, prefix),
			SuperAdminID: id,
			Remaining:    ttl,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan windows: %w", err)
	}
	return windows, nil
}

// PublishAudit announces a committed audit entry on the audit channel.
func (r *CacheRepository) PublishAudit(ctx context.Context, entry *model.AdminLog) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return r.rdb.Publish(ctx, config.CacheKey.AuditChannel(), data).Err()
}
