package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hsh-clinic/clinic-backend/internal/config"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) (*CacheRepository, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCacheRepository(rdb), mr, rdb
}

func TestCacheRepository_OTP(t *testing.T) {
	repo, mr, _ := newCache(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveOTP(ctx, "Ali@Student.HU.edu.eg", "123456", time.Minute))

	ok, err := repo.ConsumeOTP(ctx, "ali@student.hu.edu.eg", "000000")
	require.NoError(t, err)
	assert.False(t, ok, "wrong code must not match")

	ok, err = repo.ConsumeOTP(ctx, "ali@student.hu.edu.eg", "123456")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ConsumeOTP(ctx, "ali@student.hu.edu.eg", "123456")
	require.NoError(t, err)
	assert.False(t, ok, "code is single use")

	require.NoError(t, repo.SaveOTP(ctx, "x@student.hu.edu.eg", "111111", time.Minute))
	mr.FastForward(2 * time.Minute)
	ok, err = repo.ConsumeOTP(ctx, "x@student.hu.edu.eg", "111111")
	require.NoError(t, err)
	assert.False(t, ok, "expired code")
}

func TestCacheRepository_OTPBurnsAfterMisses(t *testing.T) {
	repo, mr, _ := newCache(t)
	ctx := context.Background()
	email := "ali@student.hu.edu.eg"

	require.NoError(t, repo.SaveOTP(ctx, email, "123456", 10*time.Minute))

	for i := 1; i < MaxOTPAttempts; i++ {
		ok, err := repo.ConsumeOTP(ctx, email, "000000")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.True(t, mr.Exists(config.CacheKey.StudentOTPKey(email)), "code survives until the last miss")
	assert.Greater(t, mr.TTL(config.CacheKey.StudentOTPAttemptsKey(email)), time.Duration(0))

	ok, err := repo.ConsumeOTP(ctx, email, "000000")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists(config.CacheKey.StudentOTPKey(email)))
	assert.False(t, mr.Exists(config.CacheKey.StudentOTPAttemptsKey(email)))

	ok, err = repo.ConsumeOTP(ctx, email, "123456")
	require.NoError(t, err)
	assert.False(t, ok, "burned code no longer matches")

	// A fresh code resets the miss counter.
	require.NoError(t, repo.SaveOTP(ctx, email, "654321", 10*time.Minute))
	ok, err = repo.ConsumeOTP(ctx, email, "000000")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = repo.ConsumeOTP(ctx, email, "654321")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCacheRepository_Windows(t *testing.T) {
	repo, mr, _ := newCache(t)
	ctx := context.Background()

	require.NoError(t, repo.PutWindow(ctx, "s-1", 4, time.Hour))
	require.NoError(t, repo.PutWindow(ctx, "s-2", 5, 10*time.Minute))
	mr.Set(config.CacheKey.SuperAdminWindowKey("bad"), "not-a-number")

	windows, err := repo.ListWindows(ctx)
	require.NoError(t, err)
	require.Len(t, windows, 2)

	byID := map[string]model.SessionWindow{}
	for _, w := range windows {
		byID[w.SessionID] = w
	}
	assert.Equal(t, 4, byID["s-1"].SuperAdminID)
	assert.Equal(t, 5, byID["s-2"].SuperAdminID)
	assert.InDelta(t, (10 * time.Minute).Seconds(), byID["s-2"].Remaining.Seconds(), 1)

	require.NoError(t, repo.DeleteWindow(ctx, "s-1"))
	windows, err = repo.ListWindows(ctx)
	require.NoError(t, err)
	assert.Len(t, windows, 1)
}

func TestCacheRepository_PublishAudit(t *testing.T) {
	repo, _, rdb := newCache(t)
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, config.CacheKey.AuditChannel())
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	entry := &model.AdminLog{ID: 1, ActorClass: model.ClassAdmin, ActorID: 2, ActorName: "Mona", Action: model.AuditAcceptExam}
	require.NoError(t, repo.PublishAudit(ctx, entry))

	select {
	case msg := <-sub.Channel():
		var got model.AdminLog
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, model.AuditAcceptExam, got.Action)
		assert.Equal(t, "Mona", got.ActorName)
	case <-time.After(2 * time.Second):
		t.Fatal("no audit message received")
	}
}
