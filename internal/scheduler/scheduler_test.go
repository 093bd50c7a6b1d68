package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hsh-clinic/clinic-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloser struct {
	mu     sync.Mutex
	closed []int
	live   []int
}

func (f *fakeCloser) CloseWindow(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, id)
	return nil
}

func (f *fakeCloser) ListLive(context.Context) ([]int, error) {
	return f.live, nil
}

func (f *fakeCloser) Closed() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.closed...)
}

func newMirror(t *testing.T) (*repository.CacheRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return repository.NewCacheRepository(rdb), mr
}

func TestSessionWindows_Expire(t *testing.T) {
	mirror, mr := newMirror(t)
	closer := &fakeCloser{}
	sw := NewSessionWindows(30*time.Millisecond, mirror, closer, zerolog.Nop())
	defer sw.Stop()

	require.NoError(t, sw.Open(context.Background(), "sid-1", 1))
	assert.True(t, mr.Exists("superadmin:window:sid-1"))
	assert.Equal(t, 1, sw.Active())

	assert.Eventually(t, func() bool { return len(closer.Closed()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{1}, closer.Closed())
	assert.Eventually(t, func() bool { return !mr.Exists("superadmin:window:sid-1") }, time.Second, 5*time.Millisecond)
	assert.Zero(t, sw.Active())
}

func TestSessionWindows_CloseDisarms(t *testing.T) {
	mirror, mr := newMirror(t)
	closer := &fakeCloser{}
	sw := NewSessionWindows(40*time.Millisecond, mirror, closer, zerolog.Nop())
	defer sw.Stop()
	ctx := context.Background()

	require.NoError(t, sw.Open(ctx, "sid-1", 1))
	sw.Close(ctx, "sid-1")

	assert.False(t, mr.Exists("superadmin:window:sid-1"))
	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, closer.Closed())
}

func TestSessionWindows_CloseAll(t *testing.T) {
	mirror, mr := newMirror(t)
	sw := NewSessionWindows(time.Hour, mirror, &fakeCloser{}, zerolog.Nop())
	defer sw.Stop()
	ctx := context.Background()

	require.NoError(t, sw.Open(ctx, "a", 1))
	require.NoError(t, sw.Open(ctx, "b", 1))
	require.NoError(t, sw.Open(ctx, "c", 2))

	sw.CloseAll(ctx, 1)
	assert.Equal(t, 1, sw.Active())
	assert.False(t, mr.Exists("superadmin:window:a"))
	assert.False(t, mr.Exists("superadmin:window:b"))
	assert.True(t, mr.Exists("superadmin:window:c"))
}

func TestSessionWindows_ReopenReplacesTimer(t *testing.T) {
	mirror, _ := newMirror(t)
	closer := &fakeCloser{}
	sw := NewSessionWindows(30*time.Millisecond, mirror, closer, zerolog.Nop())
	defer sw.Stop()
	ctx := context.Background()

	require.NoError(t, sw.Open(ctx, "sid-1", 1))
	sw.arm("sid-1", 1, time.Hour)

	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, closer.Closed())
	assert.Equal(t, 1, sw.Active())
}

func TestSessionWindows_Restore(t *testing.T) {
	mirror, _ := newMirror(t)
	ctx := context.Background()
	require.NoError(t, mirror.PutWindow(ctx, "sid-1", 1, time.Hour))

	closer := &fakeCloser{live: []int{1, 2}}
	sw := NewSessionWindows(time.Hour, mirror, closer, zerolog.Nop())
	defer sw.Stop()

	restored, closed, err := sw.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, restored)
	assert.Equal(t, 1, closed)
	assert.Equal(t, []int{2}, closer.Closed())
	assert.Equal(t, 1, sw.Active())
}

type failingMirror struct{ *repository.CacheRepository }

func (failingMirror) PutWindow(context.Context, string, int, time.Duration) error {
	return errors.New("redis down")
}

func TestSessionWindows_OpenMirrorFailure(t *testing.T) {
	mirror, _ := newMirror(t)
	sw := NewSessionWindows(time.Hour, failingMirror{mirror}, &fakeCloser{}, zerolog.Nop())

	assert.Error(t, sw.Open(context.Background(), "sid-1", 1))
	assert.Zero(t, sw.Active())
}

type fakeResetter struct {
	n   int64
	err error
}

func (f fakeResetter) ResetAllVerified(context.Context) (int64, error) { return f.n, f.err }

func TestVerificationReset_RunOnce(t *testing.T) {
	v := NewVerificationReset(fakeResetter{n: 42}, time.UTC, zerolog.Nop())
	n, err := v.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	v = NewVerificationReset(fakeResetter{err: errors.New("boom")}, time.UTC, zerolog.Nop())
	_, err = v.RunOnce(context.Background())
	assert.Error(t, err)
}

func TestVerificationReset_Schedule(t *testing.T) {
	loc, err := time.LoadLocation("Africa/Cairo")
	require.NoError(t, err)

	sched, err := cron.ParseStandard(YearlyReset)
	require.NoError(t, err)

	next := sched.Next(time.Date(2025, time.June, 15, 12, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, loc), next)
}

func TestVerificationReset_StartStop(t *testing.T) {
	v := NewVerificationReset(fakeResetter{}, time.UTC, zerolog.Nop())
	require.NoError(t, v.Start())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	v.Stop(ctx)
}
