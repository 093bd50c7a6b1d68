package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/rs/zerolog"
)

const closeTimeout = 5 * time.Second

// WindowMirror persists open windows outside the process so they survive a restart.
type WindowMirror interface {
	PutWindow(ctx context.Context, sessionID string, superAdminID int, ttl time.Duration) error
	DeleteWindow(ctx context.Context, sessionID string) error
	ListWindows(ctx context.Context) ([]model.SessionWindow, error)
}

// WindowCloser ends a super admin's window in the database.
type WindowCloser interface {
	CloseWindow(ctx context.Context, id int) error
	ListLive(ctx context.Context) ([]int, error)
}

type window struct {
	sessionID    string
	superAdminID int
	timer        *time.Timer
}

// SessionWindows expires super-admin sessions after a fixed window. Each
// login arms one timer keyed by its session ID; on expiry the super admin
// is marked offline and unconfirmed.
type SessionWindows struct {
	ttl         time.Duration
	mirror      WindowMirror
	superAdmins WindowCloser
	log         zerolog.Logger

	mu      sync.Mutex
	windows map[string]*window
	byOwner map[int]map[string]struct{}
}

// NewSessionWindows creates a new SessionWindows.
func NewSessionWindows(ttl time.Duration, mirror WindowMirror, superAdmins WindowCloser, log zerolog.Logger) *SessionWindows {
	return &SessionWindows{
		ttl:         ttl,
		mirror:      mirror,
		superAdmins: superAdmins,
		log:         log.With().Str("component", "session_windows").Logger(),
		windows:     make(map[string]*window),
		byOwner:     make(map[int]map[string]struct{}),
	}
}

// Open arms a window for a freshly issued session.
func (s *SessionWindows) Open(ctx context.Context, sessionID string, superAdminID int) error {
	s.arm(sessionID, superAdminID, s.ttl)
	if err := s.mirror.PutWindow(ctx, sessionID, superAdminID, s.ttl); err != nil {
		s.disarm(sessionID)
		return err
	}
	return nil
}

// Close disarms a single session's window, e.g. on logout.
func (s *SessionWindows) Close(ctx context.Context, sessionID string) {
	s.disarm(sessionID)
	s.unmirror(ctx, sessionID)
}

// CloseAll disarms every window a super admin holds.
func (s *SessionWindows) CloseAll(ctx context.Context, superAdminID int) {
	s.mu.Lock()
	var ids []string
	for id := range s.byOwner[superAdminID] {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.Close(ctx, id)
	}
}

// Restore re-arms mirrored windows after a restart. Super admins still
// marked live without any surviving window are closed right away.
func (s *SessionWindows) Restore(ctx context.Context) (restored, closed int, err error) {
	windows, err := s.mirror.ListWindows(ctx)
	if err != nil {
		return 0, 0, err
	}

	open := make(map[int]bool, len(windows))
	for _, w := range windows {
		s.arm(w.SessionID, w.SuperAdminID, w.Remaining)
		open[w.SuperAdminID] = true
	}

	live, err := s.superAdmins.ListLive(ctx)
	if err != nil {
		return len(windows), 0, err
	}
	for _, id := range live {
		if open[id] {
			continue
		}
		if err := s.superAdmins.CloseWindow(ctx, id); err != nil {
			s.log.Error().Err(err).Int("super_admin_id", id).Msg("Failed to close orphaned window")
			continue
		}
		closed++
	}

	s.log.Info().Int("restored", len(windows)).Int("closed", closed).Msg("Session windows restored")
	return len(windows), closed, nil
}

// Active returns the number of armed windows.
func (s *SessionWindows) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// Stop disarms every timer without touching the database or the mirror,
// so a later Restore picks the windows up again.
func (s *SessionWindows) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, w := range s.windows {
		w.timer.Stop()
		delete(s.windows, id)
	}
	s.byOwner = make(map[int]map[string]struct{})
}

func (s *SessionWindows) arm(sessionID string, superAdminID int, ttl time.Duration) {
	w := &window{sessionID: sessionID, superAdminID: superAdminID}

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.windows[sessionID]; ok {
		old.timer.Stop()
	}
	w.timer = time.AfterFunc(ttl, func() { s.expire(w) })
	s.windows[sessionID] = w
	if s.byOwner[superAdminID] == nil {
		s.byOwner[superAdminID] = make(map[string]struct{})
	}
	s.byOwner[superAdminID][sessionID] = struct{}{}
}

// disarm removes and stops a window, returning it if it was armed.
func (s *SessionWindows) disarm(sessionID string) *window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(sessionID, nil)
}

// removeLocked drops sessionID. When want is set the entry is only removed
// if it is still that exact window, so a stale timer cannot close a newer one.
func (s *SessionWindows) removeLocked(sessionID string, want *window) *window {
	w, ok := s.windows[sessionID]
	if !ok || (want != nil && w != want) {
		return nil
	}
	w.timer.Stop()
	delete(s.windows, sessionID)
	if owned := s.byOwner[w.superAdminID]; owned != nil {
		delete(owned, sessionID)
		if len(owned) == 0 {
			delete(s.byOwner, w.superAdminID)
		}
	}
	return w
}

func (s *SessionWindows) expire(w *window) {
	s.mu.Lock()
	removed := s.removeLocked(w.sessionID, w)
	s.mu.Unlock()
	if removed == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	if err := s.superAdmins.CloseWindow(ctx, w.superAdminID); err != nil {
		s.log.Error().Err(err).Int("super_admin_id", w.superAdminID).Msg("Failed to close expired window")
	}
	s.unmirror(ctx, w.sessionID)
	s.log.Info().Int("super_admin_id", w.superAdminID).Str("session_id", w.sessionID).Msg("Session window expired")
}

func (s *SessionWindows) unmirror(ctx context.Context, sessionID string) {
	if err := s.mirror.DeleteWindow(ctx, sessionID); err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to delete window mirror")
	}
}
