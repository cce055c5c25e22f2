package appointment

import (
	"context"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/studio-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-manager/internal/logger"
	"github.com/BruksfildServices01/studio-manager/internal/metrics"
	"github.com/BruksfildServices01/studio-manager/internal/store"
)

// ExpireFunc completes the session of an appointment whose timer fired.
type ExpireFunc func(ctx context.Context, appointmentID string) error

type sessionTimer struct {
	t *time.Timer
}

// SessionScheduler keeps one single-shot completion timer per in-progress
// appointment.
type SessionScheduler struct {
	mu      sync.Mutex
	timers  map[string]*sessionTimer
	expire  ExpireFunc
	stopped bool

	now     func() time.Time
	log     logger.Logger
	metrics *metrics.Metrics
}

func NewSessionScheduler(now func() time.Time, log logger.Logger, m *metrics.Metrics) *SessionScheduler {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Discard()
	}
	if m == nil {
		m = metrics.New()
	}
	return &SessionScheduler{
		timers:  make(map[string]*sessionTimer),
		now:     now,
		log:     log,
		metrics: m,
	}
}

// OnExpire sets the callback run when a timer fires.
func (s *SessionScheduler) OnExpire(fn ExpireFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expire = fn
}

// Schedule arms the timer of id to fire at the given instant, replacing any
// timer already armed for it. Instants in the past fire immediately.
func (s *SessionScheduler) Schedule(id string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	if prev, ok := s.timers[id]; ok {
		prev.t.Stop()
	}

	delay := at.Sub(s.now())
	if delay < 0 {
		delay = 0
	}

	entry := &sessionTimer{}
	entry.t = time.AfterFunc(delay, func() { s.fire(id, entry) })
	s.timers[id] = entry
	s.metrics.ActiveSessions.Set(float64(len(s.timers)))

	s.log.Debug("session timer armed", logger.Fields{
		"appointment_id": id,
		"at":             at,
	})
}

func (s *SessionScheduler) fire(id string, entry *sessionTimer) {
	s.mu.Lock()
	if s.timers[id] != entry {
		s.mu.Unlock()
		return
	}
	delete(s.timers, id)
	s.metrics.ActiveSessions.Set(float64(len(s.timers)))
	expire := s.expire
	s.mu.Unlock()

	if expire == nil {
		return
	}
	if err := expire(context.Background(), id); err != nil {
		s.log.Error("session auto-complete failed", logger.Fields{
			"appointment_id": id,
			"error":          err,
		})
	}
}

// Cancel disarms the timer of id, if any.
func (s *SessionScheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.timers[id]
	if !ok {
		return false
	}
	entry.t.Stop()
	delete(s.timers, id)
	s.metrics.ActiveSessions.Set(float64(len(s.timers)))
	return true
}

func (s *SessionScheduler) Pending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[id]
	return ok
}

func (s *SessionScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Restore arms timers for the appointments already in progress, typically
// at start-up.
func (s *SessionScheduler) Restore(ctx context.Context, st *store.Store) (int, error) {
	running, err := st.Appointments().FindBy(ctx, "status", string(domain.StatusInProgress))
	if err != nil {
		return 0, err
	}

	for _, ap := range running {
		at := s.now()
		if ap.ActualEnd != nil {
			at = *ap.ActualEnd
		}
		s.Schedule(ap.ID, at)
	}

	if len(running) > 0 {
		s.log.Info("session timers restored", logger.Fields{"count": len(running)})
	}
	return len(running), nil
}

// Stop disarms every timer and refuses new ones.
func (s *SessionScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.timers {
		entry.t.Stop()
		delete(s.timers, id)
	}
	s.stopped = true
	s.metrics.ActiveSessions.Set(0)
}

// Resync disarms every timer and arms them again from the stored
// appointments. Used after the store contents are replaced.
func (s *SessionScheduler) Resync(ctx context.Context, st *store.Store) (int, error) {
	s.mu.Lock()
	for id, entry := range s.timers {
		entry.t.Stop()
		delete(s.timers, id)
	}
	s.metrics.ActiveSessions.Set(0)
	s.mu.Unlock()

	return s.Restore(ctx, st)
}
