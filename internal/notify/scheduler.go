package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/canteen-order/internal/obs"
)

// DefaultDuration is how long a notification stays visible.
const DefaultDuration = 2500 * time.Millisecond

// Scheduler keeps at most one visible notification and clears it after a fixed
// duration. A new notification replaces the visible one and restarts the timer.
type Scheduler struct {
	duration time.Duration
	now      func() time.Time
	logger   zerolog.Logger

	mu        sync.Mutex
	current   *Notification
	timer     *time.Timer
	gen       uint64
	closed    bool
	listeners []func(Notification)
}

// Option customises a Scheduler.
type Option func(*Scheduler)

// WithLogger configures the logger used for notification events.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scheduler) { s.logger = logger }
}

// WithClock overrides the clock used to stamp notifications.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// NewScheduler constructs a scheduler. A non-positive duration falls back to DefaultDuration.
func NewScheduler(duration time.Duration, opts ...Option) *Scheduler {
	if duration <= 0 {
		duration = DefaultDuration
	}
	s := &Scheduler{
		duration: duration,
		now:      time.Now,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notify shows a notification, replacing any visible one.
func (s *Scheduler) Notify(kind Kind, message string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	n := Notification{Kind: kind, Message: message, CreatedAt: s.now()}
	s.current = &n
	s.timer = time.AfterFunc(s.duration, func() { s.expire(gen) })
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	obs.CountNotification(kind.String())
	s.logger.Debug().Str("kind", kind.String()).Str("message", message).Msg("notification_shown")
	for _, fn := range listeners {
		fn(n)
	}
}

// expire clears the notification only if no newer one replaced it.
func (s *Scheduler) expire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen || s.current == nil {
		return
	}
	s.current = nil
	s.timer = nil
}

// Current returns the visible notification, if any.
func (s *Scheduler) Current() (Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Notification{}, false
	}
	return *s.current, true
}

// Subscribe registers fn to receive every notification as it is shown.
func (s *Scheduler) Subscribe(fn func(Notification)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Close cancels the pending timer and clears the visible notification.
// Notifications sent after Close are dropped.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.current = nil
	s.closed = true
}
