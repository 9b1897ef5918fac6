package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/canteen-order/internal/notify"
	"github.com/noah-isme/canteen-order/internal/obs"
)

var (
	// ErrEmptyCart is returned when an order is attempted with no lines.
	ErrEmptyCart = errors.New("order: cart is empty")
	// ErrSubmissionInFlight is returned while a previous attempt is pending.
	ErrSubmissionInFlight = errors.New("order: submission already in progress")
	// ErrOrderSubmission wraps every failed attempt: transport errors, non-2xx responses and missing ids.
	ErrOrderSubmission = errors.New("order: submission failed")
)

// Sink delivers an order to the backend.
type Sink interface {
	PlaceOrder(ctx context.Context, p Payload) (Result, error)
}

// State is the submitter lifecycle state.
type State int

const (
	Idle State = iota
	Submitting
)

func (s State) String() string {
	if s == Submitting {
		return "submitting"
	}
	return "idle"
}

// Submitter runs one order attempt at a time. Failed attempts are never retried.
type Submitter struct {
	sink     Sink
	notifier notify.Notifier
	logger   zerolog.Logger
	now      func() time.Time

	mu    sync.Mutex
	state State
}

// Option customises a Submitter.
type Option func(*Submitter)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Submitter) { s.logger = logger }
}

// WithClock overrides the clock used for latency metrics.
func WithClock(now func() time.Time) Option {
	return func(s *Submitter) { s.now = now }
}

// NewSubmitter builds a submitter sending to sink. A nil notifier discards messages.
func NewSubmitter(sink Sink, notifier notify.Notifier, opts ...Option) *Submitter {
	if notifier == nil {
		notifier = notify.Nop
	}
	s := &Submitter{
		sink:     sink,
		notifier: notifier,
		logger:   zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Submitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submitting reports whether an attempt is pending.
func (s *Submitter) Submitting() bool { return s.State() == Submitting }

// Begin moves to Submitting and freezes the payload. Nothing changes when the
// cart is empty or another attempt is pending.
func (s *Submitter) Begin(d Draft) (Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Submitting {
		return Payload{}, ErrSubmissionInFlight
	}
	if len(d.Lines) == 0 {
		return Payload{}, ErrEmptyCart
	}
	s.state = Submitting
	return NewPayload(d), nil
}

// Dispatch sends p once. On success commit runs before the confirmation is
// shown; on failure nothing is committed. The submitter is Idle again when
// Dispatch returns.
func (s *Submitter) Dispatch(ctx context.Context, p Payload, commit func(Result)) (Result, error) {
	defer s.finish()

	start := s.now()
	res, err := s.sink.PlaceOrder(ctx, p)
	took := s.now().Sub(start)
	if err != nil {
		obs.ObserveOrderSubmission("failed", took)
		s.logger.Error().Err(err).Int("items", len(p.Items)).Float64("total_amount", p.TotalAmount).Msg("order_failed")
		s.notifier.Notify(notify.Error, "Could not place order. Try again.")
		if errors.Is(err, ErrOrderSubmission) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("%w: %v", ErrOrderSubmission, err)
	}

	if commit != nil {
		commit(res)
	}
	obs.ObserveOrderSubmission("placed", took)
	s.logger.Info().Str("order_id", res.ID).Int("items", len(p.Items)).Float64("total_amount", p.TotalAmount).Msg("order_submitted")
	s.notifier.Notify(notify.Success, fmt.Sprintf("Order placed! ID: %s", res.ID))
	return res, nil
}

// Submit is Begin followed by Dispatch.
func (s *Submitter) Submit(ctx context.Context, d Draft, commit func(Result)) (Result, error) {
	p, err := s.Begin(d)
	if err != nil {
		return Result{}, err
	}
	return s.Dispatch(ctx, p, commit)
}

func (s *Submitter) finish() {
	s.mu.Lock()
	s.state = Idle
	s.mu.Unlock()
}
