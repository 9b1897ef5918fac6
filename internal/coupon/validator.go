package coupon

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/canteen-order/internal/notify"
	"github.com/noah-isme/canteen-order/internal/obs"
	"github.com/noah-isme/canteen-order/internal/pricing"
)

// DefaultCode is the coupon accepted when none is configured.
const DefaultCode = "RTU20"

var (
	// ErrInvalidCoupon is returned when the entered code does not match the accepted coupon.
	ErrInvalidCoupon = errors.New("coupon: invalid code")
	// ErrIneligibleDiscount is returned when the code matches but the subtotal is below the threshold.
	ErrIneligibleDiscount = errors.New("coupon: minimum order not met")
	// ErrAutoRevokedDiscount reports that an applied coupon was withdrawn after the subtotal dropped.
	ErrAutoRevokedDiscount = errors.New("coupon: removed after subtotal dropped below minimum")
)

// IneligibleError carries how much must be added to qualify.
type IneligibleError struct {
	Minimum   decimal.Decimal
	Remaining decimal.Decimal
}

func (e *IneligibleError) Error() string {
	return fmt.Sprintf("%s: add %s more", ErrIneligibleDiscount, pricing.FormatWhole(e.Remaining))
}

// Unwrap exposes ErrIneligibleDiscount.
func (e *IneligibleError) Unwrap() error { return ErrIneligibleDiscount }

// State is the coupon lifecycle state.
type State int

const (
	Inactive State = iota
	Applied
)

func (s State) String() string {
	if s == Applied {
		return "applied"
	}
	return "inactive"
}

// MarshalText renders the state name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses a state name.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "applied":
		*s = Applied
	case "inactive":
		*s = Inactive
	default:
		return fmt.Errorf("coupon: unknown state %q", text)
	}
	return nil
}

// Validator tracks the entered code and whether the coupon is applied.
// It is not safe for concurrent use; the owning session serialises access.
type Validator struct {
	code     string
	rules    pricing.Rules
	state    State
	input    string
	notifier notify.Notifier
	logger   zerolog.Logger
}

// Option customises a Validator.
type Option func(*Validator)

// WithLogger sets the logger used for state transitions.
func WithLogger(logger zerolog.Logger) Option {
	return func(v *Validator) { v.logger = logger }
}

// NewValidator accepts code under rules. A nil notifier discards messages.
func NewValidator(code string, rules pricing.Rules, notifier notify.Notifier, opts ...Option) *Validator {
	code = normalize(code)
	if code == "" {
		code = DefaultCode
	}
	if notifier == nil {
		notifier = notify.Nop
	}
	v := &Validator{
		code:     code,
		rules:    rules,
		notifier: notifier,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Code returns the accepted code.
func (v *Validator) Code() string { return v.code }

// State returns the current state.
func (v *Validator) State() State { return v.state }

// Applied reports whether the coupon is applied.
func (v *Validator) Applied() bool { return v.state == Applied }

// Input returns the code text last entered by the user.
func (v *Validator) Input() string { return v.input }

// SetInput records the code text without applying it.
func (v *Validator) SetInput(text string) { v.input = text }

// Apply validates code against the live subtotal. The entered text is kept
// whatever the outcome.
func (v *Validator) Apply(code string, subtotal decimal.Decimal) error {
	v.input = code
	if normalize(code) != v.code {
		v.state = Inactive
		obs.CountCouponEvent("invalid")
		v.logger.Debug().Str("code", code).Msg("coupon_invalid")
		v.notifier.Notify(notify.Error, "Invalid coupon code")
		return ErrInvalidCoupon
	}
	if !v.rules.Eligible(subtotal) {
		v.state = Inactive
		obs.CountCouponEvent("ineligible")
		v.logger.Debug().Str("subtotal", subtotal.String()).Msg("coupon_ineligible")
		v.notifier.Notify(notify.Error, fmt.Sprintf("Min order %s required for this coupon", pricing.FormatWhole(v.rules.MinSubtotal)))
		return &IneligibleError{Minimum: v.rules.MinSubtotal, Remaining: v.rules.Remaining(subtotal)}
	}
	v.state = Applied
	obs.CountCouponEvent("applied")
	v.logger.Info().Str("code", v.code).Str("subtotal", subtotal.String()).Msg("coupon_applied")
	v.notifier.Notify(notify.Success, fmt.Sprintf("Coupon applied! %s%% off", v.rules.Percent.String()))
	return nil
}

// Reevaluate withdraws an applied coupon once subtotal falls below the
// threshold. It must run after every cart mutation.
func (v *Validator) Reevaluate(subtotal decimal.Decimal) error {
	if v.state != Applied || v.rules.Eligible(subtotal) {
		return nil
	}
	v.state = Inactive
	obs.CountCouponEvent("revoked")
	v.logger.Info().Str("subtotal", subtotal.String()).Msg("coupon_revoked")
	v.notifier.Notify(notify.Error, fmt.Sprintf("Coupon removed (min %s not met)", pricing.FormatWhole(v.rules.MinSubtotal)))
	return ErrAutoRevokedDiscount
}

// Reset returns to Inactive and clears the entered text.
func (v *Validator) Reset() {
	v.state = Inactive
	v.input = ""
}

// Hint returns the nudge shown while the entered code matches but the
// subtotal is short, or "" otherwise.
func (v *Validator) Hint(subtotal decimal.Decimal) string {
	if normalize(v.input) != v.code || v.rules.Eligible(subtotal) {
		return ""
	}
	return fmt.Sprintf("Add items worth %s more to use this coupon", pricing.FormatWhole(v.rules.Remaining(subtotal)))
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
