package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/canteen-order/internal/cart"
	"github.com/noah-isme/canteen-order/internal/coupon"
	"github.com/noah-isme/canteen-order/internal/menu"
	"github.com/noah-isme/canteen-order/internal/notify"
	"github.com/noah-isme/canteen-order/internal/order"
	"github.com/noah-isme/canteen-order/internal/pricing"
)

var (
	// ErrItemNotFound is returned when a menu item id is unknown.
	ErrItemNotFound = errors.New("storefront: menu item not found")
	// ErrItemUnavailable is returned when adding an item marked unavailable.
	ErrItemUnavailable = errors.New("storefront: menu item unavailable")
	// ErrCheckoutInFlight is returned for cart or coupon changes while an order is pending.
	ErrCheckoutInFlight = errors.New("storefront: order submission in progress")
)

// MenuSource provides the menu listing.
type MenuSource interface {
	Load(ctx context.Context) ([]menu.Item, error)
	Reload(ctx context.Context) ([]menu.Item, error)
}

// Config configures a Session.
type Config struct {
	CouponCode      string
	Rules           pricing.Rules
	NotificationTTL time.Duration
	Logger          zerolog.Logger
}

// Session is one customer's storefront state. Every handler runs under a
// single lock so cart, coupon and pricing always change together; only the
// order request itself runs outside it.
type Session struct {
	mu sync.Mutex

	menu      MenuSource
	items     []menu.Item
	loaded    bool
	rules     pricing.Rules
	cart      *cart.Store
	coupon    *coupon.Validator
	submitter *order.Submitter
	notices   *notify.Scheduler
	form      order.Form
	logger    zerolog.Logger
}

// NewSession wires the cart, coupon validator, submitter and notification
// scheduler of one session.
func NewSession(cfg Config, source MenuSource, sink order.Sink) *Session {
	logger := cfg.Logger
	notices := notify.NewScheduler(cfg.NotificationTTL, notify.WithLogger(logger))
	s := &Session{
		menu:      source,
		rules:     cfg.Rules,
		cart:      cart.NewStore(notices),
		coupon:    coupon.NewValidator(cfg.CouponCode, cfg.Rules, notices, coupon.WithLogger(logger)),
		submitter: order.NewSubmitter(sink, notices, order.WithLogger(logger)),
		notices:   notices,
		logger:    logger,
	}
	s.cart.Subscribe(func(cart.Change) {
		_ = s.coupon.Reevaluate(s.cart.Subtotal())
	})
	return s
}

// Notifications exposes the scheduler for subscribers.
func (s *Session) Notifications() *notify.Scheduler { return s.notices }

// LoadMenu fetches the menu and replaces the cached listing. Failures keep the
// previous listing and show an error notification.
func (s *Session) LoadMenu(ctx context.Context) error {
	return s.fetchMenu(ctx, s.menu.Load)
}

// ReloadMenu refetches the menu bypassing any cache.
func (s *Session) ReloadMenu(ctx context.Context) error {
	return s.fetchMenu(ctx, s.menu.Reload)
}

func (s *Session) fetchMenu(ctx context.Context, fetch func(context.Context) ([]menu.Item, error)) error {
	items, err := fetch(ctx)
	if err != nil {
		s.notices.Notify(notify.Error, "Unable to load menu. Please try again.")
		if errors.Is(err, menu.ErrMenuLoad) {
			return err
		}
		return fmt.Errorf("%w: %v", menu.ErrMenuLoad, err)
	}
	s.mu.Lock()
	s.items = items
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Menu returns the items in category along with every category chip.
func (s *Session) Menu(category string) MenuView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if category == "" {
		category = menu.AllCategories
	}
	return newMenuView(s.items, category, s.loaded)
}

// AddItem puts one unit of the menu item into the cart.
func (s *Session) AddItem(itemID string) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return CartView{}, err
	}
	item, ok := menu.Find(s.items, itemID)
	if !ok {
		return CartView{}, ErrItemNotFound
	}
	if !item.IsAvailable {
		return CartView{}, ErrItemUnavailable
	}
	s.cart.Add(item)
	return s.viewLocked(), nil
}

// Increment adds one unit to an existing line. Unknown ids change nothing.
func (s *Session) Increment(itemID string) (CartView, error) {
	return s.mutate(func() { s.cart.Increment(itemID) })
}

// Decrement removes one unit, dropping the line at zero. Unknown ids change nothing.
func (s *Session) Decrement(itemID string) (CartView, error) {
	return s.mutate(func() { s.cart.Decrement(itemID) })
}

// Remove drops a line. Unknown ids change nothing.
func (s *Session) Remove(itemID string) (CartView, error) {
	return s.mutate(func() { s.cart.Remove(itemID) })
}

// SetCouponInput records the typed coupon text.
func (s *Session) SetCouponInput(text string) (CartView, error) {
	return s.mutate(func() { s.coupon.SetInput(text) })
}

// ApplyCoupon validates code against the current subtotal. The returned view
// reflects the outcome even when err is not nil.
func (s *Session) ApplyCoupon(code string) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return CartView{}, err
	}
	err := s.coupon.Apply(code, s.cart.Subtotal())
	return s.viewLocked(), err
}

// Cart returns the current cart, pricing and coupon state.
func (s *Session) Cart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Pricing returns the live pricing snapshot.
func (s *Session) Pricing() pricing.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Form returns the delivery form draft.
func (s *Session) Form() order.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// SetForm replaces the delivery form draft. The draft is frozen while an
// order is in flight.
func (s *Session) SetForm(f order.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return err
	}
	s.form = f
	return nil
}

// Checkout places an order for the current cart with delivery details f,
// which must already be validated. A refused attempt changes nothing. Once
// accepted, f becomes the form draft; on success the cart, coupon and form are
// reset together, on failure the draft is kept.
func (s *Session) Checkout(ctx context.Context, f order.Form) (order.Result, error) {
	s.mu.Lock()
	payload, err := s.submitter.Begin(order.Draft{
		Form:  f,
		Lines: s.cart.Lines(),
		Total: s.snapshotLocked().Total,
	})
	if err == nil {
		s.form = f
	}
	s.mu.Unlock()
	if err != nil {
		return order.Result{}, err
	}

	return s.submitter.Dispatch(ctx, payload, func(order.Result) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.coupon.Reset()
		s.cart.Clear()
		s.form = order.Form{}
	})
}

// Submitting reports whether an order request is in flight.
func (s *Session) Submitting() bool {
	return s.submitter.Submitting()
}

// Notification returns the visible notification, if any.
func (s *Session) Notification() (notify.Notification, bool) {
	return s.notices.Current()
}

// Close stops the notification timer.
func (s *Session) Close() {
	s.notices.Close()
}

func (s *Session) mutate(fn func()) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(); err != nil {
		return CartView{}, err
	}
	fn()
	return s.viewLocked(), nil
}

func (s *Session) guardLocked() error {
	if s.submitter.Submitting() {
		return ErrCheckoutInFlight
	}
	return nil
}

func (s *Session) snapshotLocked() pricing.Snapshot {
	return pricing.Compute(s.cart.PricingItems(), s.coupon.Applied(), s.rules)
}

func (s *Session) viewLocked() CartView {
	snapshot := s.snapshotLocked()
	return CartView{
		Lines:      newLineViews(s.cart.Lines()),
		Units:      s.cart.Units(),
		Pricing:    newPricingView(snapshot),
		Coupon:     CouponView{State: s.coupon.State(), Input: s.coupon.Input(), Hint: s.coupon.Hint(snapshot.Subtotal)},
		Submitting: s.submitter.Submitting(),
	}
}
