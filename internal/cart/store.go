package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/canteen-order/internal/common"
	"github.com/noah-isme/canteen-order/internal/menu"
	"github.com/noah-isme/canteen-order/internal/notify"
	"github.com/noah-isme/canteen-order/internal/obs"
	"github.com/noah-isme/canteen-order/internal/pricing"
)

// Op names a cart mutation.
type Op string

const (
	OpAdd       Op = "add"
	OpIncrement Op = "increment"
	OpDecrement Op = "decrement"
	OpRemove    Op = "remove"
	OpClear     Op = "clear"
)

// Line is one distinct menu item in the cart.
type Line struct {
	ItemID string          `json:"itemId"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Qty    int             `json:"qty"`
	// Ref is the item id in the form the backend sent it.
	Ref common.FlexibleID `json:"-"`
}

// Total returns price times quantity.
func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// Change describes an effective mutation passed to observers.
type Change struct {
	Op     Op
	ItemID string
}

// Store holds the cart lines of one session. It is not safe for concurrent
// use; the owning session serialises access.
type Store struct {
	lines     []Line
	notifier  notify.Notifier
	observers []func(Change)
}

// NewStore returns an empty cart. A nil notifier discards messages.
func NewStore(notifier notify.Notifier) *Store {
	if notifier == nil {
		notifier = notify.Nop
	}
	return &Store{notifier: notifier}
}

// Subscribe registers fn to run synchronously after every effective mutation.
func (s *Store) Subscribe(fn func(Change)) {
	if fn != nil {
		s.observers = append(s.observers, fn)
	}
}

// Add puts one unit of item into the cart, appending a new line when the item
// is not present yet. Availability is the caller's concern.
func (s *Store) Add(item menu.Item) {
	id := item.ID.String()
	if i := s.index(id); i >= 0 {
		s.lines[i].Qty++
	} else {
		s.lines = append(s.lines, Line{
			ItemID: id,
			Name:   item.Name,
			Price:  decimal.NewFromFloat(item.Price),
			Qty:    1,
			Ref:    item.ID,
		})
	}
	s.changed(Change{Op: OpAdd, ItemID: id})
	s.notifier.Notify(notify.Success, fmt.Sprintf("%s added to cart", item.Name))
}

// Increment raises the quantity of an existing line by one.
func (s *Store) Increment(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.lines[i].Qty++
	s.changed(Change{Op: OpIncrement, ItemID: id})
	return true
}

// Decrement lowers the quantity of a line by one, removing it at zero.
func (s *Store) Decrement(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	if s.lines[i].Qty > 1 {
		s.lines[i].Qty--
	} else {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	}
	s.changed(Change{Op: OpDecrement, ItemID: id})
	return true
}

// Remove drops the line regardless of quantity.
func (s *Store) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.changed(Change{Op: OpRemove, ItemID: id})
	return true
}

// Clear empties the cart.
func (s *Store) Clear() bool {
	if len(s.lines) == 0 {
		return false
	}
	s.lines = nil
	s.changed(Change{Op: OpClear})
	return true
}

// Lines returns a copy of the lines in insertion order.
func (s *Store) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len returns the number of distinct lines.
func (s *Store) Len() int { return len(s.lines) }

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool { return len(s.lines) == 0 }

// Units returns the total quantity across all lines.
func (s *Store) Units() int {
	n := 0
	for _, l := range s.lines {
		n += l.Qty
	}
	return n
}

// PricingItems converts the lines for the pricing engine.
func (s *Store) PricingItems() []pricing.Item {
	out := make([]pricing.Item, 0, len(s.lines))
	for _, l := range s.lines {
		out = append(out, pricing.Item{Qty: l.Qty, UnitPrice: l.Price})
	}
	return out
}

// Subtotal sums price times quantity over all lines.
func (s *Store) Subtotal() decimal.Decimal {
	return pricing.Subtotal(s.PricingItems())
}

func (s *Store) index(id string) int {
	for i, l := range s.lines {
		if l.ItemID == id {
			return i
		}
	}
	return -1
}

func (s *Store) changed(c Change) {
	obs.CountCartMutation(string(c.Op))
	for _, fn := range s.observers {
		fn(c)
	}
}
