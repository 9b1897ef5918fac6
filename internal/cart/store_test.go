package cart

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/canteen-order/internal/common"
	"github.com/noah-isme/canteen-order/internal/menu"
	"github.com/noah-isme/canteen-order/internal/notify"
)

var (
	shake = menu.Item{ID: common.StringID("shake"), Name: "Banana Shake (1L)", Category: "Beverages", Price: 90, IsAvailable: true}
	thali = menu.Item{ID: common.StringID("thali"), Name: "Thali", Category: "Meals", Price: 170, IsAvailable: true}
	tea   = menu.Item{ID: common.StringID("tea"), Name: "Tea", Category: "Beverages", Price: 10, IsAvailable: true}
)

func qtys(s *Store) map[string]int {
	out := map[string]int{}
	for _, l := range s.Lines() {
		out[l.ItemID] = l.Qty
	}
	return out
}

func TestAddMergesLines(t *testing.T) {
	rec := &notify.Recorder{}
	s := NewStore(rec)

	s.Add(shake)
	s.Add(thali)
	s.Add(shake)

	lines := s.Lines()
	require.Len(t, lines, 2)
	require.Equal(t, "shake", lines[0].ItemID)
	require.Equal(t, 2, lines[0].Qty)
	require.Equal(t, "thali", lines[1].ItemID)
	require.Equal(t, "350", s.Subtotal().String())
	require.Equal(t, 3, s.Units())

	last, ok := rec.Last()
	require.True(t, ok)
	require.Equal(t, notify.Success, last.Kind)
	require.Equal(t, "Banana Shake (1L) added to cart", last.Message)
	require.Len(t, rec.Items, 3)
}

func TestAddIncrementRoundTrip(t *testing.T) {
	s := NewStore(nil)
	s.Add(tea)
	before := qtys(s)

	s.Add(shake)
	require.True(t, s.Decrement("shake"))
	require.Equal(t, before, qtys(s))

	s.Add(tea)
	require.True(t, s.Decrement("tea"))
	require.Equal(t, before, qtys(s))
}

func TestDecrementRemovesAtOne(t *testing.T) {
	s := NewStore(nil)
	s.Add(tea)
	require.True(t, s.Decrement("tea"))
	require.True(t, s.IsEmpty())
	for _, l := range s.Lines() {
		require.Positive(t, l.Qty)
	}
}

func TestMutationsOnAbsentIDsAreNoOps(t *testing.T) {
	s := NewStore(nil)
	s.Add(tea)
	calls := 0
	s.Subscribe(func(Change) { calls++ })

	require.False(t, s.Increment("missing"))
	require.False(t, s.Decrement("missing"))
	require.False(t, s.Remove("missing"))
	require.Equal(t, 0, calls)
	require.Equal(t, map[string]int{"tea": 1}, qtys(s))
}

func TestRemoveAndClear(t *testing.T) {
	s := NewStore(nil)
	s.Add(tea)
	s.Add(tea)
	s.Add(shake)

	require.True(t, s.Remove("tea"))
	require.Equal(t, map[string]int{"shake": 1}, qtys(s))

	require.True(t, s.Clear())
	require.True(t, s.IsEmpty())
	require.True(t, s.Subtotal().IsZero())
	require.False(t, s.Clear())
}

func TestObserversRunBeforeAddNotification(t *testing.T) {
	var order []string
	s := NewStore(notify.NotifierFunc(func(_ notify.Kind, msg string) {
		order = append(order, "notify:"+msg)
	}))
	s.Subscribe(func(c Change) {
		order = append(order, "observer:"+string(c.Op))
	})

	s.Add(tea)
	s.Increment("tea")
	require.Equal(t, []string{"observer:add", "notify:Tea added to cart", "observer:increment"}, order)
}

func TestLinesReturnsCopy(t *testing.T) {
	s := NewStore(nil)
	s.Add(tea)
	lines := s.Lines()
	lines[0].Qty = 99
	require.Equal(t, 1, s.Lines()[0].Qty)
}

func TestRandomSequencesNeverLeaveEmptyLines(t *testing.T) {
	s := NewStore(notify.Nop)
	rng := rand.New(rand.NewSource(7))
	items := []menu.Item{shake, thali, tea}
	ids := []string{"shake", "thali", "tea", "ghost"}

	for step := 0; step < 5000; step++ {
		id := ids[rng.Intn(len(ids))]
		switch rng.Intn(5) {
		case 0:
			s.Add(items[rng.Intn(len(items))])
		case 1:
			s.Increment(id)
		case 2, 3:
			s.Decrement(id)
		case 4:
			s.Remove(id)
		}

		seen := map[string]bool{}
		sum := decimal.Zero
		units := 0
		for _, l := range s.Lines() {
			require.GreaterOrEqual(t, l.Qty, 1, "step %d", step)
			require.False(t, seen[l.ItemID], "step %d", step)
			seen[l.ItemID] = true
			sum = sum.Add(l.Total())
			units += l.Qty
		}
		require.True(t, sum.Equal(s.Subtotal()), "step %d", step)
		require.Equal(t, units, s.Units())
		require.Equal(t, len(seen) == 0, s.IsEmpty())
	}
}
