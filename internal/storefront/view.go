package storefront

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/canteen-order/internal/cart"
	"github.com/noah-isme/canteen-order/internal/coupon"
	"github.com/noah-isme/canteen-order/internal/menu"
	"github.com/noah-isme/canteen-order/internal/pricing"
)

// MenuView is the menu listing for one category.
type MenuView struct {
	Items      []MenuItemView `json:"items"`
	Categories []string       `json:"categories"`
	Category   string         `json:"category"`
	Loaded     bool           `json:"loaded"`
}

// MenuItemView is a menu item ready for display.
type MenuItemView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	PriceLabel  string  `json:"priceLabel"`
	Description string  `json:"description"`
	IsAvailable bool    `json:"isAvailable"`
	ImageURL    string  `json:"imageUrl"`
}

// CartView is the cart with its derived pricing and coupon state.
type CartView struct {
	Lines      []LineView  `json:"lines"`
	Units      int         `json:"units"`
	Pricing    PricingView `json:"pricing"`
	Coupon     CouponView  `json:"coupon"`
	Submitting bool        `json:"submitting"`
}

// LineView is one cart line.
type LineView struct {
	ItemID     string  `json:"itemId"`
	Name       string  `json:"name"`
	Qty        int     `json:"qty"`
	Price      float64 `json:"price"`
	LineTotal  float64 `json:"lineTotal"`
	TotalLabel string  `json:"totalLabel"`
}

// PricingView carries amounts rounded for display along with their labels.
type PricingView struct {
	Subtotal    float64           `json:"subtotal"`
	Discount    float64           `json:"discount"`
	DeliveryFee float64           `json:"deliveryFee"`
	Total       float64           `json:"total"`
	Eligible    bool              `json:"eligible"`
	Labels      map[string]string `json:"labels"`
}

// CouponView is the coupon state and typed text.
type CouponView struct {
	State coupon.State `json:"state"`
	Input string       `json:"input"`
	Hint  string       `json:"hint,omitempty"`
}

func newMenuView(items []menu.Item, category string, loaded bool) MenuView {
	filtered := menu.Filter(items, category)
	out := make([]MenuItemView, 0, len(filtered))
	for _, it := range filtered {
		out = append(out, MenuItemView{
			ID:          it.ID.String(),
			Name:        it.Name,
			Category:    it.Category,
			Price:       it.Price,
			PriceLabel:  pricing.Format(decimal.NewFromFloat(it.Price)),
			Description: it.Description,
			IsAvailable: it.IsAvailable,
			ImageURL:    it.Image(),
		})
	}
	return MenuView{
		Items:      out,
		Categories: menu.Categories(items),
		Category:   category,
		Loaded:     loaded,
	}
}

func newLineViews(lines []cart.Line) []LineView {
	out := make([]LineView, 0, len(lines))
	for _, l := range lines {
		total := l.Total()
		out = append(out, LineView{
			ItemID:     l.ItemID,
			Name:       l.Name,
			Qty:        l.Qty,
			Price:      pricing.Float(l.Price),
			LineTotal:  pricing.Float(total),
			TotalLabel: pricing.Format(total),
		})
	}
	return out
}

func newPricingView(s pricing.Snapshot) PricingView {
	return PricingView{
		Subtotal:    pricing.Float(s.Subtotal),
		Discount:    pricing.Float(s.Discount),
		DeliveryFee: pricing.Float(s.DeliveryFee),
		Total:       pricing.Float(s.Total),
		Eligible:    s.Eligible,
		Labels: map[string]string{
			"subtotal":    pricing.Format(s.Subtotal),
			"discount":    pricing.Format(s.Discount),
			"deliveryFee": pricing.Format(s.DeliveryFee),
			"total":       pricing.Format(s.Total),
		},
	}
}
