package menu

import (
	"strings"

	"github.com/noah-isme/canteen-order/internal/common"
)

// DefaultImageURL is shown for items without an image.
const DefaultImageURL = "https://images.unsplash.com/photo-1540189549336-e6e99c3679fe?q=80&w=600&auto=format&fit=crop"

// AllCategories is the pseudo category selecting every item.
const AllCategories = "All"

// Item is a purchasable menu entry as served by the backend.
type Item struct {
	ID          common.FlexibleID `json:"id,omitzero"`
	Name        string            `json:"name"`
	Category    string            `json:"category"`
	Price       float64           `json:"price"`
	Description string            `json:"description"`
	IsAvailable bool              `json:"is_available"`
	ImageURL    string            `json:"image_url,omitempty"`
}

// Image returns the item image or the placeholder.
func (it Item) Image() string {
	if strings.TrimSpace(it.ImageURL) == "" {
		return DefaultImageURL
	}
	return it.ImageURL
}

// Categories returns "All" followed by every distinct category in first-seen order.
func Categories(items []Item) []string {
	out := []string{AllCategories}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.Category == "" {
			continue
		}
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
	}
	return out
}

// Filter returns the items in category. An empty category or "All" selects everything.
func Filter(items []Item, category string) []Item {
	category = strings.TrimSpace(category)
	if category == "" || category == AllCategories {
		out := make([]Item, len(items))
		copy(out, items)
		return out
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

// Find returns the item with id.
func Find(items []Item, id string) (Item, bool) {
	for _, it := range items {
		if it.ID.String() == id {
			return it, true
		}
	}
	return Item{}, false
}
