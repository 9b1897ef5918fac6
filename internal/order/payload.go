package order

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/canteen-order/internal/cart"
	"github.com/noah-isme/canteen-order/internal/common"
	"github.com/noah-isme/canteen-order/internal/pricing"
)

// Item is one order line as sent to the backend.
type Item struct {
	ItemID common.FlexibleID `json:"item_id"`
	Name   string            `json:"name"`
	Qty    int               `json:"qty"`
	Price  float64           `json:"price"`
}

// Payload is the order request body. It is built once per attempt and not
// changed afterwards.
type Payload struct {
	CustomerName         string  `json:"customer_name"`
	Phone                string  `json:"phone"`
	Hostel               string  `json:"hostel"`
	Room                 string  `json:"room"`
	DeliveryInstructions string  `json:"delivery_instructions"`
	Items                []Item  `json:"items"`
	TotalAmount          float64 `json:"total_amount"`
}

// Result is the backend acknowledgement of an accepted order.
type Result struct {
	ID string `json:"id"`
}

// Draft is the session state an order is built from.
type Draft struct {
	Form  Form
	Lines []cart.Line
	Total decimal.Decimal
}

// NewPayload snapshots d. The total is rounded to two decimals.
func NewPayload(d Draft) Payload {
	f := d.Form.Normalized()
	items := make([]Item, 0, len(d.Lines))
	for _, l := range d.Lines {
		price, _ := l.Price.Float64()
		ref := l.Ref
		if ref.IsZero() {
			ref = common.StringID(l.ItemID)
		}
		items = append(items, Item{
			ItemID: ref,
			Name:   l.Name,
			Qty:    l.Qty,
			Price:  price,
		})
	}
	return Payload{
		CustomerName:         f.Name,
		Phone:                f.Phone,
		Hostel:               f.Hostel,
		Room:                 f.Room,
		DeliveryInstructions: f.Notes,
		Items:                items,
		TotalAmount:          pricing.Float(d.Total),
	}
}
