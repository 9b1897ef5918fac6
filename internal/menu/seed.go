package menu

const (
	teaImage   = "https://images.unsplash.com/photo-1513635269975-59663e0ac1ad?q=80&w=600&auto=format&fit=crop"
	cokeImage  = "https://images.unsplash.com/photo-1513558161293-cdaf765ed2fd?q=80&w=600&auto=format&fit=crop"
	chipsImage = "https://images.unsplash.com/photo-1541599540903-216a46ca1dc0?q=80&w=600&auto=format&fit=crop"
)

// DefaultSeed is the first-run menu posted when the backend has no items.
func DefaultSeed() []Item {
	return []Item{
		{Name: "Tea", Category: "Beverages", Price: 10, Description: "Hot tea", IsAvailable: true, ImageURL: teaImage},
		{Name: "Coffee", Category: "Beverages", Price: 10, Description: "Hot coffee", IsAvailable: true, ImageURL: "https://images.unsplash.com/photo-1509042239860-f550ce710b93?q=80&w=600&auto=format&fit=crop"},
		{Name: "Banana Shake (1L)", Category: "Beverages", Price: 90, Description: "Creamy banana shake, 1 litre", IsAvailable: true, ImageURL: "https://images.unsplash.com/photo-1586201375754-1421e0aa2bcc?q=80&w=600&auto=format&fit=crop"},
		{Name: "Masala Chai", Category: "Beverages", Price: 15, Description: "Freshly brewed spiced tea", IsAvailable: true, ImageURL: "https://images.unsplash.com/photo-1564890369478-c89ca6d9cde9?q=80&w=600&auto=format&fit=crop"},
		{Name: "Cold Coffee", Category: "Beverages", Price: 60, Description: "Chilled coffee with ice", IsAvailable: true, ImageURL: "https://images.unsplash.com/photo-1485808191679-5f86510681a2?q=80&w=600&auto=format&fit=crop"},

		{Name: "Coca-Cola 250ml", Category: "Cold Drinks", Price: 35, Description: "Chilled Coke 250ml", IsAvailable: true, ImageURL: cokeImage},
		{Name: "Coca-Cola 500ml", Category: "Cold Drinks", Price: 50, Description: "Chilled Coke 500ml", IsAvailable: true, ImageURL: cokeImage},
		{Name: "Sprite 500ml", Category: "Cold Drinks", Price: 50, Description: "Lemon-lime soda 500ml", IsAvailable: true, ImageURL: "https://images.unsplash.com/photo-1582719478250-c89cae4dc85b?q=80&w=600&auto=format&fit=crop"},
		{Name: "Fanta 500ml", Category: "Cold Drinks", Price: 50, Description: "Orange soda 500ml", IsAvailable: true, ImageURL: "https://images.unsplash.com/photo-1600289031468-904c0b8ee1f0?q=80&w=600&auto=format&fit=crop"},
		{Name: "Thums Up 500ml", Category: "Cold Drinks", Price: 50, Description: "Strong cola 500ml", IsAvailable: true, ImageURL: "https://images.unsplash.com/photo-1624722213088-23c5321135a4?q=80&w=600&auto=format&fit=crop"},

		{Name: "Lays Classic Salted", Category: "Chips", Price: 20, Description: "Classic salted potato chips", IsAvailable: true, ImageURL: chipsImage},
		{Name: "Lays Magic Masala", Category: "Chips", Price: 20, Description: "Spicy masala chips", IsAvailable: true, ImageURL: chipsImage},
		{Name: "Kurkure Masala Munch", Category: "Chips", Price: 20, Description: "Masaledar crunchy snack", IsAvailable: true, ImageURL: chipsImage},
		{Name: "Bingo Mad Angles", Category: "Chips", Price: 20, Description: "Tangy triangle chips", IsAvailable: true, ImageURL: chipsImage},

		{Name: "Veg Maggie", Category: "Fast Food", Price: 45, Description: "Masala maggie with veggies", IsAvailable: true, ImageURL: "https://images.unsplash.com/photo-1604908812464-07f2b02ab0ad?q=80&w=600&auto=format&fit=crop"},
		{Name: "Paneer Sandwich", Category: "Fast Food", Price: 70, Description: "Grilled sandwich with paneer", IsAvailable: true, ImageURL: "https://images.unsplash.com/photo-1604908554007-43c8fb1a8c54?q=80&w=600&auto=format&fit=crop"},
		{Name: "French Fries", Category: "Fast Food", Price: 65, Description: "Crispy golden fries", IsAvailable: true, ImageURL: chipsImage},
	}
}
