package models

import "time"

// CartItem references a product; a cart holds at most one line per product.
type CartItem struct {
	ProductID     string `json:"productId" bson:"product"`
	Quantity      int    `json:"quantity" bson:"quantity"`
	SelectedColor string `json:"selectedColor,omitempty" bson:"selectedColor,omitempty"`
	SelectedSize  string `json:"selectedSize,omitempty" bson:"selectedSize,omitempty"`
}

// Cart is one per user. It is emptied, not deleted, after checkout.
type Cart struct {
	ID        string     `json:"id" bson:"_id"`
	UserID    string     `json:"userId" bson:"user"`
	Items     []CartItem `json:"items" bson:"items"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// Find returns the index of the line for productID, or -1.
func (c *Cart) Find(productID string) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// CartLine is a cart item joined with its product, as returned to clients.
type CartLine struct {
	Product       *Product `json:"product"`
	Quantity      int      `json:"quantity"`
	SelectedColor string   `json:"selectedColor,omitempty"`
	SelectedSize  string   `json:"selectedSize,omitempty"`
}
